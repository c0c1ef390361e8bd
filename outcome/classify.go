package outcome

import (
	"fmt"

	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/types"
)

// Termination is how a pipeline run ended: with a submission hash, an
// error, or neither.
type Termination struct {
	Hash string
	Err  error
}

// Classify maps a termination onto exactly one Outcome. It is pure and
// total. Precedence, highest first: cancellation, simulation failure, missing
// hash, structured rejection, any other error, success.
func Classify(t Termination) types.Outcome {
	if t.Err != nil {
		return classifyError(t.Err)
	}

	if t.Hash == "" {
		return failed(types.ErrNoHashReturned, types.ErrNoHashReturned)
	}

	return types.Outcome{
		Status: types.StatusSuccess,
		Hash:   t.Hash,
	}
}

func classifyError(err error) types.Outcome {
	for _, code := range []string{types.ErrSignerDeclined, types.ErrCancelled} {
		if de, ok := types.FindError(err, code); ok {
			return types.Outcome{
				Status: types.StatusCancelled,
				Reason: de.Error(),
				Code:   code,
			}
		}
	}

	if types.HasCode(err, types.ErrSimulationFailed) {
		return failed(types.ErrSimulationFailed, types.ErrSimulationFailed)
	}

	if types.HasCode(err, types.ErrNoHashReturned) {
		return failed(types.ErrNoHashReturned, types.ErrNoHashReturned)
	}

	if de, ok := types.FindError(err, types.ErrNetworkRejection); ok {
		if codes := resultCodes(de.Data); codes != nil && codes.TransactionCode != "" {
			return types.Outcome{
				Status:          types.StatusFailed,
				Reason:          codes.TransactionCode,
				Code:            types.ErrNetworkRejection,
				TransactionCode: codes.TransactionCode,
				OperationCodes:  codes.OperationCodes,
			}
		}
	}

	return failed(err.Error(), types.ErrorCode(err))
}

func resultCodes(data interface{}) *types.ResultCodes {
	switch c := data.(type) {
	case *types.ResultCodes:
		return c
	case types.ResultCodes:
		return &c
	default:
		return nil
	}
}

func failed(reason, code string) types.Outcome {
	return types.Outcome{
		Status: types.StatusFailed,
		Reason: reason,
		Code:   code,
	}
}

// Recovered turns a recovered panic value into an UNKNOWN error.
func Recovered(v interface{}) error {
	if err, ok := v.(error); ok {
		return types.NewError(types.ErrUnknown, "pipeline panicked", err)
	}
	return types.NewError(types.ErrUnknown, fmt.Sprintf("pipeline panicked: %v", v), nil)
}
