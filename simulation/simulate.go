package simulation

import (
	"context"
	"fmt"
	"time"

	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/clients"
	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/types"
)

// Simulator preflights contract invocations
type Simulator interface {
	Simulate(ctx context.Context, tx *types.UnsignedTransaction) (*types.SimulationResult, error)
}

// Failure is the data attached to a SIMULATION_FAILED error.
type Failure struct {
	Kind   string `json:"kind"`
	Detail string `json:"detail"`
}

// SimulationService runs preflight against a Soroban RPC endpoint
type SimulationService struct {
	endpoint clients.SimulationEndpoint
	timeout  time.Duration
}

var _ Simulator = (*SimulationService)(nil)

// NewSimulationService creates a new simulation service
func NewSimulationService(endpoint clients.SimulationEndpoint, timeout time.Duration) *SimulationService {
	return &SimulationService{
		endpoint: endpoint,
		timeout:  timeout,
	}
}

// Simulate preflights tx. Transport failures and failures reported by the
// ledger both come back as SIMULATION_FAILED, told apart by Failure.Kind.
func (s *SimulationService) Simulate(ctx context.Context, tx *types.UnsignedTransaction) (*types.SimulationResult, error) {
	if tx == nil || tx.Operation == nil || tx.Operation.Kind() != types.OperationContractInvoke {
		return nil, types.NewError(types.ErrInvalidOperation, "only contract invocations are simulated", nil)
	}
	if s.endpoint == nil {
		return nil, types.NewError(types.ErrConfigError, "no simulation endpoint configured", nil)
	}

	simCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.endpoint.SimulateTransaction(simCtx, tx.XDR)
	if err != nil {
		return nil, &types.DappError{
			Code:    types.ErrSimulationFailed,
			Message: "simulation request failed",
			Data:    Failure{Kind: clients.FailureTransport, Detail: err.Error()},
			Err:     err,
		}
	}

	if result == nil {
		return nil, ledgerFailure("empty simulation response")
	}
	if result.Error != "" {
		return nil, ledgerFailure(result.Error)
	}
	if result.TransactionData == "" {
		return nil, ledgerFailure("simulation returned no transaction data")
	}

	return result, nil
}

func ledgerFailure(detail string) error {
	return &types.DappError{
		Code:    types.ErrSimulationFailed,
		Message: fmt.Sprintf("simulation failed: %s", detail),
		Data:    Failure{Kind: clients.FailureLedger, Detail: detail},
	}
}
