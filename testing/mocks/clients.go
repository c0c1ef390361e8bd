package mocks

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/types"
)

type AccountLoader struct {
	LoadAccountFunc func(ctx context.Context, address string) (*types.AccountSnapshot, error)

	calls atomic.Int32
}

func (a *AccountLoader) LoadAccount(ctx context.Context, address string) (*types.AccountSnapshot, error) {
	a.calls.Add(1)
	return a.LoadAccountFunc(ctx, address)
}

func (a *AccountLoader) Calls() int {
	return int(a.calls.Load())
}

// BaselineAccountLoader answers every address with a native balance of
// 100 XLM and GenericSequence.
func BaselineAccountLoader(t *testing.T) *AccountLoader {
	t.Helper()

	a := AccountLoader{
		LoadAccountFunc: func(_ context.Context, address string) (*types.AccountSnapshot, error) {
			return &types.AccountSnapshot{
				AccountID: address,
				Sequence:  GenericSequence,
				Balances: []types.Balance{
					{AssetType: "native", Balance: "100.0000000"},
				},
			}, nil
		},
	}

	return &a
}

type FeeOracle struct {
	BaseFeeFunc func(ctx context.Context) (int64, error)

	calls atomic.Int32
}

func (f *FeeOracle) BaseFee(ctx context.Context) (int64, error) {
	f.calls.Add(1)
	return f.BaseFeeFunc(ctx)
}

func (f *FeeOracle) Calls() int {
	return int(f.calls.Load())
}

func BaselineFeeOracle(t *testing.T) *FeeOracle {
	t.Helper()

	f := FeeOracle{
		BaseFeeFunc: func(context.Context) (int64, error) {
			return GenericBaseFee, nil
		},
	}

	return &f
}

type SimulationEndpoint struct {
	SimulateTransactionFunc func(ctx context.Context, envelope string) (*types.SimulationResult, error)

	calls atomic.Int32
}

func (s *SimulationEndpoint) SimulateTransaction(ctx context.Context, envelope string) (*types.SimulationResult, error) {
	s.calls.Add(1)
	return s.SimulateTransactionFunc(ctx, envelope)
}

func (s *SimulationEndpoint) Calls() int {
	return int(s.calls.Load())
}

func BaselineSimulationEndpoint(t *testing.T) *SimulationEndpoint {
	t.Helper()

	s := SimulationEndpoint{
		SimulateTransactionFunc: func(context.Context, string) (*types.SimulationResult, error) {
			return &types.SimulationResult{
				TransactionData: GenericSimulationData,
				MinResourceFee:  1000,
				LatestLedger:    42,
			}, nil
		},
	}

	return &s
}

type SubmissionEndpoint struct {
	SubmitTransactionFunc func(ctx context.Context, envelope string) (*types.SubmitResponse, error)

	calls atomic.Int32
}

func (s *SubmissionEndpoint) SubmitTransaction(ctx context.Context, envelope string) (*types.SubmitResponse, error) {
	s.calls.Add(1)
	return s.SubmitTransactionFunc(ctx, envelope)
}

func (s *SubmissionEndpoint) Calls() int {
	return int(s.calls.Load())
}

func BaselineSubmissionEndpoint(t *testing.T) *SubmissionEndpoint {
	t.Helper()

	s := SubmissionEndpoint{
		SubmitTransactionFunc: func(context.Context, string) (*types.SubmitResponse, error) {
			return &types.SubmitResponse{Hash: GenericHash, Status: "SUCCESS"}, nil
		},
	}

	return &s
}
