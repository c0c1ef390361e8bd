package clients

import (
	"context"

	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/types"
)

// Client is the part shared by every ledger-facing client
type Client interface {
	GetNetwork() types.Network
	Close()
}

// AccountLoader reads the current state of an account. An unknown account
// yields ErrAccountNotFound.
type AccountLoader interface {
	LoadAccount(ctx context.Context, address string) (*types.AccountSnapshot, error)
}

// FeeOracle returns the per-operation base fee in stroops
type FeeOracle interface {
	BaseFee(ctx context.Context) (int64, error)
}

// SimulationEndpoint preflights a contract invocation. Ledger-side failures
// are reported in SimulationResult.Error, transport failures as errors.
type SimulationEndpoint interface {
	SimulateTransaction(ctx context.Context, envelope string) (*types.SimulationResult, error)
}

// SubmissionEndpoint hands a signed envelope to the network
type SubmissionEndpoint interface {
	SubmitTransaction(ctx context.Context, envelope string) (*types.SubmitResponse, error)
}

// FixedFee is a FeeOracle that always answers the same fee.
type FixedFee int64

func (f FixedFee) BaseFee(context.Context) (int64, error) {
	return int64(f), nil
}
