package settlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/clients"
	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/types"
	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/utils"
)

// Settler interface defines the contract for transaction submission
type Settler interface {
	Settle(ctx context.Context, env *types.SignedEnvelope, kind types.OperationKind) (*types.SettlementResult, error)
}

// SettlementService submits signed envelopes to the network they were built
// for. Classic payments go through Horizon, contract invocations through
// Soroban RPC.
type SettlementService struct {
	network types.Network
	horizon clients.SubmissionEndpoint
	soroban clients.SubmissionEndpoint
	timeout time.Duration
}

var _ Settler = (*SettlementService)(nil)

// NewSettlementService creates a new settlement service
func NewSettlementService(network types.Network, timeout time.Duration) *SettlementService {
	return &SettlementService{
		network: network,
		timeout: timeout,
	}
}

// AddHorizonClient sets the endpoint payments are submitted to
func (s *SettlementService) AddHorizonClient(endpoint clients.SubmissionEndpoint) {
	s.horizon = endpoint
}

// AddSorobanClient sets the endpoint contract invocations are submitted to
func (s *SettlementService) AddSorobanClient(endpoint clients.SubmissionEndpoint) {
	s.soroban = endpoint
}

// Settle submits env. Once called, submission is not cancelled by ctx; only
// the service timeout applies.
func (s *SettlementService) Settle(
	ctx context.Context,
	env *types.SignedEnvelope,
	kind types.OperationKind,
) (*types.SettlementResult, error) {
	if env == nil {
		return nil, types.NewError(types.ErrInvalidOperation, "missing signed envelope", nil)
	}
	if env.Network != s.network {
		return nil, types.NewError(types.ErrNetworkMismatch,
			fmt.Sprintf("envelope bound to %s, service submits to %s", env.Network, s.network), nil)
	}

	tx, err := utils.DecodeTransaction(env.XDR)
	if err != nil {
		return nil, types.NewError(types.ErrMalformedResponse, "signed envelope does not decode", err)
	}
	hash, err := utils.TransactionHash(tx, s.network.Passphrase())
	if err != nil {
		return nil, types.NewError(types.ErrMalformedResponse, "signed envelope does not hash", err)
	}
	if env.Hash != "" && hash != env.Hash {
		return nil, types.NewError(types.ErrMalformedResponse,
			fmt.Sprintf("envelope hash %s does not match %s", hash, env.Hash), nil)
	}

	var endpoint clients.SubmissionEndpoint
	switch kind {
	case types.OperationPayment:
		endpoint = s.horizon
	case types.OperationContractInvoke:
		endpoint = s.soroban
	default:
		return nil, types.NewError(types.ErrInvalidOperation, fmt.Sprintf("unsupported operation kind: %s", kind), nil)
	}
	if endpoint == nil {
		return nil, types.NewError(types.ErrConfigError, fmt.Sprintf("no submission endpoint for %s", kind), nil)
	}

	settleCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	resp, err := endpoint.SubmitTransaction(settleCtx, env.XDR)
	if err != nil {
		var de *types.DappError
		if errors.As(err, &de) {
			return nil, err
		}
		return nil, types.NewError(types.ErrNetworkError, "submission failed", err)
	}

	if resp == nil || resp.Hash == "" {
		return nil, types.NewError(types.ErrNoHashReturned, "submission response carries no hash", nil)
	}

	extra := types.ExtraData{"status": resp.Status}
	if resp.Hash != hash {
		extra["envelopeHash"] = hash
	}

	return &types.SettlementResult{
		Success: true,
		TxHash:  resp.Hash,
		Network: s.network,
		Ledger:  resp.Ledger,
		Extra:   extra,
	}, nil
}
