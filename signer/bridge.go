package signer

import (
	"context"
	"errors"

	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/logger"
	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/types"
	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/verification"
)

// Agent is an external, user-controlled signing authority. The returned
// payload is whatever the agent produced; Normalize makes sense of it.
type Agent interface {
	SignTransaction(ctx context.Context, envelope string, opts types.SignOptions) ([]byte, error)
}

// Bridge hands unsigned transactions to an Agent and checks what comes back.
type Bridge struct {
	agent    Agent
	phrases  []string
	verifier verification.Verifier
	logger   logger.Logger
}

type BridgeOption func(*Bridge)

// WithDeclinePhrases replaces the decline phrase table.
func WithDeclinePhrases(phrases []string) BridgeOption {
	return func(b *Bridge) {
		if len(phrases) > 0 {
			b.phrases = phrases
		}
	}
}

// WithVerifier replaces the signed envelope verifier.
func WithVerifier(v verification.Verifier) BridgeOption {
	return func(b *Bridge) {
		if v != nil {
			b.verifier = v
		}
	}
}

func WithLogger(l logger.Logger) BridgeOption {
	return func(b *Bridge) {
		if l != nil {
			b.logger = l
		}
	}
}

func NewBridge(agent Agent, opts ...BridgeOption) *Bridge {
	b := &Bridge{
		agent:    agent,
		phrases:  DefaultDeclinePhrases,
		verifier: verification.NewVerificationService(),
		logger:   &logger.NoopLogger{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Sign obtains the source account's signature for tx. The signed envelope
// must hash to tx.Hash under tx's network and carry a valid signature of
// tx.Source for that network.
func (b *Bridge) Sign(ctx context.Context, tx *types.UnsignedTransaction) (*types.SignedEnvelope, error) {
	if !tx.Submittable() {
		return nil, types.NewError(types.ErrInvalidOperation, "transaction is not ready for signing", nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, types.NewError(types.ErrCancelled, "signing cancelled", err)
	}

	passphrase := tx.Network.Passphrase()
	payload, err := b.agent.SignTransaction(ctx, tx.XDR, types.SignOptions{
		Network:           tx.Network.AgentName(),
		NetworkPassphrase: passphrase,
		Address:           tx.Source,
	})
	if err != nil {
		return nil, b.agentFailure(ctx, err)
	}

	signedXDR, err := Normalize(payload)
	if err != nil {
		var agentErr *AgentError
		if errors.As(err, &agentErr) {
			return nil, b.agentFailure(ctx, agentErr)
		}
		return nil, err
	}

	if _, err := b.verifier.Verify(tx, signedXDR); err != nil {
		return nil, err
	}

	b.logger.Debug("transaction signed", map[string]any{
		"hash":    tx.Hash,
		"network": tx.Network.String(),
		"source":  tx.Source,
	})

	return &types.SignedEnvelope{
		XDR:     signedXDR,
		Network: tx.Network,
		Hash:    tx.Hash,
	}, nil
}

func (b *Bridge) agentFailure(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return types.NewError(types.ErrCancelled, "signing cancelled", err)
	}
	var transport *TransportError
	if errors.As(err, &transport) {
		return types.NewError(types.ErrSignerError, "signing agent unreachable", err)
	}
	if IsDeclined(err.Error(), b.phrases) {
		return types.NewError(types.ErrSignerDeclined, "user declined to sign", err)
	}
	return types.NewError(types.ErrSignerError, "signing agent failed", err)
}
