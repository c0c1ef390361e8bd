package mocks

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/txnbuild"

	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/types"
)

type Agent struct {
	SignTransactionFunc func(ctx context.Context, envelope string, opts types.SignOptions) ([]byte, error)

	calls atomic.Int32
}

func (a *Agent) SignTransaction(ctx context.Context, envelope string, opts types.SignOptions) ([]byte, error) {
	a.calls.Add(1)
	return a.SignTransactionFunc(ctx, envelope, opts)
}

func (a *Agent) Calls() int {
	return int(a.calls.Load())
}

// BaselineAgent signs with kp under the passphrase it is asked for and
// returns the bare envelope.
func BaselineAgent(t *testing.T, kp *keypair.Full) *Agent {
	t.Helper()

	a := Agent{
		SignTransactionFunc: func(_ context.Context, envelope string, opts types.SignOptions) ([]byte, error) {
			signed, err := SignEnvelope(envelope, opts.NetworkPassphrase, kp)
			if err != nil {
				return nil, err
			}
			return []byte(signed), nil
		},
	}

	return &a
}

// SignEnvelope adds a signature of kp to a base64 envelope.
func SignEnvelope(envelope string, passphrase string, kp *keypair.Full) (string, error) {
	generic, err := txnbuild.TransactionFromXDR(envelope)
	if err != nil {
		return "", err
	}
	tx, _ := generic.Transaction()

	tx, err = tx.Sign(passphrase, kp)
	if err != nil {
		return "", err
	}
	return tx.Base64()
}
