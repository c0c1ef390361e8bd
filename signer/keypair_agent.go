package signer

import (
	"context"
	"fmt"

	"github.com/stellar/go/keypair"

	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/types"
	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/utils"
)

var _ Agent = (*KeypairAgent)(nil)

// KeypairAgent signs locally with a secret seed. Meant for the CLI and for
// development, where no wallet is at hand.
type KeypairAgent struct {
	kp *keypair.Full
}

func NewKeypairAgent(secret string) (*KeypairAgent, error) {
	kp, err := keypair.ParseFull(secret)
	if err != nil {
		return nil, types.NewError(types.ErrConfigError, "invalid secret seed", err)
	}
	return &KeypairAgent{kp: kp}, nil
}

// Address is the account the agent signs for
func (k *KeypairAgent) Address() string {
	return k.kp.Address()
}

func (k *KeypairAgent) SignTransaction(ctx context.Context, envelope string, opts types.SignOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.Address != "" && opts.Address != k.kp.Address() {
		return nil, fmt.Errorf("agent holds %s, asked to sign for %s", k.kp.Address(), opts.Address)
	}
	if opts.NetworkPassphrase == "" {
		return nil, fmt.Errorf("network passphrase is required")
	}

	tx, err := utils.DecodeTransaction(envelope)
	if err != nil {
		return nil, err
	}

	tx, err = tx.Sign(opts.NetworkPassphrase, k.kp)
	if err != nil {
		return nil, fmt.Errorf("failed to sign: %w", err)
	}

	signed, err := tx.Base64()
	if err != nil {
		return nil, err
	}
	return []byte(signed), nil
}
