package utils

import (
	"encoding/hex"
	"fmt"

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/txnbuild"
	"github.com/stellar/go/xdr"
)

// DecodeTransaction parses a base64 envelope into a regular transaction.
// Fee bump envelopes are rejected.
func DecodeTransaction(envelope string) (*txnbuild.Transaction, error) {
	generic, err := txnbuild.TransactionFromXDR(envelope)
	if err != nil {
		return nil, fmt.Errorf("failed to decode envelope: %w", err)
	}

	tx, ok := generic.Transaction()
	if !ok {
		return nil, fmt.Errorf("envelope is not a regular transaction")
	}

	return tx, nil
}

// TransactionHash returns the hex hash of tx under the network passphrase
func TransactionHash(tx *txnbuild.Transaction, passphrase string) (string, error) {
	hash, err := tx.Hash(passphrase)
	if err != nil {
		return "", fmt.Errorf("failed to hash transaction: %w", err)
	}
	return hex.EncodeToString(hash[:]), nil
}

// VerifyEnvelopeSignature checks that tx carries a signature from signer over
// its hash under passphrase. Signatures are network scoped, so a transaction
// signed for another network fails here.
func VerifyEnvelopeSignature(tx *txnbuild.Transaction, passphrase string, signer string) error {
	kp, err := keypair.ParseAddress(signer)
	if err != nil {
		return fmt.Errorf("invalid signer address: %w", err)
	}

	signatures := tx.Signatures()
	if len(signatures) == 0 {
		return fmt.Errorf("transaction has no signatures")
	}

	hash, err := tx.Hash(passphrase)
	if err != nil {
		return fmt.Errorf("failed to hash transaction: %w", err)
	}

	hint := xdr.SignatureHint(kp.Hint())
	for _, sig := range signatures {
		if sig.Hint != hint {
			continue
		}
		if err := kp.Verify(hash[:], sig.Signature); err == nil {
			return nil
		}
	}

	return fmt.Errorf("no valid signature from %s for this network", signer)
}
