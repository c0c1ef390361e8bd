package verification

import (
	"fmt"

	"github.com/stellar/go/txnbuild"

	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/types"
	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/utils"
)

// Verifier checks a signed envelope against the transaction it was
// requested for.
type Verifier interface {
	Verify(tx *types.UnsignedTransaction, signedXDR string) (*types.VerificationResult, error)
}

// VerificationService verifies envelopes for a fixed set of networks. The
// networks are also probed to explain a signature made for the wrong one.
type VerificationService struct {
	networks []types.Network
}

// NewVerificationService creates a verifier that knows networks. With none
// given every known network is used.
func NewVerificationService(networks ...types.Network) *VerificationService {
	if len(networks) == 0 {
		networks = types.Networks
	}
	return &VerificationService{networks: networks}
}

// Verify decodes signedXDR and checks that it is the transaction tx
// describes, signed by tx.Source under tx.Network.
//
// A result is returned alongside NETWORK_MISMATCH so callers can see which
// network the envelope was signed for.
func (s *VerificationService) Verify(tx *types.UnsignedTransaction, signedXDR string) (*types.VerificationResult, error) {
	if !s.IsNetworkSupported(tx.Network) {
		return nil, types.NewError(types.ErrConfigError,
			fmt.Sprintf("network %s is not supported", tx.Network), nil)
	}

	signed, err := utils.DecodeTransaction(signedXDR)
	if err != nil {
		return nil, types.NewError(types.ErrMalformedResponse, "signer returned an invalid envelope", err)
	}

	passphrase := tx.Network.Passphrase()
	hash, err := utils.TransactionHash(signed, passphrase)
	if err != nil {
		return nil, types.NewError(types.ErrMalformedResponse, "signer returned an invalid envelope", err)
	}

	result := &types.VerificationResult{
		Hash:    hash,
		Signer:  tx.Source,
		Network: tx.Network,
	}

	if hash != tx.Hash {
		result.InvalidReason = fmt.Sprintf("signed transaction %s differs from requested %s", hash, tx.Hash)
		return result, types.NewError(types.ErrSignerError, result.InvalidReason, nil)
	}

	if err := utils.VerifyEnvelopeSignature(signed, passphrase, tx.Source); err != nil {
		if other, ok := s.signedFor(signed, tx); ok {
			result.SignedFor = other
			result.InvalidReason = fmt.Sprintf("envelope signed for %s, built for %s", other, tx.Network)
		} else {
			result.InvalidReason = fmt.Sprintf("no valid %s signature on envelope", tx.Network)
		}
		return result, types.NewError(types.ErrNetworkMismatch, result.InvalidReason, err)
	}

	result.IsValid = true
	return result, nil
}

// signedFor finds the network, other than the one tx was built for, under
// which the source signature on signed verifies.
func (s *VerificationService) signedFor(signed *txnbuild.Transaction, tx *types.UnsignedTransaction) (types.Network, bool) {
	for _, n := range s.networks {
		if n == tx.Network {
			continue
		}
		if utils.VerifyEnvelopeSignature(signed, n.Passphrase(), tx.Source) == nil {
			return n, true
		}
	}
	return "", false
}

// SupportedNetworks returns the networks this verifier knows
func (s *VerificationService) SupportedNetworks() []types.Network {
	return append([]types.Network(nil), s.networks...)
}

func (s *VerificationService) IsNetworkSupported(network types.Network) bool {
	for _, n := range s.networks {
		if n == network {
			return true
		}
	}
	return false
}
