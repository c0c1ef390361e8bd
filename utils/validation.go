package utils

import (
	"encoding/hex"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stellar/go/strkey"
)

// AmountPrecision is the number of decimal places of a Stellar amount (1 stroop).
const AmountPrecision = 7

// MaxSymbolLength is the longest Soroban symbol accepted by the host.
const MaxSymbolLength = 32

var (
	symbolPattern = regexp.MustCompile("^[a-zA-Z0-9_]+$")
	maxAmount     = decimal.NewFromInt(math.MaxInt64).Shift(-AmountPrecision)
)

// ValidateAddress checks that address is a well formed ed25519 account ID:
// 56 base32 characters starting with G with a valid CRC16 checksum.
func ValidateAddress(address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return fmt.Errorf("address cannot be empty")
	}

	if !strkey.IsValidEd25519PublicKey(address) {
		return fmt.Errorf("invalid account address: %s", address)
	}

	return nil
}

// IsValidAddress is the boolean form of ValidateAddress
func IsValidAddress(address string) bool {
	return ValidateAddress(address) == nil
}

// ValidateContractID checks that id is a contract strkey (C...)
func ValidateContractID(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("contract id cannot be empty")
	}

	if _, err := strkey.Decode(strkey.VersionByteContract, id); err != nil {
		return fmt.Errorf("invalid contract id %s: %w", id, err)
	}

	return nil
}

// ValidateSymbol checks that s can be encoded as a Soroban symbol
func ValidateSymbol(s string) error {
	if s == "" {
		return fmt.Errorf("symbol cannot be empty")
	}

	if len(s) > MaxSymbolLength {
		return fmt.Errorf("symbol must be at most %d characters long", MaxSymbolLength)
	}

	if !symbolPattern.MatchString(s) {
		return fmt.Errorf("symbol may only contain letters, digits and underscores")
	}

	return nil
}

// NormalizeSymbol trims and upper-cases user supplied names and image IDs.
func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ValidateAmount checks if an amount string is a positive XLM amount with at
// most seven decimal places that fits in int64 stroops.
func ValidateAmount(amount string) (*decimal.Decimal, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return nil, fmt.Errorf("amount cannot be empty")
	}

	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount format: %w", err)
	}

	if !dec.IsPositive() {
		return nil, fmt.Errorf("amount must be greater than zero")
	}

	if !dec.Equal(dec.Truncate(AmountPrecision)) {
		return nil, fmt.Errorf("amount has more than %d decimal places", AmountPrecision)
	}

	if dec.GreaterThan(maxAmount) {
		return nil, fmt.Errorf("amount exceeds the maximum of %s", maxAmount.String())
	}

	return &dec, nil
}

// FormatBalance rounds a balance string for display, e.g. "100.1234567" -> "100.12".
func FormatBalance(balance string, places int32) (string, error) {
	dec, err := decimal.NewFromString(balance)
	if err != nil {
		return "", fmt.Errorf("invalid balance %q: %w", balance, err)
	}
	return dec.StringFixed(places), nil
}

// ValidateTransactionHash checks for a 64 character hex transaction hash
func ValidateTransactionHash(hash string) error {
	if hash == "" {
		return fmt.Errorf("transaction hash cannot be empty")
	}

	if len(hash) != 64 {
		return fmt.Errorf("transaction hash must be 64 characters long")
	}

	if _, err := hex.DecodeString(hash); err != nil {
		return fmt.Errorf("transaction hash must be valid hex")
	}

	return nil
}

// ValidateImageID checks id against the catalogue of mintable images
func ValidateImageID(id string, catalogue []string) error {
	if len(catalogue) == 0 {
		return nil
	}

	for _, known := range catalogue {
		if strings.EqualFold(id, known) {
			return nil
		}
	}

	return fmt.Errorf("invalid image id %s, use one of: %s", id, strings.Join(catalogue, ", "))
}
