package utils

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/types"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Register custom validators
	_ = validate.RegisterValidation("stellar_address", validateAddressTag)
	_ = validate.RegisterValidation("stellar_amount", validateAmountTag)
	_ = validate.RegisterValidation("soroban_symbol", validateSymbolTag)
	_ = validate.RegisterValidation("soroban_contract", validateContractTag)
}

// ValidateStruct validates v using its struct tags
func ValidateStruct(v interface{}) error {
	if err := validate.Struct(v); err != nil {
		return &types.DappError{
			Code:    types.ErrInvalidInput,
			Message: fmt.Sprintf("validation failed: %v", err),
			Err:     err,
		}
	}
	return nil
}

// Custom validator functions
func validateAddressTag(fl validator.FieldLevel) bool {
	return ValidateAddress(fl.Field().String()) == nil
}

func validateAmountTag(fl validator.FieldLevel) bool {
	_, err := ValidateAmount(fl.Field().String())
	return err == nil
}

func validateSymbolTag(fl validator.FieldLevel) bool {
	return ValidateSymbol(fl.Field().String()) == nil
}

func validateContractTag(fl validator.FieldLevel) bool {
	return ValidateContractID(fl.Field().String()) == nil
}
