package builder

import (
	"fmt"

	"github.com/stellar/go/strkey"
	"github.com/stellar/go/xdr"

	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/types"
)

// AddressValue decodes an address returned by a contract call into its
// account (G...) or contract (C...) strkey.
func AddressValue(v xdr.ScVal) (string, error) {
	if v.Type != xdr.ScValTypeScvAddress || v.Address == nil {
		return "", unexpected("address", v)
	}

	switch v.Address.Type {
	case xdr.ScAddressTypeScAddressTypeAccount:
		if v.Address.AccountId == nil {
			return "", unexpected("address", v)
		}
		return v.Address.AccountId.Address(), nil
	case xdr.ScAddressTypeScAddressTypeContract:
		if v.Address.ContractId == nil {
			return "", unexpected("address", v)
		}
		id, err := strkey.Encode(strkey.VersionByteContract, v.Address.ContractId[:])
		if err != nil {
			return "", types.NewError(types.ErrMalformedResponse, "invalid contract address", err)
		}
		return id, nil
	default:
		return "", unexpected("address", v)
	}
}

// SymbolValue decodes a symbol. Strings are accepted too.
func SymbolValue(v xdr.ScVal) (string, error) {
	switch {
	case v.Type == xdr.ScValTypeScvSymbol && v.Sym != nil:
		return string(*v.Sym), nil
	case v.Type == xdr.ScValTypeScvString && v.Str != nil:
		return string(*v.Str), nil
	default:
		return "", unexpected("symbol", v)
	}
}

// UintValue decodes an unsigned 32 or 64 bit integer.
func UintValue(v xdr.ScVal) (uint64, error) {
	switch {
	case v.Type == xdr.ScValTypeScvU32 && v.U32 != nil:
		return uint64(*v.U32), nil
	case v.Type == xdr.ScValTypeScvU64 && v.U64 != nil:
		return uint64(*v.U64), nil
	default:
		return 0, unexpected("unsigned integer", v)
	}
}

func unexpected(want string, v xdr.ScVal) error {
	return types.NewError(types.ErrMalformedResponse,
		fmt.Sprintf("expected %s return value, got %s", want, v.Type), nil)
}
