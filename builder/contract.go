package builder

import (
	"fmt"

	"github.com/stellar/go/strkey"
	"github.com/stellar/go/xdr"

	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/types"
	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/utils"
)

// NFT contract function names
const (
	FnMintNFT  = "mint_nft"
	FnGetTotal = "get_total"
	FnGetOwner = "get_owner"
	FnGetName  = "get_name"
	FnGetImage = "get_image"
)

// ContractSpec maps a function name to its ordered parameter types.
type ContractSpec map[string][]xdr.ScValType

// NFTContract is the declared interface of the NFT minting contract.
var NFTContract = ContractSpec{
	FnMintNFT: {xdr.ScValTypeScvAddress, xdr.ScValTypeScvSymbol, xdr.ScValTypeScvSymbol},
	FnGetTotal: {},
	FnGetOwner: {xdr.ScValTypeScvU32},
	FnGetName:  {xdr.ScValTypeScvU32},
	FnGetImage: {xdr.ScValTypeScvU32},
}

// Check reports whether args match the declared signature of fn. ok is false
// when the contract does not declare fn.
func (c ContractSpec) Check(fn string, args []xdr.ScVal) (ok bool, err error) {
	params, found := c[fn]
	if !found {
		return false, nil
	}

	if len(args) != len(params) {
		return true, fmt.Errorf("%s takes %d arguments, got %d", fn, len(params), len(args))
	}
	for i, want := range params {
		if args[i].Type != want {
			return true, fmt.Errorf("%s argument %d: want %s, got %s", fn, i, want, args[i].Type)
		}
	}
	return true, nil
}

// MintNFT returns the invocation minting an NFT for owner. Name and image ID
// are upper-cased and passed as symbols after the owner address.
func MintNFT(contractID, owner, name, imageID string) (types.ContractInvoke, error) {
	ownerVal, err := AddressArg(owner)
	if err != nil {
		return types.ContractInvoke{}, err
	}

	nameVal, err := SymbolArg(utils.NormalizeSymbol(name))
	if err != nil {
		return types.ContractInvoke{}, err
	}

	imageVal, err := SymbolArg(utils.NormalizeSymbol(imageID))
	if err != nil {
		return types.ContractInvoke{}, err
	}

	return types.ContractInvoke{
		ContractID: contractID,
		Function:   FnMintNFT,
		Args:       []xdr.ScVal{ownerVal, nameVal, imageVal},
	}, nil
}

// AddressArg encodes an account address as an ScVal.
func AddressArg(address string) (xdr.ScVal, error) {
	if err := utils.ValidateAddress(address); err != nil {
		return xdr.ScVal{}, types.NewError(types.ErrInvalidInput, "invalid address argument", err)
	}

	accountID, err := xdr.AddressToAccountId(address)
	if err != nil {
		return xdr.ScVal{}, types.NewError(types.ErrInvalidInput, "invalid address argument", err)
	}

	addr := xdr.ScAddress{
		Type:      xdr.ScAddressTypeScAddressTypeAccount,
		AccountId: &accountID,
	}
	return xdr.ScVal{Type: xdr.ScValTypeScvAddress, Address: &addr}, nil
}

// SymbolArg encodes s as an ScVal symbol.
func SymbolArg(s string) (xdr.ScVal, error) {
	if err := utils.ValidateSymbol(s); err != nil {
		return xdr.ScVal{}, types.NewError(types.ErrInvalidInput, "invalid symbol argument", err)
	}

	sym := xdr.ScSymbol(s)
	return xdr.ScVal{Type: xdr.ScValTypeScvSymbol, Sym: &sym}, nil
}

func U32Arg(n uint32) xdr.ScVal {
	v := xdr.Uint32(n)
	return xdr.ScVal{Type: xdr.ScValTypeScvU32, U32: &v}
}

func contractAddress(contractID string) (xdr.ScAddress, error) {
	raw, err := strkey.Decode(strkey.VersionByteContract, contractID)
	if err != nil {
		return xdr.ScAddress{}, err
	}

	// discriminant SC_ADDRESS_TYPE_CONTRACT followed by the 32 byte id
	encoded := append([]byte{0, 0, 0, byte(xdr.ScAddressTypeScAddressTypeContract)}, raw...)

	var addr xdr.ScAddress
	if err := xdr.SafeUnmarshal(encoded, &addr); err != nil {
		return xdr.ScAddress{}, err
	}
	return addr, nil
}
