package dapp

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/stellar/go/xdr"

	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/builder"
	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/types"
	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/utils"
)

// NFT reads token id from the contract. Ids start at 1; an unknown id makes
// the contract trap, which surfaces as SIMULATION_FAILED.
func (d *Dapp) NFT(ctx context.Context, source string, id uint32) (*types.NFT, error) {
	if id == 0 {
		return nil, types.NewError(types.ErrInvalidInput, "nft ids start at 1", nil)
	}

	snapshot, err := d.querySource(ctx, source)
	if err != nil {
		return nil, err
	}
	return d.nft(ctx, snapshot, id)
}

// NFTs lists the minted tokens in id order. A non-empty owner keeps only the
// tokens that account owns.
func (d *Dapp) NFTs(ctx context.Context, source string, owner string) ([]types.NFT, error) {
	owner = strings.TrimSpace(owner)
	if owner != "" {
		if err := utils.ValidateAddress(owner); err != nil {
			return nil, types.NewError(types.ErrInvalidInput, "invalid owner address", err)
		}
	}

	snapshot, err := d.querySource(ctx, source)
	if err != nil {
		return nil, err
	}

	val, err := d.query(ctx, snapshot, builder.FnGetTotal)
	if err != nil {
		return nil, err
	}
	total, err := builder.UintValue(val)
	if err != nil {
		return nil, err
	}
	if total > math.MaxUint32 {
		return nil, types.NewError(types.ErrMalformedResponse,
			fmt.Sprintf("get_total returned %d", total), nil)
	}

	nfts := []types.NFT{}
	for id := uint32(1); uint64(id) <= total; id++ {
		if err := d.checkpoint(ctx, "nft lookup"); err != nil {
			return nil, err
		}

		nft, err := d.nft(ctx, snapshot, id)
		if err != nil {
			return nil, err
		}
		if owner != "" && nft.Owner != owner {
			continue
		}
		nfts = append(nfts, *nft)
	}

	d.logger.Debug("nfts listed", map[string]any{
		"total":    total,
		"returned": len(nfts),
		"owner":    owner,
	})
	return nfts, nil
}

func (d *Dapp) nft(ctx context.Context, snapshot *types.AccountSnapshot, id uint32) (*types.NFT, error) {
	nft := &types.NFT{ID: id}

	fields := []struct {
		fn     string
		decode func(xdr.ScVal) (string, error)
		dst    *string
	}{
		{builder.FnGetOwner, builder.AddressValue, &nft.Owner},
		{builder.FnGetName, builder.SymbolValue, &nft.Name},
		{builder.FnGetImage, builder.SymbolValue, &nft.ImageID},
	}

	for _, f := range fields {
		val, err := d.query(ctx, snapshot, f.fn, builder.U32Arg(id))
		if err != nil {
			return nil, err
		}
		if *f.dst, err = f.decode(val); err != nil {
			return nil, err
		}
	}
	return nft, nil
}
