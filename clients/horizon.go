package clients

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/stellar/go/clients/horizonclient"
	hProtocol "github.com/stellar/go/protocols/horizon"

	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/types"
)

var (
	_ Client             = (*HorizonClient)(nil)
	_ AccountLoader      = (*HorizonClient)(nil)
	_ FeeOracle          = (*HorizonClient)(nil)
	_ SubmissionEndpoint = (*HorizonClient)(nil)
)

// HorizonClient loads accounts, reads fee stats and submits classic
// transactions through Horizon.
type HorizonClient struct {
	network    types.Network
	horizonURL string
	client     horizonclient.ClientInterface
}

func NewHorizonClient(network types.Network, horizonURL string, timeout time.Duration) *HorizonClient {
	return &HorizonClient{
		network:    network,
		horizonURL: horizonURL,
		client: &horizonclient.Client{
			HorizonURL: horizonURL,
			HTTP:       &http.Client{Timeout: timeout},
		},
	}
}

// NewHorizonClientFrom wraps an existing horizonclient implementation.
func NewHorizonClientFrom(network types.Network, client horizonclient.ClientInterface) *HorizonClient {
	return &HorizonClient{network: network, client: client}
}

// GetNetwork implements Client.
func (h *HorizonClient) GetNetwork() types.Network {
	return h.network
}

// Close implements Client.
func (h *HorizonClient) Close() {}

// LoadAccount implements AccountLoader.
func (h *HorizonClient) LoadAccount(ctx context.Context, address string) (*types.AccountSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, types.NewError(types.ErrCancelled, "account load cancelled", err)
	}

	account, err := h.client.AccountDetail(horizonclient.AccountRequest{AccountID: address})
	if err != nil {
		if horizonclient.IsNotFoundError(err) {
			return nil, types.NewError(types.ErrAccountNotFound,
				fmt.Sprintf("account %s not found", address), err)
		}
		return nil, types.NewError(types.ErrNetworkError, "failed to load account", err)
	}

	return snapshotFromAccount(account), nil
}

// BaseFee implements FeeOracle using the base fee of the last closed ledger.
func (h *HorizonClient) BaseFee(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, types.NewError(types.ErrCancelled, "fee lookup cancelled", err)
	}

	stats, err := h.client.FeeStats()
	if err != nil {
		return 0, types.NewError(types.ErrNetworkError, "failed to read fee stats", err)
	}

	return stats.LastLedgerBaseFee, nil
}

// SubmitTransaction implements SubmissionEndpoint. A problem response that
// carries result codes becomes ErrNetworkRejection with the codes as data.
func (h *HorizonClient) SubmitTransaction(_ context.Context, envelope string) (*types.SubmitResponse, error) {
	tx, err := h.client.SubmitTransactionXDR(envelope)
	if err != nil {
		if herr := horizonclient.GetError(err); herr != nil {
			codes, cerr := herr.ResultCodes()
			if cerr == nil && codes != nil {
				return nil, &types.DappError{
					Code:    types.ErrNetworkRejection,
					Message: fmt.Sprintf("transaction rejected: %s", codes.TransactionCode),
					Data:    resultCodesFromHorizon(codes),
					Err:     err,
				}
			}
		}
		return nil, types.NewError(types.ErrNetworkError, "failed to submit transaction", err)
	}

	return &types.SubmitResponse{
		Hash:   tx.Hash,
		Status: "SUCCESS",
		Ledger: int64(tx.Ledger),
	}, nil
}

func snapshotFromAccount(account hProtocol.Account) *types.AccountSnapshot {
	balances := make([]types.Balance, 0, len(account.Balances))
	for _, b := range account.Balances {
		balances = append(balances, types.Balance{
			AssetType: b.Type,
			AssetCode: b.Code,
			Balance:   b.Balance,
		})
	}

	return &types.AccountSnapshot{
		AccountID: account.AccountID,
		Sequence:  account.Sequence,
		Balances:  balances,
	}
}

func resultCodesFromHorizon(codes *hProtocol.TransactionResultCodes) *types.ResultCodes {
	txCode := codes.TransactionCode
	if txCode == "" {
		txCode = codes.InnerTransactionCode
	}
	return &types.ResultCodes{
		TransactionCode: txCode,
		OperationCodes:  codes.OperationCodes,
	}
}
