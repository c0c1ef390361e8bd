package clients

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stellar/go/xdr"

	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/types"
)

var (
	_ Client             = (*SorobanClient)(nil)
	_ SimulationEndpoint = (*SorobanClient)(nil)
	_ SubmissionEndpoint = (*SorobanClient)(nil)
)

// SorobanClient talks to a Soroban RPC server over JSON-RPC 2.0.
type SorobanClient struct {
	network types.Network
	rpcURL  string
	client  *rpc.Client
}

type simulateResponse struct {
	TransactionData string           `json:"transactionData"`
	MinResourceFee  string           `json:"minResourceFee"`
	Events          []string         `json:"events"`
	Results         []simulateResult `json:"results"`
	LatestLedger    uint32           `json:"latestLedger"`
	Error           string           `json:"error"`
}

type simulateResult struct {
	Auth []string `json:"auth"`
	XDR  string   `json:"xdr"`
}

type sendResponse struct {
	Status         string `json:"status"`
	Hash           string `json:"hash"`
	LatestLedger   int64  `json:"latestLedger"`
	ErrorResultXDR string `json:"errorResultXdr"`
}

func NewSorobanClient(ctx context.Context, network types.Network, rpcURL string) (*SorobanClient, error) {
	client, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Soroban RPC: %w", err)
	}

	return &SorobanClient{
		network: network,
		rpcURL:  rpcURL,
		client:  client,
	}, nil
}

// GetNetwork implements Client.
func (s *SorobanClient) GetNetwork() types.Network {
	return s.network
}

// Close implements Client.
func (s *SorobanClient) Close() {
	s.client.Close()
}

// SimulateTransaction implements SimulationEndpoint.
func (s *SorobanClient) SimulateTransaction(ctx context.Context, envelope string) (*types.SimulationResult, error) {
	var resp simulateResponse
	if err := s.client.CallContext(ctx, &resp, "simulateTransaction", envelope); err != nil {
		return nil, types.NewError(types.ErrNetworkError, "simulateTransaction failed", err)
	}

	result := &types.SimulationResult{
		TransactionData: resp.TransactionData,
		LatestLedger:    resp.LatestLedger,
		Events:          resp.Events,
		Error:           resp.Error,
	}

	if resp.MinResourceFee != "" {
		fee, err := strconv.ParseInt(resp.MinResourceFee, 10, 64)
		if err != nil {
			return nil, types.NewError(types.ErrMalformedResponse,
				fmt.Sprintf("invalid minResourceFee %q", resp.MinResourceFee), err)
		}
		result.MinResourceFee = fee
	}

	if len(resp.Results) > 0 {
		result.Auth = resp.Results[0].Auth
		result.RetVal = resp.Results[0].XDR
	}

	return result, nil
}

// SubmitTransaction implements SubmissionEndpoint. PENDING is the only
// accepting status; everything else is a rejection.
func (s *SorobanClient) SubmitTransaction(ctx context.Context, envelope string) (*types.SubmitResponse, error) {
	var resp sendResponse
	if err := s.client.CallContext(ctx, &resp, "sendTransaction", envelope); err != nil {
		return nil, types.NewError(types.ErrNetworkError, "sendTransaction failed", err)
	}

	switch resp.Status {
	case SendStatusPending:
		return &types.SubmitResponse{
			Hash:   resp.Hash,
			Status: resp.Status,
			Ledger: resp.LatestLedger,
		}, nil

	case SendStatusError:
		codes, err := DecodeResultCodes(resp.ErrorResultXDR)
		if err != nil {
			return nil, types.NewError(types.ErrMalformedResponse, "invalid errorResultXdr", err)
		}
		return nil, &types.DappError{
			Code:    types.ErrNetworkRejection,
			Message: fmt.Sprintf("transaction rejected: %s", codes.TransactionCode),
			Data:    codes,
		}

	case SendStatusDuplicate:
		return nil, &types.DappError{
			Code:    types.ErrNetworkRejection,
			Message: "transaction already submitted",
			Data:    &types.ResultCodes{TransactionCode: CodeDuplicate},
		}

	case SendStatusTryAgainLater:
		return nil, &types.DappError{
			Code:    types.ErrNetworkRejection,
			Message: "network asked to try again later",
			Data:    &types.ResultCodes{TransactionCode: CodeTryAgainLater},
		}

	default:
		return nil, types.NewError(types.ErrMalformedResponse,
			fmt.Sprintf("unknown sendTransaction status %q", resp.Status), nil)
	}
}

// DecodeResultCodes turns a base64 TransactionResult into result codes.
func DecodeResultCodes(resultXDR string) (*types.ResultCodes, error) {
	if resultXDR == "" {
		return &types.ResultCodes{TransactionCode: CodeUnknown}, nil
	}

	var result xdr.TransactionResult
	if err := xdr.SafeUnmarshalBase64(resultXDR, &result); err != nil {
		return nil, err
	}

	codes := &types.ResultCodes{TransactionCode: result.Result.Code.String()}
	if result.Result.Results != nil {
		for _, op := range *result.Result.Results {
			codes.OperationCodes = append(codes.OperationCodes, operationCode(op))
		}
	}
	return codes, nil
}

func operationCode(op xdr.OperationResult) string {
	if op.Code != xdr.OperationResultCodeOpInner || op.Tr == nil {
		return op.Code.String()
	}

	switch op.Tr.Type {
	case xdr.OperationTypePayment:
		if op.Tr.PaymentResult != nil {
			return op.Tr.PaymentResult.Code.String()
		}
	case xdr.OperationTypeInvokeHostFunction:
		if op.Tr.InvokeHostFunctionResult != nil {
			return op.Tr.InvokeHostFunctionResult.Code.String()
		}
	}
	return op.Code.String()
}
