package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stellar/go/xdr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/types"
)

type rpcRequest struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
	Params []string        `json:"params"`
}

// newRPCServer answers every call of method with result.
func newRPCServer(t *testing.T, method string, result interface{}) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, method, req.Method)
		assert.Len(t, req.Params, 1)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  result,
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dialSoroban(t *testing.T, url string) *SorobanClient {
	t.Helper()
	client, err := NewSorobanClient(context.Background(), types.NetworkTestnet, url)
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return client
}

func TestSorobanClient_SimulateTransaction(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := newRPCServer(t, "simulateTransaction", map[string]interface{}{
			"transactionData": "AAAAAA==",
			"minResourceFee":  "58181",
			"latestLedger":    1234,
			"results": []map[string]interface{}{
				{"auth": []string{"AUTH"}, "xdr": "AAAAAwAAAAU="},
			},
		})

		result, err := dialSoroban(t, srv.URL).SimulateTransaction(context.Background(), "AAAA")
		require.NoError(t, err)
		assert.Equal(t, "AAAAAA==", result.TransactionData)
		assert.Equal(t, int64(58181), result.MinResourceFee)
		assert.Equal(t, uint32(1234), result.LatestLedger)
		assert.Equal(t, []string{"AUTH"}, result.Auth)
		assert.Equal(t, "AAAAAwAAAAU=", result.RetVal)
		assert.Empty(t, result.Error)
	})

	t.Run("ledger error is not a transport error", func(t *testing.T) {
		srv := newRPCServer(t, "simulateTransaction", map[string]interface{}{
			"error":        "HostError: contract trapped",
			"latestLedger": 1234,
		})

		result, err := dialSoroban(t, srv.URL).SimulateTransaction(context.Background(), "AAAA")
		require.NoError(t, err)
		assert.Equal(t, "HostError: contract trapped", result.Error)
	})

	t.Run("bad resource fee", func(t *testing.T) {
		srv := newRPCServer(t, "simulateTransaction", map[string]interface{}{
			"transactionData": "AAAAAA==",
			"minResourceFee":  "lots",
		})

		_, err := dialSoroban(t, srv.URL).SimulateTransaction(context.Background(), "AAAA")
		assert.Equal(t, types.ErrMalformedResponse, types.ErrorCode(err))
	})
}

func TestSorobanClient_SubmitTransaction(t *testing.T) {
	badSeq, err := xdr.MarshalBase64(xdr.TransactionResult{
		FeeCharged: 100,
		Result:     xdr.TransactionResultResult{Code: xdr.TransactionResultCodeTxBadSeq},
	})
	require.NoError(t, err)

	tests := []struct {
		name         string
		response     map[string]interface{}
		wantHash     string
		wantCode     string
		wantTxResult string
	}{
		{
			name:     "pending",
			response: map[string]interface{}{"status": "PENDING", "hash": "deadbeef", "latestLedger": 99},
			wantHash: "deadbeef",
		},
		{
			name:         "error with result xdr",
			response:     map[string]interface{}{"status": "ERROR", "hash": "deadbeef", "errorResultXdr": badSeq},
			wantCode:     types.ErrNetworkRejection,
			wantTxResult: xdr.TransactionResultCodeTxBadSeq.String(),
		},
		{
			name:         "duplicate",
			response:     map[string]interface{}{"status": "DUPLICATE", "hash": "deadbeef"},
			wantCode:     types.ErrNetworkRejection,
			wantTxResult: CodeDuplicate,
		},
		{
			name:         "try again later",
			response:     map[string]interface{}{"status": "TRY_AGAIN_LATER", "hash": "deadbeef"},
			wantCode:     types.ErrNetworkRejection,
			wantTxResult: CodeTryAgainLater,
		},
		{
			name:     "unknown status",
			response: map[string]interface{}{"status": "WHAT"},
			wantCode: types.ErrMalformedResponse,
		},
		{
			name:     "garbage result xdr",
			response: map[string]interface{}{"status": "ERROR", "errorResultXdr": "!!"},
			wantCode: types.ErrMalformedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newRPCServer(t, "sendTransaction", tt.response)

			resp, err := dialSoroban(t, srv.URL).SubmitTransaction(context.Background(), "AAAA")
			if tt.wantCode == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.wantHash, resp.Hash)
				assert.Equal(t, SendStatusPending, resp.Status)
				return
			}

			require.Error(t, err)
			assert.Equal(t, tt.wantCode, types.ErrorCode(err))
			if tt.wantTxResult != "" {
				de, ok := types.FindError(err, types.ErrNetworkRejection)
				require.True(t, ok)
				codes := de.Data.(*types.ResultCodes)
				assert.Equal(t, tt.wantTxResult, codes.TransactionCode)
			}
		})
	}
}

func TestDecodeResultCodes(t *testing.T) {
	codes, err := DecodeResultCodes("")
	require.NoError(t, err)
	assert.Equal(t, CodeUnknown, codes.TransactionCode)

	_, err = DecodeResultCodes("not-base64")
	assert.Error(t, err)
}
