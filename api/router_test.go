package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stellar/go/keypair"
	"github.com/stellar/go/txnbuild"
	"github.com/stellar/go/xdr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dapp "github.com/pratikshakalbhor/stellar-whitebelt-dapp"
	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/api"
	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/builder"
	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/metrics"
	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/testing/mocks"
	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/types"
	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/utils"
)

func setupRouter(t *testing.T, accounts *mocks.AccountLoader, agent *mocks.Agent, extra ...dapp.Option) (*gin.Engine, *prometheus.Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	reg := prometheus.NewRegistry()
	recorder, err := metrics.NewPrometheusRecorder(reg)
	require.NoError(t, err)

	opts := []dapp.Option{
		dapp.WithAccountLoader(accounts),
		dapp.WithFeeOracle(mocks.BaselineFeeOracle(t)),
		dapp.WithSimulationEndpoint(mocks.BaselineSimulationEndpoint(t)),
		dapp.WithAgent(agent),
		dapp.WithPaymentSubmitter(mocks.BaselineSubmissionEndpoint(t)),
		dapp.WithContractSubmitter(mocks.BaselineSubmissionEndpoint(t)),
		dapp.WithMetrics(recorder),
	}
	d, err := dapp.New(types.DefaultDappConfig(), append(opts, extra...)...)
	require.NoError(t, err)
	t.Cleanup(d.Close)

	r := gin.New()
	api.RegisterRoutes(r, d, reg)
	return r, reg
}

func do(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSendPayment(t *testing.T) {
	kp := mocks.GenericKeypair()
	r, _ := setupRouter(t, mocks.BaselineAccountLoader(t), mocks.BaselineAgent(t, kp))

	w := do(r, http.MethodPost, "/v1/payments", types.PaymentRequest{
		Source:      kp.Address(),
		Destination: keypair.MustRandom().Address(),
		Amount:      "10.5",
	})

	require.Equal(t, http.StatusOK, w.Code)
	var resp api.OutcomeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, types.StatusSuccess, resp.Status)
	assert.Equal(t, mocks.GenericHash, resp.Hash)
	assert.Equal(t, "success", resp.Severity)
	assert.Equal(t, "https://stellar.expert/explorer/testnet/tx/"+mocks.GenericHash, resp.ExplorerURL)
}

func TestSendPayment_InvalidInputIsAnOutcome(t *testing.T) {
	kp := mocks.GenericKeypair()
	r, _ := setupRouter(t, mocks.BaselineAccountLoader(t), mocks.BaselineAgent(t, kp))

	w := do(r, http.MethodPost, "/v1/payments", types.PaymentRequest{
		Source:      kp.Address(),
		Destination: "invalid",
		Amount:      "10.5",
	})

	require.Equal(t, http.StatusOK, w.Code)
	var resp api.OutcomeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, types.StatusFailed, resp.Status)
	assert.Equal(t, types.ErrInvalidInput, resp.Code)
	assert.Equal(t, "warning", resp.Severity)
	assert.Empty(t, resp.ExplorerURL)
}

func TestSendPayment_MalformedBody(t *testing.T) {
	r, _ := setupRouter(t, mocks.BaselineAccountLoader(t), mocks.BaselineAgent(t, mocks.GenericKeypair()))

	req := httptest.NewRequest(http.MethodPost, "/v1/payments", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendPayment_Busy(t *testing.T) {
	kp := mocks.GenericKeypair()
	accounts := mocks.BaselineAccountLoader(t)
	load := accounts.LoadAccountFunc

	entered := make(chan struct{})
	release := make(chan struct{})
	accounts.LoadAccountFunc = func(ctx context.Context, address string) (*types.AccountSnapshot, error) {
		close(entered)
		<-release
		return load(ctx, address)
	}
	r, _ := setupRouter(t, accounts, mocks.BaselineAgent(t, kp))

	body := types.PaymentRequest{Source: kp.Address(), Destination: keypair.MustRandom().Address(), Amount: "1"}

	var wg sync.WaitGroup
	wg.Add(1)
	var first *httptest.ResponseRecorder
	go func() {
		defer wg.Done()
		first = do(r, http.MethodPost, "/v1/payments", body)
	}()

	<-entered
	second := do(r, http.MethodPost, "/v1/payments", body)
	close(release)
	wg.Wait()

	assert.Equal(t, http.StatusConflict, second.Code)
	assert.Equal(t, http.StatusOK, first.Code)
}

func TestMintNFT(t *testing.T) {
	kp := mocks.GenericKeypair()
	r, _ := setupRouter(t, mocks.BaselineAccountLoader(t), mocks.BaselineAgent(t, kp))

	w := do(r, http.MethodPost, "/v1/mints", types.MintRequest{Owner: kp.Address(), Name: "mynft", ImageID: "img1"})

	require.Equal(t, http.StatusOK, w.Code)
	var resp api.OutcomeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, types.StatusSuccess, resp.Status)
}

func TestBalance(t *testing.T) {
	r, _ := setupRouter(t, mocks.BaselineAccountLoader(t), mocks.BaselineAgent(t, mocks.GenericKeypair()))
	address := keypair.MustRandom().Address()

	w := do(r, http.MethodGet, "/v1/accounts/"+address+"/balance", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"address":"`+address+`","balance":"100.00","asset":"XLM"}`, w.Body.String())
}

func TestBalance_Errors(t *testing.T) {
	accounts := mocks.BaselineAccountLoader(t)
	accounts.LoadAccountFunc = func(context.Context, string) (*types.AccountSnapshot, error) {
		return nil, types.NewError(types.ErrAccountNotFound, "account not found", nil)
	}
	r, _ := setupRouter(t, accounts, mocks.BaselineAgent(t, mocks.GenericKeypair()))

	w := do(r, http.MethodGet, "/v1/accounts/"+keypair.MustRandom().Address()+"/balance", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodGet, "/v1/accounts/invalid/balance", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNFTTotal_RequiresSource(t *testing.T) {
	r, _ := setupRouter(t, mocks.BaselineAccountLoader(t), mocks.BaselineAgent(t, mocks.GenericKeypair()))

	w := do(r, http.MethodGet, "/v1/nfts/total", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	kp := mocks.GenericKeypair()
	r, _ := setupRouter(t, mocks.BaselineAccountLoader(t), mocks.BaselineAgent(t, kp))

	do(r, http.MethodPost, "/v1/payments", types.PaymentRequest{
		Source:      kp.Address(),
		Destination: keypair.MustRandom().Address(),
		Amount:      "1",
	})
	w := do(r, http.MethodGet, "/metrics", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "dapp_events_total")
}

// singleNFT answers read-only calls for a contract holding one token.
func singleNFT(t *testing.T, owner string) *mocks.SimulationEndpoint {
	t.Helper()

	sim := mocks.BaselineSimulationEndpoint(t)
	sim.SimulateTransactionFunc = func(_ context.Context, envelope string) (*types.SimulationResult, error) {
		tx, err := utils.DecodeTransaction(envelope)
		require.NoError(t, err)
		invoke := tx.Operations()[0].(*txnbuild.InvokeHostFunction).HostFunction.MustInvokeContract()

		var ret xdr.ScVal
		switch string(invoke.FunctionName) {
		case builder.FnGetTotal:
			ret = builder.U32Arg(1)
		case builder.FnGetOwner:
			ret, err = builder.AddressArg(owner)
		case builder.FnGetName:
			ret, err = builder.SymbolArg("FIRST")
		case builder.FnGetImage:
			ret, err = builder.SymbolArg("IMG1")
		}
		require.NoError(t, err)

		retval, err := xdr.MarshalBase64(ret)
		require.NoError(t, err)
		return &types.SimulationResult{TransactionData: mocks.GenericSimulationData, RetVal: retval}, nil
	}
	return sim
}

func TestNFTs(t *testing.T) {
	kp := mocks.GenericKeypair()
	owner := keypair.MustRandom().Address()
	r, _ := setupRouter(t, mocks.BaselineAccountLoader(t), mocks.BaselineAgent(t, kp),
		dapp.WithSimulationEndpoint(singleNFT(t, owner)))

	w := do(r, http.MethodGet, "/v1/nfts?source="+kp.Address(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":1,"nfts":[{"id":1,"owner":"`+owner+`","name":"FIRST","imageId":"IMG1"}]}`, w.Body.String())

	w = do(r, http.MethodGet, "/v1/nfts?source="+kp.Address()+"&owner="+kp.Address(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":0,"nfts":[]}`, w.Body.String())

	w = do(r, http.MethodGet, "/v1/nfts", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNFT(t *testing.T) {
	kp := mocks.GenericKeypair()
	owner := keypair.MustRandom().Address()
	r, _ := setupRouter(t, mocks.BaselineAccountLoader(t), mocks.BaselineAgent(t, kp),
		dapp.WithSimulationEndpoint(singleNFT(t, owner)))

	w := do(r, http.MethodGet, "/v1/nfts/1?source="+kp.Address(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"owner":"`+owner+`","name":"FIRST","imageId":"IMG1"}`, w.Body.String())

	w = do(r, http.MethodGet, "/v1/nfts/0?source="+kp.Address(), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/v1/nfts/abc?source="+kp.Address(), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/v1/nfts/total?source="+kp.Address(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"total":1}`, w.Body.String())
}
