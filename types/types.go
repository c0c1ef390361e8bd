package types

import (
	"time"

	"github.com/stellar/go/xdr"
)

// OperationKind identifies the variant of an Operation
type OperationKind string

const (
	OperationPayment        OperationKind = "payment"
	OperationContractInvoke OperationKind = "contract_invoke"
)

func (k OperationKind) String() string {
	return string(k)
}

// Operation is the single operation carried by a transaction. It is
// implemented by Payment and ContractInvoke only.
type Operation interface {
	Kind() OperationKind
	isOperation()
}

// Payment sends the native asset to a destination account.
type Payment struct {
	Destination string `json:"destination"`

	// Amount in XLM as a decimal string, e.g. "10.5".
	Amount string `json:"amount"`
}

func (Payment) Kind() OperationKind { return OperationPayment }
func (Payment) isOperation()        {}

// ContractInvoke calls a function of a deployed Soroban contract. Args are
// ordered as the function signature declares them.
type ContractInvoke struct {
	ContractID string      `json:"contractId"`
	Function   string      `json:"function"`
	Args       []xdr.ScVal `json:"-"`
}

func (ContractInvoke) Kind() OperationKind { return OperationContractInvoke }
func (ContractInvoke) isOperation()        {}

// Balance is one balance line of an account
type Balance struct {
	AssetType string `json:"assetType"`
	AssetCode string `json:"assetCode,omitempty"`
	Balance   string `json:"balance"`
}

// AccountSnapshot is the account state read right before building a transaction.
type AccountSnapshot struct {
	AccountID string    `json:"accountId"`
	Sequence  int64     `json:"sequence"`
	Balances  []Balance `json:"balances"`
}

// NativeBalance returns the XLM balance line, if any.
func (a *AccountSnapshot) NativeBalance() (string, bool) {
	for _, b := range a.Balances {
		if b.AssetType == "native" {
			return b.Balance, true
		}
	}
	return "", false
}

// UnsignedTransaction is a built transaction envelope ready for simulation or
// signing. It is never modified; assembling produces a new value.
type UnsignedTransaction struct {
	Source    string    `json:"source"`
	Sequence  int64     `json:"sequence"`
	BaseFee   int64     `json:"baseFee"`
	MaxFee    int64     `json:"maxFee"`
	Network   Network   `json:"network"`
	Operation Operation `json:"-"`

	// MaxTime is the unix time after which the network rejects the transaction.
	MaxTime int64 `json:"maxTime"`

	// XDR is the base64 encoded transaction envelope.
	XDR  string `json:"xdr"`
	Hash string `json:"hash"`

	// Assembled is set once simulation results were merged in.
	Assembled   bool  `json:"assembled"`
	ResourceFee int64 `json:"resourceFee,omitempty"`
}

// Submittable reports whether the transaction may be handed to a signer.
// Contract invocations need their simulation footprint merged first.
func (t *UnsignedTransaction) Submittable() bool {
	if t == nil || t.Operation == nil {
		return false
	}
	if t.Operation.Kind() == OperationContractInvoke {
		return t.Assembled
	}
	return true
}

// Expiry returns the end of the validity window.
func (t *UnsignedTransaction) Expiry() time.Time {
	return time.Unix(t.MaxTime, 0)
}

// SimulationResult is the preflight answer for a contract invocation
type SimulationResult struct {
	// TransactionData is the base64 SorobanTransactionData carrying the footprint
	// and resource limits.
	TransactionData string `json:"transactionData,omitempty"`

	// Auth holds base64 SorobanAuthorizationEntry values.
	Auth []string `json:"auth,omitempty"`

	MinResourceFee int64 `json:"minResourceFee,omitempty"`

	// RetVal is the base64 ScVal returned by the simulated call.
	RetVal string `json:"retval,omitempty"`

	LatestLedger uint32   `json:"latestLedger,omitempty"`
	Events       []string `json:"events,omitempty"`

	// Error is set when the ledger reported a logical simulation failure.
	Error string `json:"error,omitempty"`
}

// SignedEnvelope is what the signing agent returned, bound to its network.
type SignedEnvelope struct {
	XDR     string  `json:"xdr"`
	Network Network `json:"network"`
	Hash    string  `json:"hash"`
}

// SubmitResponse is the raw answer of a submission endpoint
type SubmitResponse struct {
	Hash   string `json:"hash"`
	Status string `json:"status,omitempty"`
	Ledger int64  `json:"ledger,omitempty"`
}

// ResultCodes are the structured rejection codes reported by the network.
type ResultCodes struct {
	TransactionCode string   `json:"transactionCode"`
	OperationCodes  []string `json:"operationCodes,omitempty"`
}

// ExtraData contains additional submission-specific data
type ExtraData map[string]interface{}

// SettlementResult contains the result of a transaction submission
type SettlementResult struct {
	Success bool      `json:"success"`
	TxHash  string    `json:"txHash,omitempty"`
	Network Network   `json:"network,omitempty"`
	Ledger  int64     `json:"ledger,omitempty"`
	Extra   ExtraData `json:"extra,omitempty"`
}

// PaymentRequest asks for a native payment from Source to Destination.
type PaymentRequest struct {
	Source      string `json:"source" validate:"required,stellar_address"`
	Destination string `json:"destination" validate:"required,stellar_address"`
	Amount      string `json:"amount" validate:"required,stellar_amount"`
}

// MintRequest asks the NFT contract to mint a token owned by Owner.
type MintRequest struct {
	Owner   string `json:"owner" validate:"required,stellar_address"`
	Name    string `json:"name" validate:"required,soroban_symbol"`
	ImageID string `json:"imageId" validate:"required,soroban_symbol"`
}

// InvokeRequest asks for an arbitrary contract invocation.
type InvokeRequest struct {
	Source     string      `json:"source" validate:"required,stellar_address"`
	ContractID string      `json:"contractId" validate:"required,soroban_contract"`
	Function   string      `json:"function" validate:"required,soroban_symbol"`
	Args       []xdr.ScVal `json:"-"`
}

// FeeMode selects where the base fee comes from
type FeeMode string

const (
	FeeModeFixed FeeMode = "fixed"
	FeeModeLive  FeeMode = "live"
)

// DappConfig contains global configuration for the pipeline
type DappConfig struct {
	Network        Network       `json:"network" mapstructure:"network" validate:"required,oneof=testnet public futurenet"`
	HorizonURL     string        `json:"horizonUrl" mapstructure:"horizon_url" validate:"required,url"`
	SorobanRPCURL  string        `json:"sorobanRpcUrl" mapstructure:"soroban_rpc_url" validate:"required,url"`
	ContractID     string        `json:"contractId" mapstructure:"contract_id" validate:"required,soroban_contract"`
	FeeMode        FeeMode       `json:"feeMode" mapstructure:"fee_mode" validate:"required,oneof=fixed live"`
	TxTimeout      time.Duration `json:"txTimeout" mapstructure:"tx_timeout" validate:"gt=0"`
	RequestTimeout time.Duration `json:"requestTimeout" mapstructure:"request_timeout" validate:"gt=0"`
	RefreshDelay   time.Duration `json:"refreshDelay" mapstructure:"refresh_delay" validate:"gte=0"`
	ExplorerURL    string        `json:"explorerUrl" mapstructure:"explorer_url" validate:"required,url"`
	DeclinePhrases []string      `json:"declinePhrases,omitempty" mapstructure:"decline_phrases"`
	ImageIDs       []string      `json:"imageIds,omitempty" mapstructure:"image_ids"`
	SignerURL      string        `json:"signerUrl,omitempty" mapstructure:"signer_url" validate:"omitempty,url"`
	ListenAddr     string        `json:"listenAddr,omitempty" mapstructure:"listen_addr"`
	LogLevel       string        `json:"logLevel,omitempty" mapstructure:"log_level" validate:"omitempty,oneof=debug info warn error"`
	EnableMetrics  bool          `json:"enableMetrics,omitempty" mapstructure:"enable_metrics"`
}

// SignOptions are passed to the signing agent along with the envelope.
type SignOptions struct {
	// Network is the agent-facing network name, e.g. TESTNET.
	Network           string `json:"network"`
	NetworkPassphrase string `json:"networkPassphrase"`
	Address           string `json:"address,omitempty"`
}

// VerificationResult describes a signed envelope checked against the
// transaction it was requested for.
type VerificationResult struct {
	IsValid       bool    `json:"isValid"`
	InvalidReason string  `json:"invalidReason,omitempty"`
	Hash          string  `json:"hash,omitempty"`
	Signer        string  `json:"signer,omitempty"`
	Network       Network `json:"network,omitempty"`

	// SignedFor is set when the signature verifies under another network.
	SignedFor Network `json:"signedFor,omitempty"`
}

// NFT is one token of the NFT contract as read back through simulation.
type NFT struct {
	ID      uint32 `json:"id"`
	Owner   string `json:"owner"`
	Name    string `json:"name"`
	ImageID string `json:"imageId"`
}
