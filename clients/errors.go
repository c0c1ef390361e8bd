package clients

// sendTransaction statuses reported by Soroban RPC
const (
	SendStatusPending       = "PENDING"
	SendStatusDuplicate     = "DUPLICATE"
	SendStatusTryAgainLater = "TRY_AGAIN_LATER"
	SendStatusError         = "ERROR"
)

// Simulation failure kinds, recorded in the error data of a failed preflight.
const (
	FailureTransport = "transport"
	FailureLedger    = "ledger"
)

// Rejection codes used when the network refused a submission without
// structured result codes.
const (
	CodeDuplicate     = "duplicate"
	CodeTryAgainLater = "try_again_later"
	CodeUnknown       = "unknown"
)
