package types

// OutcomeStatus is the terminal state of a pipeline run
type OutcomeStatus string

const (
	StatusSuccess   OutcomeStatus = "SUCCESS"
	StatusCancelled OutcomeStatus = "CANCELLED"
	StatusFailed    OutcomeStatus = "FAILED"
)

// Outcome is produced exactly once per pipeline run and is never retried.
type Outcome struct {
	Status OutcomeStatus `json:"status"`
	Hash   string        `json:"hash,omitempty"`
	Reason string        `json:"reason,omitempty"`

	// Code is the error code that terminated the run, empty on success.
	Code string `json:"code,omitempty"`

	TransactionCode string   `json:"transactionCode,omitempty"`
	OperationCodes  []string `json:"operationCodes,omitempty"`
}

func (o Outcome) IsSuccess() bool   { return o.Status == StatusSuccess }
func (o Outcome) IsCancelled() bool { return o.Status == StatusCancelled }
func (o Outcome) IsFailed() bool    { return o.Status == StatusFailed }

// Severity is how a UI should render the outcome.
func (o Outcome) Severity() string {
	switch o.Status {
	case StatusSuccess:
		return "success"
	case StatusCancelled:
		return "info"
	default:
		return "warning"
	}
}
