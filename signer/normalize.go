package signer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/types"
)

// AgentError is an error the agent reported inside its payload rather than
// by failing the call.
type AgentError struct {
	Message string
}

func (e *AgentError) Error() string {
	return e.Message
}

type wrappedPayload struct {
	SignedTxXdr *string         `json:"signedTxXdr"`
	Error       json.RawMessage `json:"error"`
}

// Normalize extracts the signed envelope from an agent payload. Accepted
// shapes are a bare base64 envelope, a JSON string and an object carrying
// signedTxXdr. An empty or null payload is a decline; an object carrying
// error yields an *AgentError.
func Normalize(payload []byte) (string, error) {
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 || string(payload) == "null" {
		return "", types.NewError(types.ErrSignerDeclined, "signer returned no payload", nil)
	}

	switch payload[0] {
	case '"':
		var s string
		if err := json.Unmarshal(payload, &s); err != nil {
			return "", types.NewError(types.ErrMalformedResponse, "invalid signer payload", err)
		}
		return Normalize([]byte(s))

	case '{':
		var w wrappedPayload
		if err := json.Unmarshal(payload, &w); err != nil {
			return "", types.NewError(types.ErrMalformedResponse, "invalid signer payload", err)
		}
		if msg, ok := errorMessage(w.Error); ok {
			return "", &AgentError{Message: msg}
		}
		if w.SignedTxXdr == nil {
			return "", types.NewError(types.ErrMalformedResponse, "signer payload has no signedTxXdr", nil)
		}
		if strings.TrimSpace(*w.SignedTxXdr) == "" {
			return "", types.NewError(types.ErrSignerDeclined, "signer returned an empty envelope", nil)
		}
		return strings.TrimSpace(*w.SignedTxXdr), nil

	case '[':
		return "", types.NewError(types.ErrMalformedResponse, "unexpected signer payload shape", nil)

	default:
		return string(payload), nil
	}
}

// errorMessage reads an error field that is either a string or an object
// with a message.
func errorMessage(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}

	var obj struct {
		Message string `json:"message"`
		Code    any    `json:"code"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Message != "" {
		return obj.Message, true
	}

	return fmt.Sprintf("signer error: %s", raw), true
}
