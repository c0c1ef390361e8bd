package signer

import "strings"

// DefaultDeclinePhrases are the fragments signing agents use when the user
// refuses to sign. Agents report refusal as free text only, so matching is
// heuristic and may need extending for new agent versions or locales.
//
// "cancel" also matches transport text such as "request canceled". Bridge
// only checks the table against what the agent answered; a *TransportError
// is always SIGNER_ERROR.
var DefaultDeclinePhrases = []string{
	"declined",
	"rejected",
	"user cancelled",
	"cancel",
	"denied",
}

// IsDeclined reports whether msg contains one of phrases, case-insensitively.
// A nil table uses DefaultDeclinePhrases.
func IsDeclined(msg string, phrases []string) bool {
	if phrases == nil {
		phrases = DefaultDeclinePhrases
	}

	msg = strings.ToLower(msg)
	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" && strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
