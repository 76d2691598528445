package probe

import (
	"fmt"
	"net/http"

	"github.com/hamed0406/smokecheck/internal/domain"
)

// TransportError is a failure below HTTP: refused connection, DNS, TLS,
// timeout.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError is a response whose status does not satisfy the success rule.
type ProtocolError struct {
	StatusCode int
	Expected   []int
}

func (e *ProtocolError) Error() string {
	if inSuccessRange(e.StatusCode) {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("http error %d", e.StatusCode)
}

func inSuccessRange(status int) bool {
	return status >= http.StatusOK && status < http.StatusBadRequest
}

// Classify applies the success rule: the status must be in [200, 400) and,
// when the check lists expected codes, also one of them. The expected list
// narrows the range, it never widens it.
func Classify(status int, spec domain.CheckSpec) error {
	if inSuccessRange(status) && spec.Expects(status) {
		return nil
	}
	return &ProtocolError{StatusCode: status, Expected: spec.ExpectedStatus}
}
