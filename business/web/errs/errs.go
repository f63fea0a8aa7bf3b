// Package errs provides types and support related to web API failures.
package errs

import (
	"errors"
	"net/http"
)

// Response is the form used for API responses from failures in the API.
type Response struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Trusted is an error whose message is safe to show the client, along with
// the status code to report it under.
type Trusted struct {
	Err    error
	Status int
}

// NewTrusted marks the error as safe to show the client.
func NewTrusted(err error, status int) error {
	return &Trusted{Err: err, Status: status}
}

func (t *Trusted) Error() string {
	return t.Err.Error()
}

func (t *Trusted) Unwrap() error {
	return t.Err
}

// AsTrusted finds the first Trusted error in the chain.
func AsTrusted(err error) (*Trusted, bool) {
	var t *Trusted
	if !errors.As(err, &t) {
		return nil, false
	}

	return t, true
}

// Status returns the code the error should be reported under.
func Status(err error) int {
	if t, ok := AsTrusted(err); ok {
		return t.Status
	}

	return http.StatusInternalServerError
}

// =============================================================================

// Rule maps a set of known errors to a status code.
type Rule struct {
	Status int
	Errs   []error
}

// Classify marks err as trusted under the status of the first rule holding
// an error it matches. An error no rule knows about is returned untouched.
func Classify(err error, rules ...Rule) error {
	if err == nil {
		return nil
	}

	if _, ok := AsTrusted(err); ok {
		return err
	}

	for _, rule := range rules {
		for _, known := range rule.Errs {
			if errors.Is(err, known) {
				return NewTrusted(err, rule.Status)
			}
		}
	}

	return err
}
