package gateway

import "errors"

var (
	ErrUnauthorized        = errors.New("unauthorized: run authorize first")
	ErrActivityUnavailable = errors.New("no foreground available to show consent")
)

// ProviderError wraps a failure reported by the provider, verbatim.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error { return e.Err }
