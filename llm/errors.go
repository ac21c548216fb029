package llm

import (
	"errors"
)

// ProviderError marks a generation or scoring service as unavailable for
// this attempt: network failure, auth rejection, timeout, or a non-200
// status. The pipeline treats every ProviderError the same way: advance
// to the next tier.
type ProviderError struct {
	Provider   string
	Model      string
	StatusCode int // 0 when the request never reached the server
	Err        error
}

func (e *ProviderError) Error() string {
	return e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsProviderError reports whether err is (or wraps) a ProviderError.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
