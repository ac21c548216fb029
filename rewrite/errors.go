package rewrite

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse marks provider output that could not be parsed
// into a structured payload at all.
var ErrMalformedResponse = errors.New("malformed provider response")

// ContractViolationError marks output that parsed but does not conform
// to the five-candidate contract: wrong length, missing keys, or an
// unrecognized or duplicate vibe label. Either failure advances the
// orchestrator to the next tier; neither ever reaches the caller.
type ContractViolationError struct {
	Reason string
}

func (e *ContractViolationError) Error() string {
	return fmt.Sprintf("candidate contract violation: %s", e.Reason)
}

// IsContractViolation reports whether err is (or wraps) a
// ContractViolationError.
func IsContractViolation(err error) bool {
	var cv *ContractViolationError
	return errors.As(err, &cv)
}
