package common

import (
	"errors"
	"fmt"
)

// Client input validation failures. These are surfaced to the caller
// as structured errors and are never server faults.
var (
	ErrInvalidVersion  = errors.New("the given version is not a valid semantic version")
	ErrInvalidPlatform = errors.New("the given platform is not known")
)

// A configuration error is fatal at construction, the process must not start with one.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

// An upstream error is a failed fetch from the release source after all retries.
type UpstreamError struct {
	// The status code of the final attempt, 0 when the failure was transport-level.
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("upstream request failed with status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("upstream request failed: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
