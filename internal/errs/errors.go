package errs

import (
	"errors"
	"fmt"
)

// ConfigurationError indicates the reasoning service credentials are absent
// or unusable. It is raised before any guided alignment attempt and selects
// the fallback strategy instead of aborting the run.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

// MalformedResponseError indicates a guided alignment response that could
// not be parsed into the expected slide-timing schema. It is fatal: once a
// guided attempt has been made the fallback strategy must never run.
type MalformedResponseError struct {
	Reason string
	Raw    string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed reasoning response: %s", e.Reason)
}

// ValidationError indicates a single match candidate violated a timeline
// invariant (out-of-range slide index, inverted time range). The candidate
// is dropped and the run continues.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Reason)
}

// ResourceExhaustionError indicates the resource guard tripped between
// processing units. Fatal for the current unit; any checkpoint written so
// far is preserved for resumption.
type ResourceExhaustionError struct {
	AllocMB uint64
	LimitMB uint64
}

func (e *ResourceExhaustionError) Error() string {
	return fmt.Sprintf("memory limit exceeded: %d MB allocated, limit %d MB", e.AllocMB, e.LimitMB)
}

// ItemProcessingError records a single unit (slide or page) that failed
// extraction. The unit is substituted with an empty placeholder and the run
// continues.
type ItemProcessingError struct {
	Unit string
	Err  error
}

func (e *ItemProcessingError) Error() string {
	return fmt.Sprintf("failed to process %s: %v", e.Unit, e.Err)
}

func (e *ItemProcessingError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether err must terminate the whole run rather than be
// recovered item by item.
func IsFatal(err error) bool {
	var malformed *MalformedResponseError
	var exhausted *ResourceExhaustionError
	return errors.As(err, &malformed) || errors.As(err, &exhausted)
}
