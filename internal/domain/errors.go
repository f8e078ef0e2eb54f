package domain

import "fmt"

// RemoteFetchError is a transport failure, a non-success status or an undecodable body.
type RemoteFetchError struct {
	URL        string
	StatusCode int
	Reason     string
	Err        error
}

func (e *RemoteFetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Reason)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *RemoteFetchError) Unwrap() error {
	return e.Err
}

// MissingReferenceError means the first category lacked the reference line.
type MissingReferenceError struct {
	Source    string
	Reference string
}

func (e *MissingReferenceError) Error() string {
	return fmt.Sprintf("first category of %s must contain base value data (%q not found)", e.Source, e.Reference)
}

// InvalidReferenceError guards the division by the reference value.
type InvalidReferenceError struct {
	Value float64
}

func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf("invalid exalted orb value: %v", e.Value)
}

// ValidationError is a request that cannot be run.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
