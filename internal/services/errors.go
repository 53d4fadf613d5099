package services

import (
	"errors"
	"fmt"
)

var (
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrInvalidPage       = errors.New("page must be a positive integer")
)

// UpstreamError is returned when an external service answers with a
// non-success HTTP status.
type UpstreamError struct {
	Service    string
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: HTTP error! status %d", e.Service, e.StatusCode)
}
