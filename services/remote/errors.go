package remote

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"cinetrack/models"
)

// Cause is the reason a remote call failed.
type Cause int

const (
	CauseUnknown Cause = iota
	CauseUnauthorized
	CauseNotFound
	CauseNetwork
)

func (c Cause) String() string {
	switch c {
	case CauseUnauthorized:
		return "unauthorized"
	case CauseNotFound:
		return "not found"
	case CauseNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// StatusError is returned for a non-2xx HTTP response.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %s", e.Status)
	}
	return fmt.Sprintf("unexpected status %s - %s", e.Status, e.Body)
}

// CallError is a classified remote call failure.
type CallError struct {
	Source     models.Source
	Cause      Cause
	StatusCode int
	Err        error
}

func (e *CallError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Source, e.Cause)
	}
	return fmt.Sprintf("%s: %s: %v", e.Source, e.Cause, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// Is matches another CallError with the same source and cause, so sentinel comparisons work.
func (e *CallError) Is(target error) bool {
	var other *CallError
	if !errors.As(target, &other) {
		return false
	}
	return other.Source == e.Source && other.Cause == e.Cause
}

var (
	ErrTraktUnauthorized = &CallError{Source: models.SourceTrakt, Cause: CauseUnauthorized}
	ErrTmdbUnauthorized  = &CallError{Source: models.SourceTMDB, Cause: CauseUnauthorized}
)

// Classify converts any error returned by a client call into a CallError for source.
func Classify(source models.Source, err error) *CallError {
	if err == nil {
		return nil
	}
	var callErr *CallError
	if errors.As(err, &callErr) {
		if callErr.Source == models.SourceUnknown {
			classified := *callErr
			classified.Source = source
			return &classified
		}
		return callErr
	}

	classified := &CallError{Source: source, Cause: CauseUnknown, Err: err}
	var statusErr *StatusError
	var netErr net.Error
	switch {
	case errors.As(err, &statusErr):
		classified.StatusCode = statusErr.StatusCode
		classified.Cause = causeForStatus(statusErr.StatusCode)
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr):
		classified.Cause = CauseNetwork
	}
	return classified
}

func causeForStatus(code int) Cause {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return CauseUnauthorized
	case http.StatusNotFound:
		return CauseNotFound
	default:
		return CauseUnknown
	}
}

// IsUnauthorized reports whether err is an authorization failure from any source.
func IsUnauthorized(err error) bool {
	var callErr *CallError
	return errors.As(err, &callErr) && callErr.Cause == CauseUnauthorized
}
