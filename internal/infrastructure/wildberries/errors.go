package wildberries

import (
	"errors"
	"fmt"
	"net/http"

	"git.appkode.ru/pub/go/failure"

	"wb_slots/pkg/errcodes"
)

// ProviderError is any failure of a supplies-API call. Transient errors
// (timeouts, 5xx, quota) are retried with backoff inside the client;
// permanent ones abort the call immediately.
type ProviderError struct {
	Op         string
	Code       failure.ErrorCode
	StatusCode int
	Transient  bool
	cause      error
}

func (e *ProviderError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.cause)
	}
	return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
}

func (e *ProviderError) Unwrap() error {
	return e.cause
}

// IsTransient reports whether err is a provider error worth retrying.
func IsTransient(err error) bool {
	var provErr *ProviderError
	return errors.As(err, &provErr) && provErr.Transient
}

func transientError(op string, cause error) *ProviderError {
	return &ProviderError{
		Op:        op,
		Code:      errcodes.ProviderUnavailable,
		Transient: true,
		cause:     cause,
	}
}

func statusError(op string, statusCode int) *ProviderError {
	e := &ProviderError{
		Op:         op,
		StatusCode: statusCode,
	}

	switch {
	case statusCode == http.StatusTooManyRequests || statusCode >= http.StatusInternalServerError:
		e.Code = errcodes.ProviderUnavailable
		e.Transient = true
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		e.Code = errcodes.ProviderForbidden
	default:
		e.Code = errcodes.ProviderBadRequest
	}

	return e
}

func payloadError(op string, cause error) *ProviderError {
	return &ProviderError{
		Op:    op,
		Code:  errcodes.ProviderBadPayload,
		cause: cause,
	}
}
