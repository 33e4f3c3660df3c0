// Package fareerr classifies failures of the fare service into the kinds the
// request cache and the callers act upon.
package fareerr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

type Kind int

const (
	KindTransient Kind = iota
	KindValidation
	KindNotFoundOrClient
	KindPermission
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation_error"
	case KindNotFoundOrClient:
		return "not_found"
	case KindPermission:
		return "location_unavailable"
	default:
		return "transient_error"
	}
}

type Error struct {
	Kind    Kind
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Kind, e.Status, e.Message)
	}
	if e.Err != nil && e.Message == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Transient(err error) *Error {
	return &Error{Kind: KindTransient, Message: err.Error(), Err: err}
}

// FromStatus maps a non-2xx response onto a kind. Location-aware endpoints
// report a denied or unresolvable location as a client error; those become
// KindPermission instead of KindNotFoundOrClient.
func FromStatus(status int, code, message string, locationAware bool) *Error {
	e := &Error{Status: status, Code: code, Message: message}

	switch {
	case status == http.StatusRequestTimeout || status == http.StatusTooManyRequests:
		e.Kind = KindTransient
	case status >= 500:
		e.Kind = KindTransient
	case locationAware && (status == http.StatusUnauthorized || status == http.StatusForbidden || isLocationCode(code)):
		e.Kind = KindPermission
	case status >= 400:
		e.Kind = KindNotFoundOrClient
	default:
		e.Kind = KindTransient
	}

	return e
}

func isLocationCode(code string) bool {
	switch code {
	case "location_unavailable", "location_denied", "permission_denied", "geolocation_error":
		return true
	}
	return false
}

// KindOf reports the kind of err. Errors that were never classified
// (timeouts, dial failures, cancelled contexts) count as transient.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindTransient
}

func Retryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	return KindOf(err) == KindTransient
}

// Wrap returns err as an *Error, classifying unknown errors as transient.
func Wrap(err error) *Error {
	if err == nil {
		return nil
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe
	}
	var ne net.Error
	if errors.As(err, &ne) || errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTransient, Message: "network error: " + err.Error(), Err: err}
	}
	return Transient(err)
}

// HTTPStatus is the status the server answers with for err.
func HTTPStatus(err error) int {
	var fe *Error
	if !errors.As(err, &fe) {
		return http.StatusBadGateway
	}
	switch fe.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindPermission:
		return http.StatusForbidden
	case KindNotFoundOrClient:
		if fe.Status >= 400 && fe.Status < 500 {
			return fe.Status
		}
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}
