// Package apperr is the error taxonomy shared by the JSON handlers.
//
// Stores return sentinel or driver errors; handlers translate them into an
// *Error carrying a Kind and a human-readable message, then call Write. Kinds
// map to HTTP status codes in one place so every endpoint reports failures
// the same way: {"detail": "..."}.
package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// Kind classifies an error for the HTTP layer.
type Kind int

const (
	Internal        Kind = iota // unexpected failure (500)
	Validation                  // malformed or out-of-range input (400)
	Unauthenticated             // missing, expired or invalid token (401)
	Forbidden                   // wrong role or not the owner (403)
	NotFound                    // referenced id absent (404)
	Conflict                    // duplicate email / application (400)
	RateLimited                 // too many attempts (429)
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	case RateLimited:
		return "rate_limited"
	default:
		return "internal"
	}
}

// Status returns the HTTP status for k. Conflicts are reported as 400 to
// match the public API surface.
func (k Kind) Status() int {
	switch k {
	case Validation, Conflict:
		return http.StatusBadRequest
	case Unauthenticated:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case RateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified application error.
type Error struct {
	Kind    Kind
	Message string
	Err     error // optional cause, never rendered
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New returns an *Error of kind k.
func New(k Kind, msg string) *Error { return &Error{Kind: k, Message: msg} }

// Wrap returns an *Error of kind k that keeps err as its cause.
func Wrap(k Kind, msg string, err error) *Error { return &Error{Kind: k, Message: msg, Err: err} }

// Convenience constructors.
func BadRequest(msg string) *Error   { return New(Validation, msg) }
func Unauthorized(msg string) *Error { return New(Unauthenticated, msg) }
func Deny(msg string) *Error         { return New(Forbidden, msg) }
func Missing(msg string) *Error      { return New(NotFound, msg) }
func Duplicate(msg string) *Error    { return New(Conflict, msg) }

// KindOf reports the Kind of err, defaulting to Internal.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return Internal
}

// Is reports whether err is an *Error of kind k.
func Is(err error, k Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == k
}

type errorBody struct {
	Detail string `json:"detail"`
}

// Write renders err as a JSON error response. Unclassified errors become a
// generic 500 and are logged with their cause.
func Write(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	var ae *Error
	if !errors.As(err, &ae) {
		ae = Wrap(Internal, "internal server error", err)
	}

	if ae.Kind == Internal && log != nil {
		log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(ae.Kind.Status())
	_ = json.NewEncoder(w).Encode(errorBody{Detail: ae.Message})
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Message is the {"message": "..."} body used by mutation endpoints.
type Message struct {
	Message string `json:"message"`
}
