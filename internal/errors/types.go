// Package errors provides the typed error taxonomy of the SDK together with
// the retry classification consumed by the async executor.
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
)

// ErrorCategory determines how errors should be handled by retry logic.
type ErrorCategory int

const (
	// Recoverable errors may be retried with exponential backoff.
	// Examples: 500 Internal Server Error, timeouts, connection failures.
	Recoverable ErrorCategory = iota

	// Irrecoverable errors should fail immediately without retry.
	// Examples: 401 Unauthorized, 404 Not Found, 409 Conflict.
	Irrecoverable
)

// String returns a human-readable representation of the error category.
func (c ErrorCategory) String() string {
	switch c {
	case Recoverable:
		return "Recoverable"
	case Irrecoverable:
		return "Irrecoverable"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// Kind is the closed set of failures an SDK call can report.
type Kind int

const (
	// KindAPI is the fallback for any non-2xx response without a more
	// specific meaning.
	KindAPI Kind = iota
	KindAuthentication
	KindValidation
	KindInternalServer
	KindTimeout
	KindConnection
	KindUserNotFound
	KindUserAlreadyExists
	KindSessionNotFound
	KindInvalidSessionState
	KindInvalidCategories
	KindMergeConflictNotFound
	KindMergeConflictAlreadyResolved
	KindMergeConflictInvalidQuestions
	KindMergeConflictMissingAnswers
	KindMergeConflictInvalidAnswer
	// KindLocalValidation marks argument checks that fail before any request
	// is made.
	KindLocalValidation
)

var kindNames = map[Kind]string{
	KindAPI:                           "api error",
	KindAuthentication:                "authentication failed",
	KindValidation:                    "validation failed",
	KindInternalServer:                "internal server error",
	KindTimeout:                       "request timed out",
	KindConnection:                    "connection failed",
	KindUserNotFound:                  "user not found",
	KindUserAlreadyExists:             "user already exists",
	KindSessionNotFound:               "session not found",
	KindInvalidSessionState:           "invalid session state",
	KindInvalidCategories:             "invalid categories",
	KindMergeConflictNotFound:         "merge conflict not found",
	KindMergeConflictAlreadyResolved:  "merge conflict already resolved",
	KindMergeConflictInvalidQuestions: "merge conflict invalid questions",
	KindMergeConflictMissingAnswers:   "merge conflict missing answers",
	KindMergeConflictInvalidAnswer:    "merge conflict invalid answer",
	KindLocalValidation:               "invalid argument",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is the single error type returned by SDK operations. Fields that do
// not apply to a kind are left empty.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int // 0 for local and network-level failures

	UserID            string
	SessionID         string
	SessionStatus     string
	ConflictID        string
	InvalidCategories []string
	MissingQuestions  []string

	Body       string // raw response body for debugging
	Underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("recallrai: %s (HTTP %d): %s", e.Kind, e.StatusCode, msg)
	}
	if e.Underlying != nil && msg != e.Underlying.Error() {
		return fmt.Sprintf("recallrai: %s: %s: %v", e.Kind, msg, e.Underlying)
	}
	return fmt.Sprintf("recallrai: %s: %s", e.Kind, msg)
}

// Unwrap returns the underlying error for error chain compatibility.
func (e *Error) Unwrap() error { return e.Underlying }

// Is reports whether target is an *Error of the same kind, so sentinel
// values built with Sentinel match any error of their kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Category classifies the error for retry policies.
func (e *Error) Category() ErrorCategory {
	switch e.Kind {
	case KindTimeout, KindConnection, KindInternalServer:
		return Recoverable
	default:
		return Irrecoverable
	}
}

// Sentinel returns a comparison value for errors.Is.
func Sentinel(k Kind) *Error { return &Error{Kind: k} }

// New builds an error of kind k.
func New(k Kind, msg string) *Error { return &Error{Kind: k, Message: msg} }

// Local builds a KindLocalValidation error.
func Local(format string, args ...any) *Error {
	return &Error{Kind: KindLocalValidation, Message: fmt.Sprintf(format, args...)}
}

// NewNetworkError classifies a transport failure. Deadline expiry and
// net.Error timeouts become KindTimeout, everything else KindConnection.
// Caller cancellation is returned unchanged.
func NewNetworkError(operation string, err error) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, context.Canceled) {
		return err
	}
	kind := KindConnection
	var ne net.Error
	if stderrors.Is(err, context.DeadlineExceeded) || (stderrors.As(err, &ne) && ne.Timeout()) {
		kind = KindTimeout
	}
	return &Error{
		Kind:       kind,
		Message:    fmt.Sprintf("%s: %v", operation, err),
		Underlying: err,
	}
}

// KindOf returns the kind of err, or false when err is not an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// IsRecoverable returns true only for errors worth retrying.
func IsRecoverable(err error) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Category() == Recoverable
	}
	return false
}

// IsIrrecoverable returns true if the error should not be retried.
func IsIrrecoverable(err error) bool {
	return err != nil && !IsRecoverable(err)
}
