package recallrai

import (
	"errors"

	sdkerrors "github.com/recallrai/sdk-go/internal/errors"
	"github.com/recallrai/sdk-go/internal/types"
)

// Error is the error type returned for every failed service call and local
// argument check. Use errors.As to read its fields.
type Error = sdkerrors.Error

// ErrorKind classifies an Error.
type ErrorKind = sdkerrors.Kind

// DecodeError reports a response body that did not match the expected model.
type DecodeError = types.DecodeError

// Sentinels for errors.Is. Matching is by kind only.
var (
	ErrAPI                           = sdkerrors.Sentinel(sdkerrors.KindAPI)
	ErrAuthentication                = sdkerrors.Sentinel(sdkerrors.KindAuthentication)
	ErrValidation                    = sdkerrors.Sentinel(sdkerrors.KindValidation)
	ErrInternalServer                = sdkerrors.Sentinel(sdkerrors.KindInternalServer)
	ErrTimeout                       = sdkerrors.Sentinel(sdkerrors.KindTimeout)
	ErrConnection                    = sdkerrors.Sentinel(sdkerrors.KindConnection)
	ErrUserNotFound                  = sdkerrors.Sentinel(sdkerrors.KindUserNotFound)
	ErrUserAlreadyExists             = sdkerrors.Sentinel(sdkerrors.KindUserAlreadyExists)
	ErrSessionNotFound               = sdkerrors.Sentinel(sdkerrors.KindSessionNotFound)
	ErrInvalidSessionState           = sdkerrors.Sentinel(sdkerrors.KindInvalidSessionState)
	ErrInvalidCategories             = sdkerrors.Sentinel(sdkerrors.KindInvalidCategories)
	ErrMergeConflictNotFound         = sdkerrors.Sentinel(sdkerrors.KindMergeConflictNotFound)
	ErrMergeConflictAlreadyResolved  = sdkerrors.Sentinel(sdkerrors.KindMergeConflictAlreadyResolved)
	ErrMergeConflictInvalidQuestions = sdkerrors.Sentinel(sdkerrors.KindMergeConflictInvalidQuestions)
	ErrMergeConflictMissingAnswers   = sdkerrors.Sentinel(sdkerrors.KindMergeConflictMissingAnswers)
	ErrMergeConflictInvalidAnswer    = sdkerrors.Sentinel(sdkerrors.KindMergeConflictInvalidAnswer)
	ErrLocalValidation               = sdkerrors.Sentinel(sdkerrors.KindLocalValidation)
)

// ErrBackPressure is returned by Go when the executor queue for a key is full.
var ErrBackPressure = errors.New("back-pressure (queue full)")

// IsBackPressure reports whether err is a back-pressure error.
func IsBackPressure(err error) bool { return errors.Is(err, ErrBackPressure) }

// ErrClientClosed is returned for calls made after Client.Close.
var ErrClientClosed = errors.New("recallrai: client closed")

// IsRecoverable reports whether err is a timeout, connection failure or
// internal server error that may succeed on a later attempt.
func IsRecoverable(err error) bool { return sdkerrors.IsRecoverable(err) }
