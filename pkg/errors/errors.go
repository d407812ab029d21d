package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers (HTTP layer, workers) can map it to a
// stable external representation without string matching.
type Kind string

const (
	KindAuthorization          Kind = "AUTHORIZATION"
	KindValidation             Kind = "VALIDATION"
	KindInvalidStateTransition Kind = "INVALID_STATE_TRANSITION"
	KindConcurrentModification Kind = "CONCURRENT_MODIFICATION"
	KindNotFound               Kind = "NOT_FOUND"
	KindMapping                Kind = "MAPPING"
	KindDispatchFailure        Kind = "DISPATCH_FAILURE"
	KindInternal               Kind = "INTERNAL"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is makes two taxonomy errors match on Kind alone, so sentinel values below
// work with errors.Is regardless of message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

func NewAuthorization(msg string) *Error {
	return &Error{Kind: KindAuthorization, Message: msg}
}

func NewValidation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func NewInvalidStateTransition(msg string) *Error {
	return &Error{Kind: KindInvalidStateTransition, Message: msg}
}

func NewConcurrentModification(msg string) *Error {
	return &Error{Kind: KindConcurrentModification, Message: msg}
}

func NewNotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func NewMapping(msg string, err error) *Error {
	return &Error{Kind: KindMapping, Message: msg, Err: err}
}

func NewDispatchFailure(msg string) *Error {
	return &Error{Kind: KindDispatchFailure, Message: msg}
}

func NewInternal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

var (
	ErrAuthorization          = &Error{Kind: KindAuthorization, Message: "not authorized"}
	ErrValidation             = &Error{Kind: KindValidation, Message: "invalid input"}
	ErrInvalidStateTransition = &Error{Kind: KindInvalidStateTransition, Message: "transition not allowed"}
	ErrConcurrentModification = &Error{Kind: KindConcurrentModification, Message: "stale version"}
	ErrNotFound               = &Error{Kind: KindNotFound, Message: "not found"}
	ErrDispatchFailure        = &Error{Kind: KindDispatchFailure, Message: "all endpoint publishes failed"}
)

// KindOf extracts the Kind of err, or KindInternal when err is not part of the
// taxonomy.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
