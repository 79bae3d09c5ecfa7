// Package apperrors provides the typed errors shared by the analysis engine.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind is the category of an analysis error.
type Kind string

const (
	// KindScorerUnavailable means the statistical scorer failed or timed out.
	KindScorerUnavailable Kind = "scorer_unavailable"
	// KindConfiguration means a lexical table or a setting is empty or malformed.
	KindConfiguration Kind = "configuration"
)

var (
	ErrScorerUnavailable = errors.New("scorer unavailable")
	ErrConfiguration     = errors.New("configuration error")
)

// Error carries the kind, the failing operation and the underlying cause.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches the sentinel for the error's kind so callers can use errors.Is
// without caring about the wrapped cause.
func (e *Error) Is(target error) bool {
	switch e.Kind {
	case KindScorerUnavailable:
		return target == ErrScorerUnavailable
	case KindConfiguration:
		return target == ErrConfiguration
	}
	return false
}

// ScorerUnavailable wraps a scorer failure for a single text.
func ScorerUnavailable(op string, cause error) *Error {
	return &Error{
		Kind:    KindScorerUnavailable,
		Op:      op,
		Message: "scorer failed",
		Cause:   cause,
	}
}

// Configuration reports an invalid table or setting.
func Configuration(op, message string) *Error {
	return &Error{
		Kind:    KindConfiguration,
		Op:      op,
		Message: message,
	}
}

func Configurationf(op, format string, args ...any) *Error {
	return Configuration(op, fmt.Sprintf(format, args...))
}

// IsScorerUnavailable reports whether err was caused by a failing scorer.
func IsScorerUnavailable(err error) bool {
	return errors.Is(err, ErrScorerUnavailable)
}

// IsConfiguration reports whether err is a configuration error.
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}
