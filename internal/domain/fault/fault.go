// Package fault carries the error taxonomy shared by every domain service.
// Callers branch on the kind instead of parsing message text.
package fault

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// KindUnknown covers errors that did not originate in a domain service.
	KindUnknown Kind = iota
	// KindValidation marks missing or malformed caller input.
	KindValidation
	// KindNotFound marks a referenced entity that does not exist.
	KindNotFound
	// KindBusinessRule marks a rejected operation on otherwise valid input,
	// such as an insufficient leave balance at approval time.
	KindBusinessRule
	// KindUpstream marks a persistence or collaborator failure.
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindBusinessRule:
		return "business_rule"
	case KindUpstream:
		return "upstream"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func BusinessRule(format string, args ...any) *Error {
	return &Error{Kind: KindBusinessRule, Message: fmt.Sprintf(format, args...)}
}

// Upstream wraps a collaborator failure while keeping the cause inspectable
// through errors.Is / errors.As.
func Upstream(message string, err error) *Error {
	return &Error{Kind: KindUpstream, Message: message, Err: err}
}

// KindOf reports the kind carried by err, or KindUnknown when err was not
// produced by this package.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
