package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Kind classifies catalog failures. Transports map kinds to status codes.
type Kind uint8

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindAccessDenied
	KindUnavailable
	KindConfiguration
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindAccessDenied:
		return "access_denied"
	case KindUnavailable:
		return "unavailable"
	case KindConfiguration:
		return "configuration"
	default:
		return "internal"
	}
}

// Error is the single error type returned across the catalog layer.
type Error struct {
	Kind Kind
	Op   string
	// Fields holds per-field messages for validation failures.
	Fields map[string]string
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	switch {
	case e.Msg != "":
		b.WriteString(e.Msg)
	case len(e.Fields) > 0:
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for i, k := range keys {
			if i > 0 {
				b.WriteString("; ")
			}
			b.WriteString(e.Fields[k])
		}
	default:
		b.WriteString(e.Kind.String())
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Invalid reports a single malformed input field.
func Invalid(field, format string, args ...any) *Error {
	msg := fmt.Sprintf(format, args...)
	return &Error{Kind: KindValidation, Fields: map[string]string{field: msg}, Msg: msg}
}

// InvalidFields reports several malformed fields at once.
func InvalidFields(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Fields: fields, Msg: "validation failed"}
}

func NotFound(op, format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func Misconfigured(op, format string, args ...any) *Error {
	return &Error{Kind: KindConfiguration, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func Unavailable(op string, err error) *Error {
	return &Error{Kind: KindUnavailable, Op: op, Msg: "store unavailable", Err: err}
}

func Denied(op string, err error) *Error {
	return &Error{Kind: KindAccessDenied, Op: op, Msg: "store access denied", Err: err}
}

// Wrap classifies err for op. Catalog errors keep their kind; deadline and
// cancellation become Unavailable; anything else is Internal.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}

	var ce *Error
	if errors.As(err, &ce) {
		if ce.Op == "" {
			cp := *ce
			cp.Op = op
			return &cp
		}
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &Error{Kind: KindUnavailable, Op: op, Msg: "store call timed out", Err: err}
	}
	return &Error{Kind: KindInternal, Op: op, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, KindInternal
// otherwise.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindInternal
}

func IsKind(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}

// Retryable reports whether the caller may retry with backoff.
func Retryable(err error) bool {
	return IsKind(err, KindUnavailable)
}

// FieldErrors returns validation field messages carried by err, if any.
func FieldErrors(err error) map[string]string {
	var ce *Error
	if errors.As(err, &ce) && ce.Kind == KindValidation {
		return ce.Fields
	}
	return nil
}
