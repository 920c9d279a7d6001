// Package errorsx defines the three error taxa of the mapping engine:
// configuration faults, stream faults, and record faults (structural and
// field-validation). Record and field faults carry their rule code and
// rule parameters as structured fields via github.com/maxbolgarin/erro so
// a caller (or the out-of-scope localisation collaborator) can render
// them without re-parsing an error string.
package errorsx

import (
	"fmt"

	"github.com/maxbolgarin/erro"
	"go.uber.org/multierr"
)

// Rule is one of the rule codes recognised by the engine's error-code
// surface.
type Rule string

const (
	RuleMalformed    Rule = "malformed"
	RuleUnidentified Rule = "unidentified"
	RuleUnexpected   Rule = "unexpected"
	RuleSequence     Rule = "sequence"
	RuleRequired     Rule = "required"
	RuleLiteral      Rule = "literal"
	RuleMinLength    Rule = "minLength"
	RuleMaxLength    Rule = "maxLength"
	RuleRegex        Rule = "regex"
	RuleMinOccurs    Rule = "minOccurs"
	RuleType         Rule = "type"
)

// ConfigError denotes an invalid mapping detected while loading. It is
// fatal; there is no recovery path.
type ConfigError struct {
	err error
}

// NewConfigError builds a ConfigError carrying the given structured
// key/value fields (record name, field name, path, cause, ...).
func NewConfigError(msg string, kv ...any) ConfigError {
	return ConfigError{err: erro.New(msg, kv...)}
}

// WrapConfigError wraps an underlying cause (typically from a mapping
// loader) as a ConfigError.
func WrapConfigError(cause error, msg string, kv ...any) ConfigError {
	return ConfigError{err: erro.Wrap(cause, msg, kv...)}
}

func (e ConfigError) Error() string { return e.err.Error() }
func (e ConfigError) Unwrap() error { return e.err }

// StreamError wraps a fatal I/O fault surfaced by the underlying format
// reader/writer, preserving the original cause.
type StreamError struct {
	err error
}

// WrapStreamError builds a StreamError around a cause raised by the
// format reader/writer contract.
func WrapStreamError(cause error, msg string, kv ...any) StreamError {
	return StreamError{err: erro.Wrap(cause, msg, kv...)}
}

func (e StreamError) Error() string { return e.err.Error() }
func (e StreamError) Unwrap() error { return e.err }

// RecordError is a structural record fault: malformed, unidentified,
// unexpected, or sequence. The caller decides whether to skip and
// continue reading.
type RecordError struct {
	RecordName string
	Rule       Rule
	Line       int
	Text       string
	err        error
}

// NewRecordError builds a RecordError, attaching the record's raw text
// and line number.
func NewRecordError(recordName string, rule Rule, line int, text string, kv ...any) RecordError {
	fields := append([]any{"record", recordName, "rule", string(rule), "line", line}, kv...)
	msg := fmt.Sprintf("record %q: %s", recordName, rule)
	return RecordError{
		RecordName: recordName,
		Rule:       rule,
		Line:       line,
		Text:       text,
		err:        erro.New(msg, fields...),
	}
}

func (e RecordError) Error() string { return e.err.Error() }
func (e RecordError) Unwrap() error { return e.err }

// FieldError is a single field-validation fault: required, literal,
// minLength, maxLength, regex, minOccurs, or type. FieldErrors are
// accumulated on a runtime context and reported together as a group
// attached to a single InvalidRecordError.
type FieldError struct {
	RecordName string
	FieldName  string
	Rule       Rule
	Params     map[string]any
	err        error
}

// NewFieldError builds a FieldError with the offending rule's
// parameters attached as structured fields.
func NewFieldError(recordName, fieldName string, rule Rule, params map[string]any) FieldError {
	kv := []any{"record", recordName, "field", fieldName, "rule", string(rule)}
	for k, v := range params {
		kv = append(kv, k, v)
	}
	msg := fmt.Sprintf("record %q, field %q: %s", recordName, fieldName, rule)
	return FieldError{
		RecordName: recordName,
		FieldName:  fieldName,
		Rule:       rule,
		Params:     params,
		err:        erro.New(msg, kv...),
	}
}

func (e FieldError) Error() string { return e.err.Error() }
func (e FieldError) Unwrap() error { return e.err }

// InvalidRecordError groups every FieldError accumulated while parsing
// one record. parseBean returns this whenever any field reported an
// error, after every field has still been given a chance to parse so
// all of their errors surface together.
type InvalidRecordError struct {
	RecordName  string
	FieldErrors []FieldError
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("record %q: invalid, %d field error(s)", e.RecordName, len(e.FieldErrors))
}

// Unwrap exposes the individual field errors for errors.Is/errors.As
// walks that want to inspect one without combining them.
func (e *InvalidRecordError) Unwrap() []error {
	errs := make([]error, len(e.FieldErrors))
	for i, fe := range e.FieldErrors {
		errs[i] = fe
	}
	return errs
}

// Combined merges every field error into a single error value via
// multierr, for callers that want one error rather than a slice.
func (e *InvalidRecordError) Combined() error {
	errs := make([]error, len(e.FieldErrors))
	for i, fe := range e.FieldErrors {
		errs[i] = fe
	}
	return multierr.Combine(errs...)
}
