// Package recctx implements the per-record runtime context: line
// number, raw record text, tokenised fields, and the accumulated field
// and record errors for one record. A new Context is created per input
// record, tracking the same line-number and per-field bookkeeping a
// hand-rolled line-scanning parser would keep locally.
package recctx

import (
	"github.com/google/uuid"

	"github.com/tommysiu/beanio/errorsx"
)

// Context carries everything the field/record parse algorithms need to
// know about the record currently being processed, plus the errors
// accumulated against it.
type Context struct {
	// ID is a fresh random identifier for this record's context. The
	// engine does not attach it to log lines or to the errors it
	// raises.
	ID uuid.UUID

	RecordName string
	LineNumber int
	RawText    string
	Tokens     []string

	fieldIndex   int
	fieldErrors  []errorsx.FieldError
	recordErrors []errorsx.RecordError
}

// New creates a fresh Context for one input record.
func New(lineNumber int, rawText string, tokens []string) *Context {
	return &Context{
		ID:         uuid.New(),
		LineNumber: lineNumber,
		RawText:    rawText,
		Tokens:     tokens,
	}
}

// AddFieldError accumulates a field-validation fault. Callers append
// these in field declaration order.
func (c *Context) AddFieldError(e errorsx.FieldError) {
	c.fieldErrors = append(c.fieldErrors, e)
}

// AddRecordError accumulates a structural fault for this record.
func (c *Context) AddRecordError(e errorsx.RecordError) {
	c.recordErrors = append(c.recordErrors, e)
}

// FieldErrors returns the field errors accumulated so far, in
// declaration order.
func (c *Context) FieldErrors() []errorsx.FieldError {
	return c.fieldErrors
}

// RecordErrors returns the structural errors accumulated so far.
func (c *Context) RecordErrors() []errorsx.RecordError {
	return c.recordErrors
}

// HasErrors reports whether any field or record error has been raised
// against this context.
func (c *Context) HasErrors() bool {
	return len(c.fieldErrors) > 0 || len(c.recordErrors) > 0
}

// Invalid builds the grouped InvalidRecordError for this context's
// accumulated field errors, or nil if there are none. Record errors
// precede field errors when both are present for the same record, so
// callers should surface RecordErrors first.
func (c *Context) Invalid() *errorsx.InvalidRecordError {
	if len(c.fieldErrors) == 0 {
		return nil
	}
	return &errorsx.InvalidRecordError{RecordName: c.RecordName, FieldErrors: c.fieldErrors}
}
