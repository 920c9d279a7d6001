package beanio

import (
	"errors"
	"io"

	"go.uber.org/zap"

	"github.com/tommysiu/beanio/errorsx"
	"github.com/tommysiu/beanio/formats"
	"github.com/tommysiu/beanio/logging"
	"github.com/tommysiu/beanio/mapping"
	"github.com/tommysiu/beanio/recctx"
)

// Reader drives the layout state machine over one formats.Reader,
// walking the full group/record tree one physical record at a time.
type Reader struct {
	root   *mapping.GroupDef
	layout *mapping.LayoutNode
	src    formats.Reader
	closed bool
}

// NewReader builds a Reader over src using the given mapping tree. root
// should already have passed mapping.Validate (mapping.BuildTree does
// this for you).
func NewReader(root *mapping.GroupDef, src formats.Reader) *Reader {
	return &Reader{root: root, layout: mapping.NewLayout(root), src: src}
}

// Read returns the next bean read from the underlying stream. It
// returns io.EOF once the stream is exhausted and every remaining
// node's minimum occurrence has been satisfied.
//
// A returned error may be an *errorsx.InvalidRecordError (field
// validation faults on an otherwise identified record),
// errorsx.RecordError (structural fault: unidentified, unexpected, or
// out of sequence), or errorsx.StreamError (the underlying format
// collaborator failed). Structural and validation faults are safe to
// log and skip; the caller may call Read again to continue past them.
func (r *Reader) Read() (any, error) {
	tokens, raw, err := r.src.Read()
	if err != nil {
		if errors.Is(err, formats.ErrEOF) || errors.Is(err, io.EOF) {
			if missing := r.layout.Close(); missing != nil {
				name := mapping.NodeName(missing.Def)
				return nil, errorsx.NewRecordError(name, errorsx.RuleSequence, r.src.Line(), "", "expected", name)
			}
			return nil, io.EOF
		}
		return nil, errorsx.WrapStreamError(err, "beanio: reading next record failed")
	}

	leaf, err := r.layout.MatchNext(tokens)
	if err != nil {
		return nil, err
	}
	if leaf == nil {
		line := r.src.Line()
		if found := r.layout.MatchAny(tokens); found != nil {
			name := mapping.NodeName(found.Def)
			logging.L().Debug("record matched by identity but saturated its cardinality",
				zap.String("record", name), zap.Int("line", line))
			return nil, errorsx.NewRecordError(name, errorsx.RuleUnexpected, line, raw)
		}
		logging.L().Debug("record did not match any configured record definition", zap.Int("line", line))
		return nil, errorsx.NewRecordError("", errorsx.RuleUnidentified, line, raw)
	}

	rd, ok := leaf.Def.(*mapping.RecordDef)
	if !ok {
		return nil, errorsx.NewRecordError(mapping.NodeName(leaf.Def), errorsx.RuleMalformed, r.src.Line(), raw)
	}

	ctx := recctx.New(r.src.Line(), raw, tokens)
	bean, err := rd.ParseBean(ctx, tokens)
	if err != nil {
		return nil, err
	}
	return bean, nil
}

// Close releases the underlying stream if it implements io.Closer.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if c, ok := r.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
