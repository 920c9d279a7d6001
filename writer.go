package beanio

import (
	"io"

	"github.com/tommysiu/beanio/errorsx"
	"github.com/tommysiu/beanio/formats"
	"github.com/tommysiu/beanio/mapping"
)

// Writer formats beans back to text via the mapping tree's RecordDefs.
type Writer struct {
	records []*mapping.RecordDef
	dst     formats.Writer
	closed  bool
}

// NewWriter builds a Writer over dst using every RecordDef reachable
// from root, in the order they appear in the tree.
func NewWriter(root *mapping.GroupDef, dst formats.Writer) *Writer {
	return &Writer{records: flattenRecords(root), dst: dst}
}

func flattenRecords(n mapping.Node) []*mapping.RecordDef {
	switch v := n.(type) {
	case *mapping.RecordDef:
		return []*mapping.RecordDef{v}
	case *mapping.GroupDef:
		var out []*mapping.RecordDef
		for _, c := range v.Children {
			out = append(out, flattenRecords(c)...)
		}
		return out
	default:
		return nil
	}
}

// Write finds the unique RecordDef whose identifier fields match bean
// and formats bean through it. It returns a ConfigError if no record or
// more than one record matches, since an ambiguous or absent target
// record is a mapping-configuration defect, not a per-call fault.
func (w *Writer) Write(bean any) error {
	var match *mapping.RecordDef
	for _, rd := range w.records {
		if rd.MatchesBean(bean) {
			if match != nil {
				return errorsx.NewConfigError("beanio: bean matches more than one record definition", "recordA", match.Name, "recordB", rd.Name)
			}
			match = rd
		}
	}
	if match == nil {
		return errorsx.NewConfigError("beanio: bean does not match any configured record definition")
	}

	tokens, err := match.FormatBean(bean)
	if err != nil {
		return errorsx.WrapStreamError(err, "beanio: formatting bean failed", "record", match.Name)
	}
	if err := w.dst.Write(tokens); err != nil {
		return errorsx.WrapStreamError(err, "beanio: writing record failed", "record", match.Name)
	}
	return nil
}

// Flush flushes the underlying formats.Writer.
func (w *Writer) Flush() error {
	return w.dst.Flush()
}

// Close flushes the underlying writer and, if it implements io.Closer,
// closes it too.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if err := w.dst.Flush(); err != nil {
		return err
	}
	if c, ok := w.dst.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
