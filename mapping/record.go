package mapping

import (
	"fmt"

	"github.com/tommysiu/beanio/errorsx"
	"github.com/tommysiu/beanio/recctx"
)

// RecordDef is an ordered collection of field definitions plus an
// optional bean factory.
type RecordDef struct {
	Name      string
	Order     int
	MinOccurs int
	MaxOccurs int // Unbounded for no cap
	Fields    []*FieldDef

	// New constructs a fresh, zero-valued bean for this record. If nil,
	// ParseBean builds a map[string]any bean instead and fields must be
	// bound with binding.NewMapAccessor.
	New func() any
}

func (r *RecordDef) isMappingNode() {}

// HasIdentifiers reports whether any field is flagged as a record
// identifier.
func (r *RecordDef) HasIdentifiers() bool {
	for _, f := range r.Fields {
		if f.Identifier {
			return true
		}
	}
	return false
}

// Matches reports whether every identifier field's tokenised value
// equals its literal or matches its regex. A record with no identifier
// fields always matches (an "anonymous" match, resolved by the layout
// tree's tie-break rules).
func (r *RecordDef) Matches(tokens []string) bool {
	for _, f := range r.Fields {
		if f.Identifier && !f.MatchesText(tokens) {
			return false
		}
	}
	return true
}

// MatchesBean reports whether every identifier field's value-side
// match holds for the candidate bean.
func (r *RecordDef) MatchesBean(bean any) bool {
	for _, f := range r.Fields {
		if f.Identifier && !f.MatchesValue(bean) {
			return false
		}
	}
	return true
}

// ParseBean parses every field against tokens (so all of their errors
// surface even after the first failure), and constructs and binds a
// bean only when every field succeeded.
func (r *RecordDef) ParseBean(ctx *recctx.Context, tokens []string) (any, error) {
	ctx.RecordName = r.Name

	type parsed struct {
		field *FieldDef
		res   Result
	}
	results := make([]parsed, 0, len(r.Fields))
	anyInvalid := false
	for _, f := range r.Fields {
		res := f.Parse(ctx, tokens)
		if res.Status == StatusInvalid {
			anyInvalid = true
		}
		results = append(results, parsed{f, res})
	}
	if anyInvalid {
		return nil, ctx.Invalid()
	}

	var bean any
	if r.New != nil {
		bean = r.New()
	} else {
		bean = make(map[string]any)
	}

	for _, p := range results {
		if p.field.Accessor == nil {
			continue
		}
		if p.res.Status == StatusMissing {
			// Leave the bean's zero value untouched.
			continue
		}
		if err := p.field.Accessor.Set(bean, p.res.Value); err != nil {
			ctx.AddFieldError(errorsx.NewFieldError(r.Name, p.field.Name, errorsx.RuleType, map[string]any{
				"cause": err.Error(),
			}))
			anyInvalid = true
		}
	}
	if anyInvalid {
		return nil, ctx.Invalid()
	}
	return bean, nil
}

// FormatBean projects, for each field in position order, the value
// from the bean's bound property (or nil if unbound) and formats it.
func (r *RecordDef) FormatBean(bean any) ([]string, error) {
	out := make([]string, 0, len(r.Fields))
	for _, f := range r.Fields {
		var value any
		if f.Accessor != nil {
			v, err := f.Accessor.Get(bean)
			if err != nil {
				return nil, fmt.Errorf("record %q, field %q: %w", r.Name, f.Name, err)
			}
			value = v
		}
		texts, err := f.Format(value)
		if err != nil {
			return nil, fmt.Errorf("record %q, field %q: %w", r.Name, f.Name, err)
		}
		out = append(out, texts...)
	}
	return out, nil
}
