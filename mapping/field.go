package mapping

import (
	"regexp"
	"strings"

	"github.com/tommysiu/beanio/binding"
	"github.com/tommysiu/beanio/errorsx"
	"github.com/tommysiu/beanio/recctx"
)

// CollectionKind distinguishes a scalar field from a repeating field
// bound to a slice (preserving duplicates and order) or an ordered set
// (de-duplicated but still ordered).
type CollectionKind int

const (
	CollectionNone CollectionKind = iota
	CollectionSlice
	CollectionOrderedSet
)

// Justify controls which side of a formatted value receives pad
// characters when writing fixed-length output.
type Justify int

const (
	JustifyLeft Justify = iota
	JustifyRight
)

// Unbounded marks a MaxOccurs/MaxLength as having no upper bound.
const Unbounded = -1

// FieldDef is a field's full per-field contract: position/width,
// occurrence bounds, validation rules, optional type handler, and
// optional bean-property binding.
type FieldDef struct {
	Name       string
	Position   int
	MinLength  *int
	MaxLength  *int
	MinOccurs  int
	MaxOccurs  int // Unbounded for no cap
	Required   bool
	Trim       bool
	Identifier bool
	Literal    string
	Regex      *regexp.Regexp
	Default    any
	HasDefault bool
	Handler    Handler
	Collection CollectionKind
	Accessor   binding.Accessor
	PadChar    byte
	Justify    Justify
}

func extractToken(tokens []string, pos int) (string, bool) {
	if pos < 0 || pos >= len(tokens) {
		return "", false
	}
	return tokens[pos], true
}

func (f *FieldDef) handler() Handler {
	if f.Handler != nil {
		return f.Handler
	}
	return identityHandler{}
}

// parseScalar parses the single token at pos: trim, literal, length,
// regex, and type-handler checks, in that order.
func (f *FieldDef) parseScalar(ctx *recctx.Context, tokens []string, pos int) Result {
	text, ok := extractToken(tokens, pos)
	if !ok {
		if f.Required {
			ctx.AddFieldError(errorsx.NewFieldError(ctx.RecordName, f.Name, errorsx.RuleRequired, nil))
			return Invalid
		}
		if f.HasDefault {
			return OK(f.Default)
		}
		return Missing
	}

	if f.Trim {
		text = strings.TrimSpace(text)
	}

	failed := false

	if f.Literal != "" && text != f.Literal {
		ctx.AddFieldError(errorsx.NewFieldError(ctx.RecordName, f.Name, errorsx.RuleLiteral, map[string]any{
			"expected": f.Literal,
			"actual":   text,
		}))
		failed = true
	}
	if f.MinLength != nil && len(text) < *f.MinLength {
		ctx.AddFieldError(errorsx.NewFieldError(ctx.RecordName, f.Name, errorsx.RuleMinLength, map[string]any{
			"minLength": *f.MinLength,
			"actual":    len(text),
		}))
		failed = true
	}
	if f.MaxLength != nil && len(text) > *f.MaxLength {
		ctx.AddFieldError(errorsx.NewFieldError(ctx.RecordName, f.Name, errorsx.RuleMaxLength, map[string]any{
			"maxLength": *f.MaxLength,
			"actual":    len(text),
		}))
		failed = true
	}
	// Literal and regex are evaluated independently: both must hold
	// when both are configured.
	if f.Regex != nil && !f.Regex.MatchString(text) {
		ctx.AddFieldError(errorsx.NewFieldError(ctx.RecordName, f.Name, errorsx.RuleRegex, map[string]any{
			"pattern": f.Regex.String(),
			"actual":  text,
		}))
		failed = true
	}

	if failed {
		return Invalid
	}

	val, err := f.handler().Parse(text)
	if err != nil {
		ctx.AddFieldError(errorsx.NewFieldError(ctx.RecordName, f.Name, errorsx.RuleType, map[string]any{
			"cause": err.Error(),
		}))
		return Invalid
	}
	return OK(val)
}

// Parse parses this field out of tokens, dispatching to the collection
// loop when Collection != CollectionNone.
func (f *FieldDef) Parse(ctx *recctx.Context, tokens []string) Result {
	if f.Collection == CollectionNone {
		return f.parseScalar(ctx, tokens, f.Position)
	}

	max := f.MaxOccurs
	if max == Unbounded || max > len(tokens)-f.Position {
		max = len(tokens) - f.Position
	}
	if max < 0 {
		max = 0
	}

	var values []any
	seen := make(map[any]struct{})
	anyInvalid := false
	count := 0

	for i := 0; i < max; i++ {
		res := f.parseScalar(ctx, tokens, f.Position+i)
		if res.Status == StatusMissing {
			break
		}
		if res.Status == StatusInvalid {
			anyInvalid = true
			count++
			continue
		}
		if f.Collection == CollectionOrderedSet {
			if _, dup := seen[res.Value]; dup {
				continue
			}
			seen[res.Value] = struct{}{}
		}
		values = append(values, res.Value)
		count++
	}

	if count < f.MinOccurs {
		ctx.AddFieldError(errorsx.NewFieldError(ctx.RecordName, f.Name, errorsx.RuleMinOccurs, map[string]any{
			"minOccurs": f.MinOccurs,
			"actual":    count,
		}))
		anyInvalid = true
	}

	if anyInvalid {
		return Invalid
	}
	return OK(values)
}

func (f *FieldDef) pad(text string) string {
	width := 0
	if f.MaxLength != nil {
		width = *f.MaxLength
	}
	if width <= len(text) {
		return text
	}
	padChar := f.PadChar
	if padChar == 0 {
		padChar = ' '
	}
	padding := strings.Repeat(string(padChar), width-len(text))
	if f.Justify == JustifyRight {
		return padding + text
	}
	return text + padding
}

func (f *FieldDef) formatOne(value any) (string, error) {
	if f.Literal != "" {
		return f.pad(f.Literal), nil
	}
	text, err := f.handler().Format(value)
	if err != nil {
		return "", err
	}
	return f.pad(text), nil
}

// Format formats this field back to text: a literal is always emitted;
// otherwise the configured handler formats the value, padding to
// MaxLength. Collection fields emit between MinOccurs and MaxOccurs
// tokens, padding short collections with empty tokens.
func (f *FieldDef) Format(value any) ([]string, error) {
	if f.Collection == CollectionNone {
		text, err := f.formatOne(value)
		if err != nil {
			return nil, err
		}
		return []string{text}, nil
	}

	items := toSlice(value)
	out := make([]string, 0, len(items))
	for _, v := range items {
		text, err := f.formatOne(v)
		if err != nil {
			return nil, err
		}
		out = append(out, text)
	}
	for len(out) < f.MinOccurs {
		out = append(out, "")
	}
	if f.MaxOccurs != Unbounded && len(out) > f.MaxOccurs {
		out = out[:f.MaxOccurs]
	}
	return out, nil
}

func toSlice(value any) []any {
	switch v := value.(type) {
	case nil:
		return nil
	case []any:
		return v
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out
	default:
		return []any{v}
	}
}

// MatchesText reports whether this field's configured literal and
// regex (when present) both accept the token at its position in
// tokens. Non-identifier fields always match.
func (f *FieldDef) MatchesText(tokens []string) bool {
	if !f.Identifier {
		return true
	}
	text, ok := extractToken(tokens, f.Position)
	if !ok {
		return false
	}
	if f.Trim {
		text = strings.TrimSpace(text)
	}
	if f.Literal != "" && text != f.Literal {
		return false
	}
	if f.Regex != nil && !f.Regex.MatchString(text) {
		return false
	}
	return true
}

// MatchesValue reports whether formatting the bean's bound value
// through the configured handler yields text that satisfies the same
// literal/regex check as MatchesText. Non-identifier fields always
// match.
func (f *FieldDef) MatchesValue(bean any) bool {
	if !f.Identifier {
		return true
	}
	if f.Accessor == nil {
		return false
	}
	val, err := f.Accessor.Get(bean)
	if err != nil {
		return false
	}
	text, err := f.handler().Format(val)
	if err != nil {
		return false
	}
	if f.Trim {
		text = strings.TrimSpace(text)
	}
	if f.Literal != "" && text != f.Literal {
		return false
	}
	if f.Regex != nil && !f.Regex.MatchString(text) {
		return false
	}
	return true
}
