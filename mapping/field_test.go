package mapping

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tommysiu/beanio/binding"
	"github.com/tommysiu/beanio/recctx"
)

func newCtx(tokens ...string) *recctx.Context {
	return recctx.New(1, "", tokens)
}

func TestFieldDef_Parse_RequiredMissing(t *testing.T) {
	f := &FieldDef{Name: "id", Position: 0, Required: true}
	ctx := newCtx()
	res := f.Parse(ctx, nil)
	assert.Equal(t, StatusInvalid, res.Status)
	require.Len(t, ctx.FieldErrors(), 1)
	assert.Equal(t, "required", string(ctx.FieldErrors()[0].Rule))
}

func TestFieldDef_Parse_OptionalMissingWithDefault(t *testing.T) {
	f := &FieldDef{Name: "flag", Position: 0, HasDefault: true, Default: "N"}
	ctx := newCtx()
	res := f.Parse(ctx, nil)
	assert.Equal(t, StatusOK, res.Status)
	assert.Equal(t, "N", res.Value)
}

func TestFieldDef_Parse_LiteralAndRegexBothEnforced(t *testing.T) {
	f := &FieldDef{Name: "code", Position: 0, Literal: "AB", Regex: regexp.MustCompile(`^A`)}
	ctx := newCtx("XY")
	res := f.Parse(ctx, []string{"XY"})
	assert.Equal(t, StatusInvalid, res.Status)
	// Both the literal mismatch and the regex mismatch are reported.
	require.Len(t, ctx.FieldErrors(), 2)
}

func TestFieldDef_Parse_TrimAndHandler(t *testing.T) {
	f := &FieldDef{Name: "qty", Position: 0, Trim: true, Handler: intHandler{}}
	ctx := newCtx(" 42 ")
	res := f.Parse(ctx, []string{" 42 "})
	require.Equal(t, StatusOK, res.Status)
	assert.Equal(t, int64(42), res.Value)
}

func TestFieldDef_Parse_Collection_OrderedSetDedups(t *testing.T) {
	f := &FieldDef{
		Name: "tags", Position: 0, Collection: CollectionOrderedSet,
		MaxOccurs: Unbounded, Handler: identityHandler{},
	}
	ctx := newCtx()
	tokens := []string{"a", "b", "a", "c"}
	res := f.Parse(ctx, tokens)
	require.Equal(t, StatusOK, res.Status)
	assert.Equal(t, []any{"a", "b", "c"}, res.Value)
}

func TestFieldDef_Parse_Collection_MinOccursViolation(t *testing.T) {
	f := &FieldDef{Name: "tags", Position: 0, Collection: CollectionSlice, MinOccurs: 2, MaxOccurs: Unbounded}
	ctx := newCtx()
	res := f.Parse(ctx, []string{"only-one"})
	assert.Equal(t, StatusInvalid, res.Status)
}

func TestFieldDef_Format_LiteralWinsOverValue(t *testing.T) {
	f := &FieldDef{Name: "recType", Literal: "H"}
	out, err := f.Format("ignored")
	require.NoError(t, err)
	assert.Equal(t, []string{"H"}, out)
}

func TestFieldDef_Format_PadsToMaxLength(t *testing.T) {
	ml := 5
	f := &FieldDef{Name: "name", MaxLength: &ml, Justify: JustifyLeft, Handler: identityHandler{}}
	out, err := f.Format("ab")
	require.NoError(t, err)
	assert.Equal(t, []string{"ab   "}, out)
}

func TestFieldDef_Format_RightJustifyNumeric(t *testing.T) {
	ml := 5
	f := &FieldDef{Name: "amount", MaxLength: &ml, Justify: JustifyRight, PadChar: '0', Handler: intHandler{}}
	out, err := f.Format(int64(42))
	require.NoError(t, err)
	assert.Equal(t, []string{"00042"}, out)
}

func TestFieldDef_MatchesText(t *testing.T) {
	f := &FieldDef{Name: "type", Position: 0, Identifier: true, Literal: "H"}
	assert.True(t, f.MatchesText([]string{"H", "x"}))
	assert.False(t, f.MatchesText([]string{"D", "x"}))
}

func TestFieldDef_MatchesValue(t *testing.T) {
	type bean struct {
		Type string `beanio:"type"`
	}
	f := &FieldDef{
		Name: "type", Identifier: true, Literal: "H",
		Handler: identityHandler{}, Accessor: binding.NewStructAccessor("type"),
	}
	assert.True(t, f.MatchesValue(&bean{Type: "H"}))
	assert.False(t, f.MatchesValue(&bean{Type: "D"}))
}
