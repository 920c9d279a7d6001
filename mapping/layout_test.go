package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func idField(name, literal string) *FieldDef {
	return &FieldDef{Name: name, Position: 0, Identifier: true, Literal: literal, Handler: identityHandler{}}
}

// batch: header(1) -> detail(1..unbounded) -> trailer(1)
func batchGroup() *GroupDef {
	return &GroupDef{
		Name: "batch", MinOccurs: 1, MaxOccurs: 1,
		Children: []Node{
			&RecordDef{Name: "header", Order: 0, MinOccurs: 1, MaxOccurs: 1, Fields: []*FieldDef{idField("type", "H")}},
			&RecordDef{Name: "detail", Order: 1, MinOccurs: 1, MaxOccurs: Unbounded, Fields: []*FieldDef{idField("type", "D")}},
			&RecordDef{Name: "trailer", Order: 2, MinOccurs: 1, MaxOccurs: 1, Fields: []*FieldDef{idField("type", "T")}},
		},
	}
}

func TestLayout_MatchNext_HappyPath(t *testing.T) {
	layout := NewLayout(batchGroup())

	leaf, err := layout.MatchNext([]string{"H"})
	require.NoError(t, err)
	require.NotNil(t, leaf)
	assert.Equal(t, "header", NodeName(leaf.Def))

	leaf, err = layout.MatchNext([]string{"D"})
	require.NoError(t, err)
	assert.Equal(t, "detail", NodeName(leaf.Def))

	leaf, err = layout.MatchNext([]string{"D"})
	require.NoError(t, err)
	assert.Equal(t, "detail", NodeName(leaf.Def))

	leaf, err = layout.MatchNext([]string{"T"})
	require.NoError(t, err)
	assert.Equal(t, "trailer", NodeName(leaf.Def))

	assert.Nil(t, layout.Close())
}

func TestLayout_MatchNext_SequenceViolation(t *testing.T) {
	layout := NewLayout(batchGroup())
	// trailer before header/detail satisfied: header cohort has min 1 but
	// current 0, and the trailer record itself can't be entered because
	// its own cohort isn't reached yet in a single matchNext walk; the
	// immediate record returned is nil (no identified node for "T" yet).
	leaf, err := layout.MatchNext([]string{"T"})
	require.NoError(t, err)
	assert.Nil(t, leaf)
}

func TestLayout_Close_ReportsUnmetMinimum(t *testing.T) {
	layout := NewLayout(batchGroup())
	_, err := layout.MatchNext([]string{"H"})
	require.NoError(t, err)
	// detail and trailer still below their minimum of 1.
	missing := layout.Close()
	require.NotNil(t, missing)
	assert.Equal(t, "detail", NodeName(missing.Def))
}

func TestLayout_MatchAny_FindsUnexpectedVsUnidentified(t *testing.T) {
	layout := NewLayout(batchGroup())
	found := layout.MatchAny([]string{"D"})
	require.NotNil(t, found)
	assert.Equal(t, "detail", NodeName(found.Def))

	assert.Nil(t, layout.MatchAny([]string{"X"}))
}

func TestLayout_TieBreak_IdentifierRecordsFirst(t *testing.T) {
	group := &GroupDef{
		Name: "cohort",
		Children: []Node{
			&RecordDef{Name: "anon", Order: 0, MinOccurs: 0, MaxOccurs: 1},
			&RecordDef{Name: "ided", Order: 0, MinOccurs: 0, MaxOccurs: 1, Fields: []*FieldDef{idField("type", "I")}},
		},
	}
	layout := NewLayout(group)
	leaf, err := layout.MatchNext([]string{"I"})
	require.NoError(t, err)
	require.NotNil(t, leaf)
	assert.Equal(t, "ided", NodeName(leaf.Def))
}

func TestLayout_RepeatingGroup_ResetsForNewIteration(t *testing.T) {
	outer := &GroupDef{
		Name: "outer", MinOccurs: 1, MaxOccurs: Unbounded,
		Children: []Node{batchGroup()},
	}
	layout := NewLayout(outer)

	for _, tok := range []string{"H", "D", "T"} {
		leaf, err := layout.MatchNext([]string{tok})
		require.NoError(t, err)
		require.NotNilf(t, leaf, "token %q", tok)
	}
	// A second full batch should be admitted via a fresh iteration.
	leaf, err := layout.MatchNext([]string{"H"})
	require.NoError(t, err)
	require.NotNil(t, leaf)
	assert.Equal(t, "header", NodeName(leaf.Def))
}
