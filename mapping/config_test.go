package mapping

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMapping = `
root:
  kind: group
  name: file
  children:
    - kind: record
      name: header
      order: 0
      fields:
        - {name: type, position: 0, identifier: true, literal: H}
        - {name: batchId, position: 1, type: int}
    - kind: record
      name: detail
      order: 1
      minOccurs: 1
      maxOccurs: -1
      fields:
        - {name: type, position: 0, identifier: true, literal: D}
        - {name: amount, position: 1, type: number, decimalPlaces: 2}
properties:
  locale: en_US
  charset: UTF-8
`

func TestLoad_BuildsValidatedTree(t *testing.T) {
	registry := NewHandlerRegistry()
	RegisterBuiltins(registry)

	root, err := Load(strings.NewReader(sampleMapping), registry, nil)
	require.NoError(t, err)
	require.Len(t, root.Children, 2)

	header := root.Children[0].(*RecordDef)
	assert.Equal(t, "header", header.Name)
	assert.True(t, header.Matches([]string{"H", "100"}))

	detail := root.Children[1].(*RecordDef)
	assert.Equal(t, Unbounded, detail.MaxOccurs)

	assert.Equal(t, "en_US", root.Properties["locale"])
	assert.Equal(t, "UTF-8", root.Properties["charset"])
}

func TestLoad_UnknownKindFails(t *testing.T) {
	bad := `
root:
  kind: bogus
  name: file
`
	_, err := Load(strings.NewReader(bad), nil, nil)
	assert.Error(t, err)
}

func TestValidate_DuplicateFieldNameRejected(t *testing.T) {
	root := &GroupDef{
		Name: "file",
		Children: []Node{
			&RecordDef{
				Name: "r", MaxOccurs: 1,
				Fields: []*FieldDef{
					{Name: "a", Position: 0},
					{Name: "a", Position: 1},
				},
			},
		},
	}
	errs := Validate(root)
	require.NotEmpty(t, errs)
}

func TestValidate_OverlappingFieldPositionsRejected(t *testing.T) {
	root := &GroupDef{
		Name: "file",
		Children: []Node{
			&RecordDef{
				Name: "r", MaxOccurs: 1,
				Fields: []*FieldDef{
					{Name: "a", Position: 0},
					{Name: "b", Position: 0},
				},
			},
		},
	}
	errs := Validate(root)
	require.NotEmpty(t, errs)
}

func TestValidate_AnonymousRecordAsSoleCohortChildAllowed(t *testing.T) {
	root := &GroupDef{
		Name: "file",
		Children: []Node{
			&RecordDef{Name: "only", Order: 0, MaxOccurs: 1},
		},
	}
	errs := Validate(root)
	assert.Empty(t, errs)
}

func TestValidate_AnonymousRecordSharingCohortRejected(t *testing.T) {
	root := &GroupDef{
		Name: "file",
		Children: []Node{
			&RecordDef{Name: "a", Order: 0, MaxOccurs: 1},
			&RecordDef{Name: "b", Order: 0, MaxOccurs: 1, Fields: []*FieldDef{idField("type", "B")}},
		},
	}
	errs := Validate(root)
	require.NotEmpty(t, errs)
}
