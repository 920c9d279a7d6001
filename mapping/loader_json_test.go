package mapping

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMappingJSON = `
{
  "root": {
    "kind": "group",
    "name": "file",
    "children": [
      {
        "kind": "record",
        "name": "person",
        "fields": [
          {"name": "recordType", "position": 0, "identifier": true, "literal": "P"},
          {"name": "name", "position": 1, "property": "fullName"},
          {"name": "age", "position": 2, "type": "int"}
        ]
      }
    ]
  },
  "properties": {"locale": "en_US"}
}
`

func TestLoadJSON_BuildsValidatedTree(t *testing.T) {
	registry := NewHandlerRegistry()
	RegisterBuiltins(registry)

	root, err := LoadJSON(strings.NewReader(sampleMappingJSON), registry, nil)
	require.NoError(t, err)
	require.Len(t, root.Children, 1)
	assert.Equal(t, "en_US", root.Properties["locale"])

	record := root.Children[0].(*RecordDef)
	assert.Equal(t, "name", record.Fields[1].Name)
}

func TestFieldConfig_UnmarshalJSON_MissingPropertyIsTolerated(t *testing.T) {
	var fc FieldConfig
	err := fc.UnmarshalJSON([]byte(`{"name": "age", "position": 2}`))
	require.NoError(t, err)
	assert.Equal(t, "age", fc.Name)
	assert.Equal(t, "", fc.Property)
}

func TestFieldConfig_UnmarshalJSON_MissingNameFails(t *testing.T) {
	var fc FieldConfig
	err := fc.UnmarshalJSON([]byte(`{"position": 2}`))
	assert.Error(t, err)
}

func TestFieldConfig_UnmarshalJSON_PropertyOverridesFieldName(t *testing.T) {
	var fc FieldConfig
	err := fc.UnmarshalJSON([]byte(`{"name": "name", "position": 1, "property": "fullName"}`))
	require.NoError(t, err)
	assert.Equal(t, "fullName", fc.Property)
}
