package beanio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tommysiu/beanio/binding"
	"github.com/tommysiu/beanio/formats/delimited"
	"github.com/tommysiu/beanio/mapping"
)

type personBean struct {
	RecordType string `beanio:"recordType"`
	Name       string `beanio:"name"`
	Age        int64  `beanio:"age"`
}

func personBeanTree() *mapping.GroupDef {
	return &mapping.GroupDef{
		Name: "file",
		Children: []mapping.Node{
			&mapping.RecordDef{
				Name: "person", MinOccurs: 1, MaxOccurs: mapping.Unbounded,
				New: func() any { return &personBean{} },
				Fields: []*mapping.FieldDef{
					{Name: "recordType", Position: 0, Identifier: true, Literal: "P", Accessor: binding.NewStructAccessor("recordType")},
					{Name: "name", Position: 1, Accessor: binding.NewStructAccessor("name")},
					{Name: "age", Position: 2, Handler: mapping.NumberHandler{}, Accessor: binding.NewStructAccessor("age")},
				},
			},
		},
	}
}

func TestWriter_FormatsMatchingBean(t *testing.T) {
	var buf bytes.Buffer
	dst := delimited.NewWriter(&buf, ',')
	w := NewWriter(personBeanTree(), dst)

	require.NoError(t, w.Write(&personBean{RecordType: "P", Name: "Ada", Age: 36}))
	require.NoError(t, w.Close())

	assert.Equal(t, "P,Ada,36\n", buf.String())
}

func TestWriter_NoMatchingRecordFails(t *testing.T) {
	var buf bytes.Buffer
	dst := delimited.NewWriter(&buf, ',')
	w := NewWriter(personBeanTree(), dst)

	err := w.Write(&personBean{RecordType: "Q", Name: "Ada", Age: 36})
	assert.Error(t, err)
}

func TestReaderWriter_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	dst := delimited.NewWriter(&buf, ',')
	w := NewWriter(personBeanTree(), dst)
	require.NoError(t, w.Write(&personBean{RecordType: "P", Name: "Grace", Age: 40}))
	require.NoError(t, w.Close())

	src := delimited.NewReader(strings.NewReader(buf.String()), ',')
	r := NewReader(personBeanTree(), src)
	bean, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, &personBean{RecordType: "P", Name: "Grace", Age: 40}, bean)
}
