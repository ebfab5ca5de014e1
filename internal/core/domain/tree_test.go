package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree() *Element {
	return &Element{
		Tag: "root",
		Children: []*Element{
			{Tag: "a", Attrs: []Attr{{Name: "id", Value: "1"}}, Children: []*Element{{Tag: "b"}}},
			{Tag: "c"},
		},
	}
}

func TestElement_Attr(t *testing.T) {
	root := sampleTree()
	v, ok := root.Children[0].Attr("id")
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	_, ok = root.Children[0].Attr("missing")
	assert.False(t, ok)
}

func TestElement_Child(t *testing.T) {
	root := sampleTree()
	c, ok := root.Child("c")
	require.True(t, ok)
	assert.Equal(t, "c", c.Tag)

	_, ok = root.Child("b")
	assert.False(t, ok, "Child only looks at immediate children")
}

func TestElement_Descendants(t *testing.T) {
	root := sampleTree()

	var seen []string
	root.Descendants(func(e *Element) bool {
		seen = append(seen, e.Tag)
		return true
	})
	assert.Equal(t, []string{"a", "b", "c"}, seen)

	seen = nil
	root.Descendants(func(e *Element) bool {
		seen = append(seen, e.Tag)
		return e.Tag != "a"
	})
	assert.Equal(t, []string{"a", "c"}, seen)
}

func TestTable_Record(t *testing.T) {
	table := Table{
		Header: []string{"a", "b"},
		Rows:   []FlatRow{{"a": "1", "b": "2"}, {"a": "3"}},
	}
	assert.Equal(t, []string{"1", "2"}, table.Record(0))
	assert.Equal(t, []string{"3", ""}, table.Record(1))
}

func TestResolvedEncoding_Declared(t *testing.T) {
	assert.False(t, ResolvedEncoding{Name: "utf-8", Trial: "utf-8"}.Declared())
	assert.False(t, ResolvedEncoding{Name: "utf-8", Trial: "utf-8", Prolog: &PrologInfo{Version: "1.0"}}.Declared())
	assert.True(t, ResolvedEncoding{
		Name:   "windows-1252",
		Trial:  "utf-8",
		Prolog: &PrologInfo{Version: "1.0", DeclaredEncoding: "windows-1252"},
	}.Declared())
}

func TestDialectVerdict_Dialect(t *testing.T) {
	assert.Equal(t, "bmecat", DialectVerdict{IsCatalog: true}.Dialect())
	assert.Equal(t, "generic", DialectVerdict{HasDoctype: true}.Dialect())
}
