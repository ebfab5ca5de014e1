package flatten

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bmeconv/internal/core/domain"
)

func el(tag, text string, children ...*domain.Element) *domain.Element {
	return &domain.Element{Tag: tag, Text: text, Children: children}
}

func TestFlatten_RoundTrip(t *testing.T) {
	tree := &domain.NormalizedTree{Root: el("catalog", "",
		el("item", "", el("a", "1"), el("b", "2")),
		el("item", "", el("a", "3")),
	)}

	table, err := New().Flatten(tree)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, table.Header)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, domain.FlatRow{"a": "1", "b": "2"}, table.Rows[0])
	assert.Equal(t, domain.FlatRow{"a": "3"}, table.Rows[1])
	assert.Equal(t, []string{"3", ""}, table.Record(1))
}

func TestFlatten_TrimsAndEmptyText(t *testing.T) {
	tree := &domain.NormalizedTree{Root: el("shop", "",
		el("SHOPITEM", "", el("NAME", "\n  Hammer  \n"), el("EAN", ""), el("PARAMS", "  ", el("PARAM", "x"))),
	)}

	table, err := New().Flatten(tree)
	require.NoError(t, err)
	assert.Equal(t, []string{"EAN", "NAME", "PARAMS"}, table.Header)
	assert.Equal(t, domain.FlatRow{"NAME": "Hammer", "EAN": "", "PARAMS": ""}, table.Rows[0])
}

func TestFlatten_DocumentOrderAndNesting(t *testing.T) {
	tree := &domain.NormalizedTree{Root: el("root", "",
		el("group", "",
			el("PRODUCT", "", el("id", "1"), el("PRODUCT", "", el("id", "2"))),
		),
		el("item", "", el("id", "3")),
	)}

	table, err := New().Flatten(tree)
	require.NoError(t, err)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, "1", table.Rows[0]["id"])
	assert.Equal(t, "", table.Rows[0]["PRODUCT"], "nested product is also a field of its parent")
	assert.Equal(t, "2", table.Rows[1]["id"])
	assert.Equal(t, "3", table.Rows[2]["id"])
}

func TestFlatten_RootIsNotAMatch(t *testing.T) {
	tree := &domain.NormalizedTree{Root: el("item", "", el("a", "1"))}

	_, err := New().Flatten(tree)
	assert.ErrorIs(t, err, domain.ErrNoMatchingElements)
}

func TestFlatten_CaseSensitive(t *testing.T) {
	tree := &domain.NormalizedTree{Root: el("root", "", el("Item", "", el("a", "1")), el("product", ""))}

	_, err := New().Flatten(tree)
	assert.ErrorIs(t, err, domain.ErrNoMatchingElements)
}

func TestFlatten_DuplicateChildLastWins(t *testing.T) {
	tree := &domain.NormalizedTree{Root: el("root", "", el("item", "", el("img", "a.png"), el("img", "b.png")))}

	table, err := New().Flatten(tree)
	require.NoError(t, err)
	assert.Equal(t, "b.png", table.Rows[0]["img"])
	assert.Equal(t, []string{"img"}, table.Header)
}

func TestFlatten_CustomTags(t *testing.T) {
	f := New("offer")
	assert.Equal(t, []string{"offer"}, f.Tags())

	tree := &domain.NormalizedTree{Root: el("root", "", el("offer", "", el("price", "5")), el("item", "", el("x", "y")))}
	table, err := f.Flatten(tree)
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{"price"}, table.Header)
}

func TestFlatten_NilTree(t *testing.T) {
	_, err := New().Flatten(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNew_DefaultTags(t *testing.T) {
	assert.Equal(t, []string{"PRODUCT", "SHOPITEM", "item"}, New().Tags())
}
