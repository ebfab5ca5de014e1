package xmltree

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/custodia-labs/bmeconv/internal/core/domain"
	"github.com/custodia-labs/bmeconv/internal/detect"
)

var utf8Enc = domain.ResolvedEncoding{Name: detect.UTF8, Trial: detect.UTF8}

func TestParse_StripsNamespaces(t *testing.T) {
	doc := `<?xml version="1.0"?>
<feed xmlns="http://example.com/ns" xmlns:g="http://example.com/g">
  <item><g:price currency="EUR">10</g:price><title> Bolt </title></item>
</feed>`

	tree, err := New().ParseBytes([]byte(doc), utf8Enc, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, tree.Root)

	assert.Equal(t, "feed", tree.Root.Tag)
	assert.Empty(t, tree.Root.Attrs, "namespace declarations are not attributes")

	item := tree.Root.Children[0]
	assert.Equal(t, "item", item.Tag)
	require.Len(t, item.Children, 2)
	assert.Equal(t, "price", item.Children[0].Tag)
	assert.Equal(t, "10", item.Children[0].Text)
	currency, ok := item.Children[0].Attr("currency")
	assert.True(t, ok)
	assert.Equal(t, "EUR", currency)
	assert.Equal(t, " Bolt ", item.Children[1].Text)

	assert.Equal(t, []string{"http://example.com/ns", "http://example.com/g"}, tree.Namespaces)
	assert.Equal(t, "http://example.com/ns", tree.Namespace, "last element visited is in the default namespace")
}

func TestParse_SingleNamespaceRecordedOnce(t *testing.T) {
	doc := `<ns:root xmlns:ns="http://example.com/ns"><ns:item><ns:a>1</ns:a></ns:item></ns:root>`

	tree, err := New().ParseBytes([]byte(doc), utf8Enc, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/ns", tree.Namespace)
	assert.Equal(t, []string{"http://example.com/ns"}, tree.Namespaces)
	assert.Equal(t, "item", tree.Root.Children[0].Tag)
	assert.Equal(t, "a", tree.Root.Children[0].Children[0].Tag)
}

func TestParse_NoNamespace(t *testing.T) {
	tree, err := New().ParseBytes([]byte(`<root><a/></root>`), utf8Enc, zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, tree.Namespace)
	assert.Empty(t, tree.Namespaces)
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"mismatched tags", "<root>\n<a></b>\n</root>"},
		{"unclosed root", "<root><a>1</a>"},
		{"empty document", ""},
		{"text only", "just text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().ParseBytes([]byte(tt.content), utf8Enc, zap.NewNop())
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrMalformedXML)
		})
	}
}

func TestParse_MalformedKeepsLine(t *testing.T) {
	_, err := New().ParseBytes([]byte("<root>\n<a>\n</b>\n</root>"), utf8Enc, zap.NewNop())
	require.Error(t, err)

	var mx *domain.MalformedXMLError
	require.ErrorAs(t, err, &mx)
	assert.Equal(t, 3, mx.Line)
}

func TestParse_InvalidUTF8(t *testing.T) {
	_, err := New().ParseBytes([]byte("<root>\xff</root>"), utf8Enc, zap.NewNop())
	assert.ErrorIs(t, err, domain.ErrMalformedXML)
}

func TestParse_TranscodesDeclaredEncoding(t *testing.T) {
	doc := []byte("<?xml version=\"1.0\" encoding=\"windows-1252\"?><items><item><name>Caf\xe9 \x80</name></item></items>")
	enc := domain.ResolvedEncoding{Name: "windows-1252", Trial: detect.Windows1252}

	tree, err := New().ParseBytes(doc, enc, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "Café €", tree.Root.Children[0].Children[0].Text)
}

func TestParse_UTF16(t *testing.T) {
	text := `<?xml version="1.0" encoding="UTF-16"?><root><a>ü</a></root>`
	doc := []byte{0xFF, 0xFE}
	for _, r := range text {
		doc = append(doc, byte(r), byte(r>>8))
	}

	tree, err := New().ParseBytes(doc, domain.ResolvedEncoding{Name: "UTF-16", Trial: detect.UTF16}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "ü", tree.Root.Children[0].Text)
}

func TestParse_UTF8BOM(t *testing.T) {
	tree, err := New().ParseBytes([]byte("\xef\xbb\xbf<root/>"), utf8Enc, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "root", tree.Root.Tag)
}

func TestParse_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.xml")
	require.NoError(t, os.WriteFile(path, []byte(`<root><item/></root>`), 0644))

	tree, err := New().Parse(path, utf8Enc, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "root", tree.Root.Tag)

	_, err = New().Parse(filepath.Join(t.TempDir(), "missing.xml"), utf8Enc, zap.NewNop())
	assert.ErrorIs(t, err, domain.ErrIO)
}
