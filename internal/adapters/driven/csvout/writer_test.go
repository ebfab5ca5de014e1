package csvout

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bmeconv/internal/core/domain"
)

func TestEncode_DictWriterLayout(t *testing.T) {
	table := domain.Table{
		Header: []string{"a", "b"},
		Rows:   []domain.FlatRow{{"a": "1", "b": "2"}, {"a": "3"}},
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, table))
	assert.Equal(t, "a,b\r\n1,2\r\n3,\r\n", buf.String())
}

func TestEncode_Quoting(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected string
	}{
		{"plain", "Hammer", "Hammer"},
		{"comma", "1,5 kg", `"1,5 kg"`},
		{"quote", `5" nail`, `"5"" nail"`},
		{"newline kept as is", "line1\nline2", "\"line1\nline2\""},
		{"carriage return", "a\rb", "\"a\rb\""},
		{"leading space not quoted", " x", " x"},
		{"backslash dot not quoted", `\.`, `\.`},
		{"semicolon", "a;b", "a;b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			table := domain.Table{Header: []string{"v", "w"}, Rows: []domain.FlatRow{{"v": tt.value, "w": "x"}}}
			require.NoError(t, Encode(&buf, table))
			assert.Equal(t, "v,w\r\n"+tt.expected+",x\r\n", buf.String())
		})
	}
}

func TestEncode_SingleEmptyField(t *testing.T) {
	table := domain.Table{Header: []string{"a"}, Rows: []domain.FlatRow{{"a": "1"}, {}}}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, table))
	assert.Equal(t, "a\r\n1\r\n\"\"\r\n", buf.String())
}

func TestWriter_Write(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	table := domain.Table{Header: []string{"name"}, Rows: []domain.FlatRow{{"name": "Müller"}}}

	require.NoError(t, New().Write(path, table))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "name\r\nMüller\r\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file is renamed away")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}

func TestWriter_WriteIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	table := domain.Table{
		Header: []string{"a", "b"},
		Rows:   []domain.FlatRow{{"a": "1", "b": "2"}, {"b": "3"}},
	}

	require.NoError(t, New().Write(path, table))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, New().Write(path, table))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestWriter_MissingDirectory(t *testing.T) {
	err := New().Write(filepath.Join(t.TempDir(), "nope", "out.csv"), domain.Table{Header: []string{"a"}})
	assert.ErrorIs(t, err, domain.ErrIO)
}
