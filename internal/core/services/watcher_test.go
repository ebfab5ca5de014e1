package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bmeconv/internal/core/domain"
)

func TestHandleFsEvent(t *testing.T) {
	tests := []struct {
		name string
		path string
		op   fsnotify.Op
		want bool
	}{
		{name: "create xml", path: "/drop/a.xml", op: fsnotify.Create, want: true},
		{name: "write xml", path: "/drop/a.xml", op: fsnotify.Write, want: true},
		{name: "upper case extension", path: "/drop/a.XML", op: fsnotify.Create, want: true},
		{name: "write and chmod", path: "/drop/a.xml", op: fsnotify.Write | fsnotify.Chmod, want: true},
		{name: "remove", path: "/drop/a.xml", op: fsnotify.Remove, want: false},
		{name: "rename", path: "/drop/a.xml", op: fsnotify.Rename, want: false},
		{name: "chmod only", path: "/drop/a.xml", op: fsnotify.Chmod, want: false},
		{name: "hidden", path: "/drop/.a.xml", op: fsnotify.Create, want: false},
		{name: "not xml", path: "/drop/a.csv", op: fsnotify.Create, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, ok := handleFsEvent(fsnotify.Event{Name: tt.path, Op: tt.op})
			assert.Equal(t, tt.want, ok)
			if tt.want {
				assert.Equal(t, tt.path, path)
			}
		})
	}
}

func TestIsHidden(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{".hidden", true},
		{"path/to/.hidden.xml", true},
		{"file.xml", false},
		{"path/to/file.xml", false},
		{".", false},
		{"..", false},
		{"", false},
		{"file.hidden", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, isHidden(tt.path))
		})
	}
}

func TestSettled(t *testing.T) {
	now := time.Now()
	pending := map[string]time.Time{
		"b.xml": now.Add(-time.Second),
		"a.xml": now.Add(-time.Second),
		"c.xml": now,
	}

	assert.Equal(t, []string{"a.xml", "b.xml"}, settled(pending, now, 500*time.Millisecond))
	assert.Empty(t, settled(map[string]time.Time{}, now, time.Millisecond))
}

func TestDirWatcher_NotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file.xml")
	require.NoError(t, os.WriteFile(file, []byte("<a/>"), 0644))
	w := NewDirWatcher(nil, 0, nil)

	err := w.Watch(context.Background(), file)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	err = w.Watch(context.Background(), filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, domain.ErrIO)
}

func TestDirWatcher_ConvertsDroppedFile(t *testing.T) {
	f := newFixture(t)
	drop := filepath.Join(f.dir, "drop")
	require.NoError(t, os.Mkdir(drop, 0755))

	results := make(chan *domain.Result, 4)
	w := NewDirWatcher(f.converter(), 50*time.Millisecond, f.log)
	w.converted = func(r *domain.Result) { results <- r }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx, drop) }()

	go func() {
		time.Sleep(100 * time.Millisecond)
		_ = os.WriteFile(filepath.Join(drop, "ignored.txt"), []byte("x"), 0644)
		_ = os.WriteFile(filepath.Join(drop, "shop.xml"), []byte(genericDoc), 0644)
	}()

	select {
	case r := <-results:
		assert.True(t, r.OK())
		assert.Equal(t, "shop", r.BaseName)
		assert.FileExists(t, filepath.Join(f.out, "shop.csv"))
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for conversion")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
	assert.Empty(t, results)
}
