package watch_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/agenthands/minitri/pkg/watch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExistingAndMatches(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	for _, name := range []string{"a.mt", "b.txt", "sub/c.mt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	w, err := watch.New("*.mt", time.Millisecond, nil, func([]string) {})
	require.NoError(t, err)
	defer w.Close()

	files, err := w.Existing(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.mt"), filepath.Join(dir, "sub", "c.mt")}, files)

	assert.True(t, w.Matches("/x/y/prog.mt"))
	assert.False(t, w.Matches("/x/y/prog.mt.bak"))
}

func TestBadPattern(t *testing.T) {
	_, err := watch.New("[a", time.Millisecond, nil, nil)
	assert.Error(t, err)
}

func TestWatchDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "prog.mt")
	require.NoError(t, os.WriteFile(target, []byte("let var x: Integer in x := 1"), 0o644))

	var mu sync.Mutex
	var batches [][]string
	w, err := watch.New("*.mt", 50*time.Millisecond, nil, func(paths []string) {
		mu.Lock()
		defer mu.Unlock()
		batches = append(batches, paths)
	})
	require.NoError(t, err)
	require.NoError(t, w.Watch(dir))
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0o644))
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(target, []byte("let var x: Integer in x := 2"), 0o644))
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(batches) > 0
	}, 5*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	for _, b := range batches {
		assert.Equal(t, []string{target}, b)
	}
}
