package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_DebouncesChanges(t *testing.T) {
	dir := t.TempDir()
	answers := filepath.Join(dir, "answers.yaml")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(answers, []byte("project_name: a\n"), 0o644))

	w, err := New([]string{answers}, 50*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes := make(chan string, 8)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(_ context.Context, path string) error {
			changes <- path
			return nil
		})
	}()

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(other, []byte("x"), 0o644))
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(answers, []byte("project_name: b\n"), 0o644))
	}

	select {
	case p := <-changes:
		assert.Equal(t, answers, p)
	case <-time.After(5 * time.Second):
		t.Fatal("no change delivered")
	}

	// The burst above collapses into a single run.
	select {
	case p := <-changes:
		t.Fatalf("unexpected second change for %s", p)
	case <-time.After(300 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestNew_MissingDirectory(t *testing.T) {
	_, err := New([]string{filepath.Join(t.TempDir(), "nope", "answers.yaml")}, 0)
	assert.Error(t, err)
}
