package profile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const watcherTestTimeout = 5 * time.Second

func TestWatcher_StartLoadsProfiles(t *testing.T) {
	t.Parallel()

	path := writeProfileFile(t, "profiles:\n  - name: fast\n    attempts: 5\n")

	w, err := NewWatcher(path, nil, WithDebounceDelay(10*time.Millisecond))
	require.NoError(t, err)

	require.NoError(t, w.Start(context.Background()))
	defer func() { _ = w.Stop() }()

	f := w.Last()
	require.NotNil(t, f)
	_, ok := f.Lookup("fast")
	assert.True(t, ok)
}

func TestWatcher_StartFailsOnInvalidFile(t *testing.T) {
	t.Parallel()

	path := writeProfileFile(t, "profiles:\n  - attempts: 3\n")

	w, err := NewWatcher(path, nil)
	require.NoError(t, err)

	assert.Error(t, w.Start(context.Background()))
}

func TestWatcher_ReloadOnChange(t *testing.T) {
	t.Parallel()

	path := writeProfileFile(t, "profiles:\n  - name: fast\n    attempts: 5\n")

	reloaded := make(chan *File, 1)
	w, err := NewWatcher(path, func(f *File) {
		select {
		case reloaded <- f:
		default:
		}
	}, WithDebounceDelay(10*time.Millisecond))
	require.NoError(t, err)

	require.NoError(t, w.Start(context.Background()))
	defer func() { _ = w.Stop() }()

	require.NoError(t, os.WriteFile(path,
		[]byte("profiles:\n  - name: fast\n    attempts: 9\n"), 0o600))

	select {
	case f := <-reloaded:
		p, ok := f.Lookup("fast")
		require.True(t, ok)
		assert.Equal(t, 9, p.Attempts)
	case <-time.After(watcherTestTimeout):
		t.Fatal("timed out waiting for reload callback")
	}
}

func TestWatcher_ErrorCallbackOnBadReload(t *testing.T) {
	t.Parallel()

	path := writeProfileFile(t, "profiles:\n  - name: fast\n")

	errCh := make(chan error, 1)
	w, err := NewWatcher(path, nil,
		WithDebounceDelay(10*time.Millisecond),
		WithErrorCallback(func(err error) {
			select {
			case errCh <- err:
			default:
			}
		}),
	)
	require.NoError(t, err)

	require.NoError(t, w.Start(context.Background()))
	defer func() { _ = w.Stop() }()

	require.NoError(t, os.WriteFile(path, []byte("profiles: [broken"), 0o600))

	select {
	case err := <-errCh:
		assert.Error(t, err)
	case <-time.After(watcherTestTimeout):
		t.Fatal("timed out waiting for error callback")
	}

	// The last good profiles must survive a failed reload.
	f := w.Last()
	require.NotNil(t, f)
	_, ok := f.Lookup("fast")
	assert.True(t, ok)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte("profiles:\n  - name: fast\n"), 0o600))

	reloaded := make(chan *File, 1)
	w, err := NewWatcher(path, func(f *File) {
		select {
		case reloaded <- f:
		default:
		}
	}, WithDebounceDelay(10*time.Millisecond))
	require.NoError(t, err)

	require.NoError(t, w.Start(context.Background()))
	defer func() { _ = w.Stop() }()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1\n"), 0o600))

	select {
	case <-reloaded:
		t.Fatal("unexpected reload for an unrelated file")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_StartRetryAfterFailedStart(t *testing.T) {
	t.Parallel()

	path := writeProfileFile(t, "profiles: [broken")

	w, err := NewWatcher(path, nil, WithDebounceDelay(10*time.Millisecond))
	require.NoError(t, err)

	require.Error(t, w.Start(context.Background()))

	// A failed Start must leave the watcher stopped, so fixing the file
	// and starting again has to work.
	require.NoError(t, os.WriteFile(path,
		[]byte("profiles:\n  - name: fast\n    attempts: 5\n"), 0o600))

	require.NoError(t, w.Start(context.Background()))
	defer func() { _ = w.Stop() }()

	f := w.Last()
	require.NotNil(t, f, "retried Start must load the profiles")
	_, ok := f.Lookup("fast")
	assert.True(t, ok)
}

func TestWatcher_StopAfterFailedStart(t *testing.T) {
	t.Parallel()

	path := writeProfileFile(t, "profiles: [broken")

	w, err := NewWatcher(path, nil)
	require.NoError(t, err)

	require.Error(t, w.Start(context.Background()))

	// Stop must return promptly: no watch goroutine ever ran, so there
	// is nothing to wait for.
	done := make(chan error, 1)
	go func() { done <- w.Stop() }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(watcherTestTimeout):
		t.Fatal("Stop blocked after a failed Start")
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	t.Parallel()

	path := writeProfileFile(t, "profiles:\n  - name: fast\n")

	w, err := NewWatcher(path, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}
