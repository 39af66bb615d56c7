package lock

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NielsdaWheelz/wsgen/internal/errors"
)

func stubNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func stubPIDAlive(alive bool) func(int) bool {
	return func(int) bool { return alive }
}

func testLock(dir string, now time.Time, alive bool) TargetLock {
	return TargetLock{
		Dir:        filepath.Join(dir, ".wsgen"),
		StaleAfter: 2 * time.Hour,
		Now:        stubNow(now),
		IsPIDAlive: stubPIDAlive(alive),
	}
}

func writeInfo(t *testing.T, l TargetLock, info Info) {
	t.Helper()
	require.NoError(t, os.MkdirAll(l.Dir, 0o755))
	data, err := json.Marshal(info)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(l.Path(), data, 0o600))
}

func TestLock_WritesLockFile(t *testing.T) {
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	l := testLock(t.TempDir(), now, true)

	unlock, err := l.Lock("sync")
	require.NoError(t, err)
	defer unlock()

	data, err := os.ReadFile(l.Path())
	require.NoError(t, err)
	var info Info
	require.NoError(t, json.Unmarshal(data, &info))
	assert.Equal(t, os.Getpid(), info.PID)
	assert.True(t, info.CreatedAt.Equal(now))
	assert.Equal(t, "sync", info.Cmd)
}

func TestLock_ContentionReturnsLocked(t *testing.T) {
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	l := testLock(t.TempDir(), now, true)
	writeInfo(t, l, Info{PID: 4242, CreatedAt: now.Add(-time.Minute), Cmd: "init"})

	_, err := l.Lock("sync")
	require.Error(t, err)
	assert.Equal(t, errors.ELocked, errors.GetCode(err))
	assert.Equal(t, errors.ExitInternal, errors.ExitCode(err))

	var el *ErrLocked
	require.True(t, errors.As(err, &el))
	require.NotNil(t, el.Info)
	assert.Equal(t, 4242, el.Info.PID)
}

func TestLock_StaleByDeadPIDIsStolen(t *testing.T) {
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	l := testLock(t.TempDir(), now, false)
	writeInfo(t, l, Info{PID: 99999, CreatedAt: now})

	unlock, err := l.Lock("init")
	require.NoError(t, err)
	require.NoError(t, unlock())
}

func TestLock_StaleByAgeIsStolen(t *testing.T) {
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	l := testLock(t.TempDir(), now, true)
	writeInfo(t, l, Info{PID: 1, CreatedAt: now.Add(-3 * time.Hour)})

	unlock, err := l.Lock("sync")
	require.NoError(t, err)
	require.NoError(t, unlock())
}

func TestLock_UnreadableFileUsesMtime(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	l := testLock(dir, now, true)
	require.NoError(t, os.MkdirAll(l.Dir, 0o755))
	require.NoError(t, os.WriteFile(l.Path(), []byte("not json"), 0o600))

	_, err := l.Lock("sync")
	assert.Equal(t, errors.ELocked, errors.GetCode(err))

	old := now.Add(-3 * time.Hour)
	require.NoError(t, os.Chtimes(l.Path(), old, old))
	unlock, err := l.Lock("sync")
	require.NoError(t, err)
	require.NoError(t, unlock())
}

func TestLock_UnlockIdempotent(t *testing.T) {
	l := testLock(t.TempDir(), time.Now(), true)
	unlock, err := l.Lock("")
	require.NoError(t, err)
	require.NoError(t, unlock())
	require.NoError(t, unlock())
	_, err = os.Stat(l.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestLock_ConcurrentAcquireHasOneWinner(t *testing.T) {
	l := testLock(t.TempDir(), time.Now(), true)

	const workers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := l.Lock("sync"); err == nil {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, winners)
}

func TestNew_Defaults(t *testing.T) {
	l := New("/tmp/x/.wsgen")
	assert.Equal(t, 2*time.Hour, l.StaleAfter)
	assert.NotNil(t, l.Now)
	assert.NotNil(t, l.IsPIDAlive)
	assert.Equal(t, "/tmp/x/.wsgen/lock", l.Path())
	assert.True(t, l.IsPIDAlive(os.Getpid()))
	assert.False(t, l.IsPIDAlive(0))
}
