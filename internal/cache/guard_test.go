package cache

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/mrz1836/go-leanclone/internal/errors"
)

func writeMarker(ctx context.Context, dest string) error {
	_ = ctx
	if err := os.MkdirAll(dest, 0o750); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dest, "marker"), []byte("built"), 0o600)
}

func TestAcquireOrBuild_BuildsOnce(t *testing.T) {
	ctx := context.Background()
	dest := filepath.Join(t.TempDir(), "linux-v6.17")
	guard := NewGuard(Fingerprint("v1"), nil)

	calls := 0
	build := func(ctx context.Context, dest string) error {
		calls++
		return writeMarker(ctx, dest)
	}

	first, err := guard.AcquireOrBuild(ctx, dest, build)
	require.NoError(t, err)
	assert.True(t, first.Built)
	assert.Equal(t, dest, first.Path)

	second, err := guard.AcquireOrBuild(ctx, dest, build)
	require.NoError(t, err)
	assert.False(t, second.Built)
	assert.Equal(t, dest, second.Path)

	assert.Equal(t, 1, calls)
	assert.FileExists(t, StampPath(dest))
	assert.FileExists(t, filepath.Join(dest, "marker"))
}

func TestAcquireOrBuild_FingerprintChangeRebuilds(t *testing.T) {
	ctx := context.Background()
	dest := filepath.Join(t.TempDir(), "deno-v2.5.6")

	_, err := NewGuard(Fingerprint("v1"), nil).AcquireOrBuild(ctx, dest, func(ctx context.Context, dest string) error {
		require.NoError(t, writeMarker(ctx, dest))
		return os.WriteFile(filepath.Join(dest, "old-only"), nil, 0o600)
	})
	require.NoError(t, err)

	res, err := NewGuard(Fingerprint("v2"), nil).AcquireOrBuild(ctx, dest, writeMarker)
	require.NoError(t, err)
	assert.True(t, res.Built)
	assert.NoFileExists(t, filepath.Join(dest, "old-only"))

	stamp, err := ReadStamp(dest)
	require.NoError(t, err)
	assert.Equal(t, Fingerprint("v2"), stamp.Fingerprint)
	assert.False(t, stamp.BuiltAt.IsZero())
}

func TestAcquireOrBuild_MissingStampIsStale(t *testing.T) {
	ctx := context.Background()
	dest := filepath.Join(t.TempDir(), "half-built")

	// A killed build leaves a tree without a stamp.
	require.NoError(t, os.MkdirAll(dest, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dest, "partial"), nil, 0o600))

	res, err := NewGuard(Fingerprint("v1"), nil).AcquireOrBuild(ctx, dest, writeMarker)
	require.NoError(t, err)
	assert.True(t, res.Built)
	assert.NoFileExists(t, filepath.Join(dest, "partial"))
}

func TestAcquireOrBuild_FailureRemovesDestination(t *testing.T) {
	ctx := context.Background()
	dest := filepath.Join(t.TempDir(), "broken")
	guard := NewGuard(Fingerprint("v1"), nil)

	_, err := guard.AcquireOrBuild(ctx, dest, func(ctx context.Context, dest string) error {
		require.NoError(t, writeMarker(ctx, dest))
		return appErrors.ErrGitCommand
	})
	require.ErrorIs(t, err, appErrors.ErrGitCommand)
	assert.NoDirExists(t, dest)
	assert.NoFileExists(t, StampPath(dest))

	// The lock was released: a second attempt can build.
	res, err := guard.AcquireOrBuild(ctx, dest, writeMarker)
	require.NoError(t, err)
	assert.True(t, res.Built)
}

func TestAcquireOrBuild_PanicRemovesDestination(t *testing.T) {
	ctx := context.Background()
	dest := filepath.Join(t.TempDir(), "panicky")
	guard := NewGuard(Fingerprint("v1"), nil)

	assert.PanicsWithValue(t, "boom", func() {
		_, _ = guard.AcquireOrBuild(ctx, dest, func(ctx context.Context, dest string) error {
			_ = writeMarker(ctx, dest)
			panic("boom")
		})
	})
	assert.NoDirExists(t, dest)

	lock := flock.New(LockPath(dest))
	locked, err := lock.TryLock()
	require.NoError(t, err)
	assert.True(t, locked, "lock must be released after a panic")
	require.NoError(t, lock.Unlock())
}

func TestAcquireOrBuild_WaitsForLock(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "contended")
	require.NoError(t, os.MkdirAll(filepath.Dir(dest), 0o750))

	holder := flock.New(LockPath(dest))
	locked, err := holder.TryLock()
	require.NoError(t, err)
	require.True(t, locked)
	defer func() { _ = holder.Unlock() }()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	guard := NewGuard(Fingerprint("v1"), nil).WithRetryDelay(10 * time.Millisecond)
	_, err = guard.AcquireOrBuild(ctx, dest, writeMarker)
	require.ErrorIs(t, err, ErrLockNotAcquired)
	assert.NoDirExists(t, dest)
}

func TestAcquireOrBuild_ConcurrentCallersBuildOnce(t *testing.T) {
	ctx := context.Background()
	dest := filepath.Join(t.TempDir(), "shared")

	var builds atomic.Int32
	build := func(ctx context.Context, dest string) error {
		builds.Add(1)
		time.Sleep(20 * time.Millisecond)
		return writeMarker(ctx, dest)
	}

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Separate guards open separate lock descriptors, like separate processes.
			guard := NewGuard(Fingerprint("v1"), nil).WithRetryDelay(5 * time.Millisecond)
			_, errs[i] = guard.AcquireOrBuild(ctx, dest, build)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), builds.Load())
}

func TestFingerprint(t *testing.T) {
	assert.Equal(t, Fingerprint("a", "b"), Fingerprint("a", "b"))
	assert.NotEqual(t, Fingerprint("ab", "c"), Fingerprint("a", "bc"))
	assert.NotEqual(t, Fingerprint("v1"), Fingerprint("v2"))
	assert.Len(t, Fingerprint(), 16)
}

func TestValid(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "x")
	guard := NewGuard(Fingerprint("v1"), nil)

	assert.False(t, guard.Valid(dest))

	require.NoError(t, os.MkdirAll(dest, 0o750))
	assert.False(t, guard.Valid(dest))

	require.NoError(t, writeStamp(dest, Stamp{Fingerprint: guard.Fingerprint()}))
	assert.True(t, guard.Valid(dest))

	require.NoError(t, os.WriteFile(StampPath(dest), []byte("{not json"), 0o600))
	assert.False(t, guard.Valid(dest))
}

func TestWithLock_HoldsDestinationLock(t *testing.T) {
	ctx := context.Background()
	dest := filepath.Join(t.TempDir(), "linux-v6.17")
	guard := NewGuard(Fingerprint("v1"), nil).WithRetryDelay(5 * time.Millisecond)

	err := guard.WithLock(ctx, dest, func(context.Context) error {
		other := flock.New(LockPath(dest))
		locked, err := other.TryLock()
		require.NoError(t, err)
		assert.False(t, locked, "lock must be held while fn runs")
		return nil
	})
	require.NoError(t, err)

	other := flock.New(LockPath(dest))
	locked, err := other.TryLock()
	require.NoError(t, err)
	assert.True(t, locked, "lock must be released after fn returns")
	require.NoError(t, other.Unlock())
}

func TestWithLock_ReleasesOnError(t *testing.T) {
	ctx := context.Background()
	dest := filepath.Join(t.TempDir(), "failing")
	guard := NewGuard(Fingerprint("v1"), nil)

	err := guard.WithLock(ctx, dest, func(context.Context) error { return appErrors.ErrTest })
	require.ErrorIs(t, err, appErrors.ErrTest)

	locked, err := flock.New(LockPath(dest)).TryLock()
	require.NoError(t, err)
	assert.True(t, locked)
}

func TestWithLock_SerializesWriters(t *testing.T) {
	ctx := context.Background()
	dest := filepath.Join(t.TempDir(), "shared")

	var active, overlaps atomic.Int32
	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			guard := NewGuard(Fingerprint("v1"), nil).WithRetryDelay(2 * time.Millisecond)
			errs[i] = guard.WithLock(ctx, dest, func(context.Context) error {
				if active.Add(1) > 1 {
					overlaps.Add(1)
				}
				time.Sleep(10 * time.Millisecond)
				active.Add(-1)
				return nil
			})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Zero(t, overlaps.Load())
}

func TestWithLock_WaitsForBuilder(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "contended")
	require.NoError(t, os.MkdirAll(filepath.Dir(dest), 0o750))

	holder := flock.New(LockPath(dest))
	locked, err := holder.TryLock()
	require.NoError(t, err)
	require.True(t, locked)
	defer func() { _ = holder.Unlock() }()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	called := false
	err = NewGuard(Fingerprint("v1"), nil).WithRetryDelay(5*time.Millisecond).WithLock(ctx, dest, func(context.Context) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, ErrLockNotAcquired)
	assert.False(t, called)
}
