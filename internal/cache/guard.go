// Package cache guards construction of shared on-disk fixtures.
//
// A destination directory is built at most once per fingerprint: builders
// in different processes serialize on a lock file next to the destination,
// and a version stamp written after a successful build marks it reusable.
package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/sirupsen/logrus"

	appErrors "github.com/mrz1836/go-leanclone/internal/errors"
	"github.com/mrz1836/go-leanclone/internal/logging"
)

// DefaultRetryDelay is how often a blocked caller retries the lock
const DefaultRetryDelay = 250 * time.Millisecond

// ErrLockNotAcquired is returned when the context ends before the lock is free
var ErrLockNotAcquired = errors.New("destination lock not acquired")

// Builder constructs a fresh destination. dest does not exist when it runs.
type Builder func(ctx context.Context, dest string) error

// Result describes the destination returned by AcquireOrBuild
type Result struct {
	Path  string
	Built bool
}

// Guard serializes builds of a destination across processes
type Guard struct {
	fingerprint string
	retryDelay  time.Duration
	logger      *logrus.Entry
}

// NewGuard creates a guard trusting destinations stamped with fingerprint
func NewGuard(fingerprint string, logger *logrus.Entry) *Guard {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Guard{
		fingerprint: fingerprint,
		retryDelay:  DefaultRetryDelay,
		logger:      logger.WithField(logging.StandardFields.Component, logging.ComponentNames.Cache),
	}
}

// WithRetryDelay returns a copy of the guard polling the lock at delay
func (g *Guard) WithRetryDelay(delay time.Duration) *Guard {
	c := *g
	if delay > 0 {
		c.retryDelay = delay
	}
	return &c
}

// Fingerprint returns the fingerprint destinations must carry to be reused
func (g *Guard) Fingerprint() string {
	return g.fingerprint
}

// Valid reports whether dest exists and carries a matching stamp
func (g *Guard) Valid(dest string) bool {
	info, err := os.Stat(dest)
	if err != nil || !info.IsDir() {
		return false
	}

	stamp, err := ReadStamp(dest)
	if err != nil {
		return false
	}

	return stamp.Fingerprint == g.fingerprint
}

// AcquireOrBuild returns dest if it was already built with the current
// fingerprint, and otherwise clears it and runs build under the lock.
//
// On a build error or panic the partial destination is removed before the
// failure propagates. The lock is released on every path.
func (g *Guard) AcquireOrBuild(ctx context.Context, dest string, build Builder) (Result, error) {
	dest, err := filepath.Abs(dest)
	if err != nil {
		return Result{}, appErrors.WrapWithContext(err, "resolve destination")
	}

	if err = os.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
		return Result{}, appErrors.DirectoryCreateError(filepath.Dir(dest), err)
	}

	log := g.logger.WithField(logging.StandardFields.Destination, dest)

	unlock, err := g.lock(ctx, dest, log)
	if err != nil {
		return Result{}, err
	}
	defer unlock()

	// Another process may have finished the build while we waited.
	if g.Valid(dest) {
		log.Debug("Reusing cached destination")
		return Result{Path: dest}, nil
	}

	if err = removeStale(dest); err != nil {
		return Result{}, err
	}

	start := time.Now()
	log.Info("Building destination")

	success := false
	defer func() {
		if !success {
			if rmErr := os.RemoveAll(dest); rmErr != nil {
				log.WithError(rmErr).Warn("Failed to remove partial destination")
			}
		}
	}()

	if err = build(ctx, dest); err != nil {
		return Result{}, err
	}

	if err = writeStamp(dest, Stamp{Fingerprint: g.fingerprint, BuiltAt: time.Now().UTC()}); err != nil {
		return Result{}, err
	}

	success = true
	log.WithField(logging.StandardFields.DurationMs, time.Since(start).Milliseconds()).Info("Destination built")

	return Result{Path: dest, Built: true}, nil
}

// WithLock runs fn while holding the lock of dest, so that fn owns the
// destination exclusively. It does not check or write the stamp; use it to
// modify a destination AcquireOrBuild returned.
func (g *Guard) WithLock(ctx context.Context, dest string, fn func(ctx context.Context) error) error {
	dest, err := filepath.Abs(dest)
	if err != nil {
		return appErrors.WrapWithContext(err, "resolve destination")
	}

	log := g.logger.WithField(logging.StandardFields.Destination, dest)
	unlock, err := g.lock(ctx, dest, log)
	if err != nil {
		return err
	}
	defer unlock()

	return fn(ctx)
}

// lock blocks until the lock file of dest is held or ctx ends
func (g *Guard) lock(ctx context.Context, dest string, log *logrus.Entry) (func(), error) {
	lock := flock.New(LockPath(dest))
	locked, err := lock.TryLockContext(ctx, g.retryDelay)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLockNotAcquired, LockPath(dest), err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrLockNotAcquired, LockPath(dest))
	}

	return func() {
		if unlockErr := lock.Unlock(); unlockErr != nil {
			log.WithError(unlockErr).Warn("Failed to release destination lock")
		}
	}, nil
}

// removeStale removes the stamp first, then the destination tree
func removeStale(dest string) error {
	if err := os.Remove(StampPath(dest)); err != nil && !os.IsNotExist(err) {
		return appErrors.FileDeleteError(StampPath(dest), err)
	}
	if err := os.RemoveAll(dest); err != nil {
		return appErrors.DirectoryRemoveError(dest, err)
	}
	return nil
}
