// Package stamp records when the last successful sync happened.
//
// The stamp is an empty file whose modification time is the time of the
// last pass; "sync --if-stale" compares it against sync.min_interval.
package stamp

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// Stamp is a timestamp file.
type Stamp struct {
	fs   afero.Fs
	path string
	now  func() time.Time
}

// New creates a stamp at path. A nil fs uses the OS filesystem.
func New(fs afero.Fs, path string) *Stamp {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Stamp{fs: fs, path: path, now: time.Now}
}

// Path returns the stamp file location.
func (s *Stamp) Path() string {
	return s.path
}

// Touch creates the stamp if needed and sets its time to now.
func (s *Stamp) Touch() error {
	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create stamp directory: %w", err)
	}
	f, err := s.fs.OpenFile(s.path, os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create stamp: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	now := s.now()
	return s.fs.Chtimes(s.path, now, now)
}

// LastUpdate returns the time of the last Touch. ok is false when the stamp
// does not exist.
func (s *Stamp) LastUpdate() (t time.Time, ok bool, err error) {
	info, err := s.fs.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	return info.ModTime(), true, nil
}

// UpdatedWithin reports whether the stamp was touched less than d ago.
func (s *Stamp) UpdatedWithin(d time.Duration) (bool, error) {
	last, ok, err := s.LastUpdate()
	if err != nil || !ok {
		return false, err
	}
	return s.now().Sub(last) < d, nil
}
