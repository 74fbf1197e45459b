// Package targeting decides which window stays undimmed.
//
// A Directory snapshots the on-screen windows, SelectBestWindow ranks a
// process's windows, and a Resolver combines both with the lock target and
// the frontmost process into a single exclusion rectangle per refresh.
package targeting

import (
	"log/slog"

	"github.com/1broseidon/curtain/internal/platform"
)

// WindowSource is the platform query behind a Directory.
type WindowSource interface {
	Windows() ([]platform.Window, error)
}

// Directory snapshots the on-screen window list.
type Directory struct {
	src    WindowSource
	logger *slog.Logger
}

// NewDirectory wraps a platform window source.
func NewDirectory(src WindowSource, logger *slog.Logger) *Directory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Directory{src: src, logger: logger}
}

// ListCandidateWindows returns on-screen, non-desktop windows. A failed
// platform query yields an empty list; callers treat that as "no usable
// target".
func (d *Directory) ListCandidateWindows() []platform.Window {
	if d == nil || d.src == nil {
		return nil
	}
	windows, err := d.src.Windows()
	if err != nil {
		d.logger.Debug("window directory unavailable", "error", err)
		return nil
	}
	return windows
}
