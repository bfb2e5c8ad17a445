// Package logging builds the hclog loggers used by the CLI and the TUI.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
)

const Name = "aetherweave"

// New returns a logger writing to w. Unknown level names fall back to info.
func New(level string, w io.Writer) hclog.Logger {
	lvl := hclog.LevelFromString(level)
	if lvl == hclog.NoLevel {
		lvl = hclog.Info
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   Name,
		Level:  lvl,
		Output: w,
	})
}

// OpenFile returns a logger appending to path. The terminal belongs to the
// UI while it runs, so the TUI logs here instead of stderr. An empty path
// gives a logger that discards everything.
func OpenFile(path, level string) (hclog.Logger, io.Closer, error) {
	if path == "" {
		return hclog.NewNullLogger(), io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}
	return New(level, f), f, nil
}
