// Package transcript manages the append-only log that captures the combined
// output of the one-time import session. The file is never truncated or
// rotated: each container start appends one more transcript block, so the
// full import history of the volume stays readable.
package transcript

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Transcript is an append-only log file. Opening is lazy: the file and its
// parent directory are only created on the first Open call, so a sequence
// that aborts before the init step leaves no log behind.
type Transcript struct {
	path string
}

// New returns a Transcript for the given path.
func New(path string) *Transcript {
	return &Transcript{path: path}
}

// Path returns the transcript file path.
func (t *Transcript) Path() string {
	return t.path
}

// Open creates the parent directory if absent and opens the file for
// appending. The caller owns the returned WriteCloser.
func (t *Transcript) Open() (io.WriteCloser, error) {
	if err := os.MkdirAll(filepath.Dir(t.path), 0o755); err != nil {
		return nil, fmt.Errorf("creating transcript directory: %w", err)
	}

	f, err := os.OpenFile(t.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening transcript: %w", err)
	}
	return f, nil
}

// Tail returns the last n lines of the transcript. A missing file returns an
// empty slice and no error: the sequence may simply not have run yet.
func (t *Transcript) Tail(n int) ([]string, error) {
	b, err := os.ReadFile(t.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading transcript: %w", err)
	}

	lines := strings.Split(strings.TrimRight(string(b), "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil, nil
	}
	if n > 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines, nil
}
