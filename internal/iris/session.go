package iris

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/vsenadev/sanitary-surveillance/internal/config"
	"github.com/vsenadev/sanitary-surveillance/internal/transcript"
)

// stdinFile is the subset of *os.File the session reads the script through.
type stdinFile interface {
	io.Reader
	Close() error
}

func openScript(path string) (stdinFile, error) { return os.Open(path) }

// Session runs the one-time import script against an interactive session of
// the running instance. The script file is treated as opaque input; it is
// never parsed or validated here.
type Session struct {
	bin        string
	instance   string
	scriptPath string
	transcript *transcript.Transcript
	runner     commandRunner
	open       func(string) (stdinFile, error)
}

// NewSession returns a Session for the configured instance and script.
func NewSession(cfg config.InstanceConfig, tr *transcript.Transcript) *Session {
	return &Session{
		bin:        cfg.Bin,
		instance:   cfg.Name,
		scriptPath: cfg.ScriptPath,
		transcript: tr,
		runner:     execRunner{},
		open:       openScript,
	}
}

// RunScript feeds the script to `iris session <instance>` with combined
// stdout/stderr appended to the transcript. The session's exit status is
// returned to the caller; deciding whether it aborts the sequence is the
// sequencer's policy, not this adapter's.
func (s *Session) RunScript(ctx context.Context) error {
	script, err := s.open(s.scriptPath)
	if err != nil {
		return fmt.Errorf("opening import script: %w", err)
	}
	defer script.Close()

	out, err := s.transcript.Open()
	if err != nil {
		return err
	}
	defer out.Close()

	cmd := exec.CommandContext(ctx, s.bin, "session", s.instance)
	cmd.Stdin = script
	cmd.Stdout = out
	cmd.Stderr = out

	if err := s.runner.Run(cmd); err != nil {
		return fmt.Errorf("iris session %s: %w", s.instance, err)
	}
	return nil
}
