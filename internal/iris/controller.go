// Package iris adapts the vendor-supplied IRIS tooling — the `iris` control
// command, the interactive session, and the instance's exposed ports — to the
// interfaces the sequencer works against.
package iris

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/vsenadev/sanitary-surveillance/internal/config"
)

// commandRunner abstracts command execution so the vendor CLI can be faked in
// tests.
type commandRunner interface {
	Run(cmd *exec.Cmd) error
}

// execRunner runs commands for real.
type execRunner struct{}

func (execRunner) Run(cmd *exec.Cmd) error { return cmd.Run() }

// Controller starts and stops one IRIS instance through the vendor control
// command. Both operations use quiet mode and make a single attempt.
type Controller struct {
	bin      string
	instance string
	runner   commandRunner
}

// NewController returns a Controller for the configured instance.
func NewController(cfg config.InstanceConfig) *Controller {
	return &Controller{
		bin:      cfg.Bin,
		instance: cfg.Name,
		runner:   execRunner{},
	}
}

// Start brings the instance to a running state. The control command's own
// output goes to this process's streams; it is not part of the transcript.
func (c *Controller) Start(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, c.bin, "start", c.instance, "quietly")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := c.runner.Run(cmd); err != nil {
		return fmt.Errorf("iris start %s: %w", c.instance, err)
	}
	return nil
}

// Stop shuts the instance down.
func (c *Controller) Stop(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, c.bin, "stop", c.instance, "quietly")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := c.runner.Run(cmd); err != nil {
		return fmt.Errorf("iris stop %s: %w", c.instance, err)
	}
	return nil
}
