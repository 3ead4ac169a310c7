package iris

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsenadev/sanitary-surveillance/internal/config"
)

// fakeRunner records the command it was asked to run and returns a fixed error.
type fakeRunner struct {
	err  error
	cmds []*exec.Cmd
}

func (f *fakeRunner) Run(cmd *exec.Cmd) error {
	f.cmds = append(f.cmds, cmd)
	return f.err
}

func devInstance() config.InstanceConfig {
	return config.InstanceConfig{Name: "IRIS", Bin: "iris"}
}

func TestController_Start(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{}
	c := NewController(devInstance())
	c.runner = runner

	require.NoError(t, c.Start(context.Background()))

	require.Len(t, runner.cmds, 1)
	assert.Equal(t, []string{"iris", "start", "IRIS", "quietly"}, runner.cmds[0].Args)
}

func TestController_Stop(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{}
	c := NewController(devInstance())
	c.runner = runner

	require.NoError(t, c.Stop(context.Background()))

	require.Len(t, runner.cmds, 1)
	assert.Equal(t, []string{"iris", "stop", "IRIS", "quietly"}, runner.cmds[0].Args)
}

func TestController_StartFailureWrapsInstanceName(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{err: errors.New("exit status 1")}
	c := NewController(devInstance())
	c.runner = runner

	err := c.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "iris start IRIS")
}
