package vpncheck_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/arrbiter/arrctl/pkg/svc/vpncheck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errExecBoom = errors.New("exec failed")

type fakeExecutor struct {
	output    string
	err       error
	container string
	cmd       []string
}

func (f *fakeExecutor) ExecInContainer(
	_ context.Context,
	containerName string,
	cmd []string,
) (string, error) {
	f.container = containerName
	f.cmd = cmd

	return f.output, f.err
}

func TestContainerProberRunsCurlInContainer(t *testing.T) {
	t.Parallel()

	executor := &fakeExecutor{output: "1.2.3.4\n"}
	prober := vpncheck.NewContainerProber(executor, "gluetun", 5*time.Second)

	got, err := prober.Probe(context.Background(), "https://echo.example")

	require.NoError(t, err)
	assert.Equal(t, "1.2.3.4", got, "output must be trimmed")
	assert.Equal(t, "gluetun", executor.container)
	assert.Equal(t,
		[]string{"curl", "-fsS", "--max-time", "5", "https://echo.example"},
		executor.cmd,
	)
}

func TestContainerProberClampsSubSecondTimeout(t *testing.T) {
	t.Parallel()

	executor := &fakeExecutor{output: "1.2.3.4"}
	prober := vpncheck.NewContainerProber(executor, "gluetun", 100*time.Millisecond)

	_, err := prober.Probe(context.Background(), "https://echo.example")

	require.NoError(t, err)
	assert.Equal(t, "1", executor.cmd[3], "curl --max-time has one-second granularity")
}

func TestContainerProberWrapsExecErrors(t *testing.T) {
	t.Parallel()

	executor := &fakeExecutor{err: errExecBoom}
	prober := vpncheck.NewContainerProber(executor, "gluetun", 5*time.Second)

	got, err := prober.Probe(context.Background(), "https://echo.example")

	require.Error(t, err)
	require.ErrorIs(t, err, errExecBoom)
	assert.Contains(t, err.Error(), "gluetun")
	assert.Empty(t, got)
}
