package cmd

import (
	"fmt"

	"github.com/arrbiter/arrctl/pkg/client/docker"
	"github.com/arrbiter/arrctl/pkg/io/configmanager"
	"github.com/arrbiter/arrctl/pkg/svc/orchestrator/compose"
	"github.com/arrbiter/arrctl/pkg/svc/readiness"
	"github.com/arrbiter/arrctl/pkg/ui/timer"
	dockerclient "github.com/docker/docker/client"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// stringFlag reads a string flag, treating lookup errors as the zero value.
func stringFlag(flags *pflag.FlagSet, name string) string {
	value, _ := flags.GetString(name)

	return value
}

// boolFlag reads a bool flag, treating lookup errors as the zero value.
func boolFlag(flags *pflag.FlagSet, name string) bool {
	value, _ := flags.GetBool(name)

	return value
}

// loadConfig loads the configuration honoring the persistent --config flag.
func loadConfig(cmd *cobra.Command) (*configmanager.Config, error) {
	return configmanager.Load(stringFlag(cmd.Flags(), ConfigFlagName))
}

// newOrchestrator creates the compose orchestrator and the Docker client it
// runs on. The caller is responsible for closing the returned client.
func newOrchestrator(
	config *configmanager.Config,
) (*compose.Orchestrator, dockerclient.APIClient, error) {
	apiClient, err := docker.GetDockerClient()
	if err != nil {
		return nil, nil, err
	}

	orch, err := compose.NewOrchestrator(apiClient, config.Project, config.ComposeFile)
	if err != nil {
		_ = apiClient.Close()

		return nil, nil, fmt.Errorf("failed to create orchestrator: %w", err)
	}

	return orch, apiClient, nil
}

// waitForServices polls the orchestrator until all services run or the
// configured budget is exhausted.
func waitForServices(
	cmd *cobra.Command,
	config *configmanager.Config,
	orch *compose.Orchestrator,
) error {
	poller := &readiness.Poller{
		Source:   orch,
		Budget:   config.ReadinessBudget,
		Interval: config.ReadinessInterval,
		Writer:   cmd.OutOrStdout(),
	}

	return poller.Wait(cmd.Context())
}

// timerFromFlags returns a running timer when --timing is set, nil otherwise.
func timerFromFlags(cmd *cobra.Command) timer.Timer {
	if !boolFlag(cmd.Flags(), TimingFlagName) {
		return nil
	}

	return timer.New()
}
