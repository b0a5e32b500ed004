package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/antonio-alexander/go-employee-payroll/internal"
	"github.com/antonio-alexander/go-employee-payroll/internal/client"
	"github.com/antonio-alexander/go-employee-payroll/internal/data"
	"github.com/antonio-alexander/go-employee-payroll/internal/utilities"

	"github.com/spf13/cobra"
)

var (
	Version   string
	GitCommit string
	GitBranch string
)

func init() {
	if Version = data.Version; Version == "" {
		Version = "<no_version_provided>"
	}
	if GitCommit = data.GitCommit; GitCommit == "" {
		GitCommit = "<no_git_commit>"
	}
	if GitBranch = data.GitBranch; GitBranch == "" {
		GitBranch = "<no_git_branch>"
	}
}

type payrollClient interface {
	internal.Configurer
	internal.Opener
	client.Client
}

func main() {
	envs, err := internal.EnvsFromFiles(os.Environ(), ".env")
	if err != nil {
		os.Stderr.WriteString(err.Error())
		os.Exit(1)
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	if err := newRootCmd(envs).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(envs map[string]string) *cobra.Command {
	var c payrollClient

	logger := utilities.NewLogger(os.Stderr)
	_ = logger.Configure(envs)
	cmd := &cobra.Command{
		Use:     "go-employee-payroll",
		Short:   "Client for the employee payroll service",
		Version: fmt.Sprintf("%s (%s) built from: %s", Version, GitCommit, GitBranch),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c = client.NewClient(logger)
			if err := c.Configure(envs); err != nil {
				return err
			}
			return c.Open(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.Close(cmd.Context())
		},
		SilenceUsage: true,
	}
	getClient := func() client.Client { return c }
	cmd.AddCommand(
		newSearchCmd(getClient),
		newImportCmd(getClient),
		newExportCmd(getClient),
		newChartsCmd(getClient),
		newCountersCmd(getClient),
		newTimersCmd(getClient),
	)
	return cmd
}
