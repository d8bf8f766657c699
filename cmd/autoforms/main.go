package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// path to the configuration file (flag --config)
var configPath string

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "autoforms",
		Short:         "Serves CRUD pages for declaratively configured forms",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "autoforms.yaml", "Path to the YAML or JSON configuration file")

	rootCmd.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newCheckCmd(),
	)
	return rootCmd
}
