package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/olegrjumin/siteaudit/internal/config"
	"github.com/olegrjumin/siteaudit/internal/logging"
)

// appState is filled by the root command before any subcommand runs
type appState struct {
	cfgFile string
	cfg     *config.Config
	logger  *logging.Logger
}

func newRootCmd() *cobra.Command {
	state := &appState{}

	root := &cobra.Command{
		Use:           "siteaudit",
		Short:         "Audit a web page for platform security, GDPR compliance and accessibility",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(state.cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.LogLevel)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			state.cfg = cfg
			state.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if state.logger != nil {
				_ = state.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&state.cfgFile, "config", "", "config file (YAML)")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("user-agent", "", "User-Agent sent to audited sites")
	root.PersistentFlags().Duration("request-timeout", 0, "page fetch timeout")
	root.PersistentFlags().Int("max-redirects", 0, "maximum redirects to follow")

	root.AddCommand(newServeCmd(state))
	root.AddCommand(newAnalyzeCmd(state))
	root.AddCommand(newHashPasswordCmd())
	root.AddCommand(newVersionCmd())
	return root
}
