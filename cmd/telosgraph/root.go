package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/HendryAvila/telosgraph/internal/config"
	"github.com/HendryAvila/telosgraph/internal/logging"
	"github.com/HendryAvila/telosgraph/internal/server"
)

func newRootCmd() *cobra.Command {
	v := config.New()

	root := &cobra.Command{
		Use:   "telosgraph",
		Short: "TELOS knowledge graph MCP server",
		Long: `telosgraph keeps a knowledge graph of entities and typed relations
organized by the TELOS taxonomy, and serves it to MCP hosts over stdio.

Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "telosgraph": {
        "command": "telosgraph",
        "args": ["serve"]
      }
    }
  }`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return config.BindFlags(v, cmd.Flags())
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (yaml, json or toml)")
	flags.String("memory-path", "", "path to the JSONL graph file")
	flags.String("data-dir", "", "directory for the diagnostics journal")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-file", "", "write logs to this file instead of stderr")
	flags.String("log-format", "", "log format (json or console)")
	flags.Bool("no-journal", false, "do not record diagnostics in the journal")

	root.AddCommand(
		newServeCmd(v),
		newValidateCmd(v),
		newExportCmd(v),
		newVersionCmd(),
	)
	return root
}

// setup loads configuration and builds the logger for a subcommand.
func setup(v *viper.Viper) (*config.Config, *zap.Logger, error) {
	config.LoadDotEnv()
	cfg, err := config.Load(v)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("creating logger: %w", err)
	}
	return cfg, log, nil
}

func newServeCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server (stdio transport)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup(v)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			s, cleanup, err := server.New(cfg, log)
			if err != nil {
				return fmt.Errorf("creating server: %w", err)
			}
			defer cleanup()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- mcpserver.ServeStdio(s) }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				log.Info("shutting down")
				return nil
			}
		},
	}
}

func newValidateCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Audit the graph file against the taxonomy",
		Long:  "Prints a markdown report of invalid categories, disallowed relation types and orphaned relations. Exits 1 when issues are found.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup(v)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			return runValidate(cmd.Context(), cmd, server.NewStore(cfg, log, nil))
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "telosgraph v%s\n", server.Version)
		},
	}
}
