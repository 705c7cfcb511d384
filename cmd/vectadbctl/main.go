// Package main provides vectadbctl, a thin operator CLI that drives the
// vectadb.Core programmatic interface directly: schema upload, type
// inspection, entity CRUD, and hybrid queries against a local core
// instance. It has no network listener; it is scaffolding for local
// operation and smoke-testing, not the HTTP surface.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"vectadb.dev/core/config"
)

func main() {
	state := &cliState{}

	rootCmd := &cobra.Command{
		Use:           "vectadbctl",
		Short:         "Operate a local VectaDB core",
		Long:          `vectadbctl drives a local, in-process vectadb.Core instance for schema management, entity lifecycle, and hybrid queries without standing up an HTTP server.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return state.init()
		},
	}

	registerPersistentFlags(rootCmd.PersistentFlags(), state)

	rootCmd.AddCommand(
		newSchemaCmd(state),
		newTypeCmd(state),
		newEntityCmd(state),
		newQueryCmd(state),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// registerPersistentFlags binds the flags shared by every subcommand onto
// the given set, taking *pflag.FlagSet directly (as cobra's own
// Flags()/PersistentFlags() do) so flag registration stays testable
// independent of a *cobra.Command.
func registerPersistentFlags(flags *pflag.FlagSet, state *cliState) {
	flags.StringVar(&state.schemaPath, "schema-path", "", "default schema file to load at startup (JSON or YAML)")
	flags.StringVar(&state.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flags.StringVar(&state.logFormat, "log-format", "console", "log format: console, logfmt, json")
}

func defaultConfig(s *cliState) config.Config {
	cfg := config.DefaultConfig()
	cfg.DefaultSchemaPath = s.schemaPath
	cfg.Logging.Level = s.logLevel
	cfg.Logging.Format = s.logFormat
	return cfg
}
