// Package cli implements the command-line interface of cputable.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"

	"cputable/internal/config"
	"cputable/internal/engine"
)

// version is set at build time.
var version = "development version"

// globalFlags are shared by every subcommand and override the config file.
type globalFlags struct {
	configPath string
	dataPath   string
	table      string
	debug      bool
}

// NewRootCommand assembles the command tree.
func NewRootCommand() *cobra.Command {
	var g globalFlags

	cobra.EnableCommandSorting = false
	rootCmd := &cobra.Command{
		Use:           "cputable",
		Short:         "Browse a processor dataset as a filterable, sortable table",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetVersionTemplate(`cputable {{.Version}}` + "\n")
	rootCmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "path to a TOML config file")
	rootCmd.PersistentFlags().StringVarP(&g.dataPath, "data", "d", "", "dataset file (.csv, .json, .yaml, .db)")
	rootCmd.PersistentFlags().StringVar(&g.table, "table", "", "table to read from a sqlite dataset")
	rootCmd.PersistentFlags().BoolVar(&g.debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(newServeCommand(&g))
	rootCmd.AddCommand(newTUICommand(&g))
	rootCmd.AddCommand(newRenderCommand(&g))
	return rootCmd
}

// Execute runs the CLI and returns the process exit code.
func Execute(ctx context.Context) int {
	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// resolve loads the config file and applies flag overrides.
func (g *globalFlags) resolve() (config.Config, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if g.dataPath != "" {
		cfg.Dataset.Path = g.dataPath
	}
	if g.table != "" {
		cfg.Dataset.Table = g.table
	}
	if g.debug {
		cfg.Debug = true
	}
	if cfg.Dataset.Path == "" {
		return config.Config{}, fmt.Errorf("no dataset: pass --data or set dataset.path in the config file")
	}

	log.SetPrefix("cputable")
	if cfg.Debug {
		log.SetLevel(log.DEBUG)
	} else {
		log.SetLevel(log.INFO)
	}
	return cfg, nil
}

// loadDataset reads and validates the configured dataset.
func loadDataset(ctx context.Context, cfg config.Config) (*engine.Dataset, error) {
	records, err := engine.LoadFile(ctx, cfg.Dataset.Path, cfg.LoadOptions())
	if err != nil {
		return nil, err
	}
	ds, err := engine.NewDataset(records, cfg.Bindings())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Dataset.Path, err)
	}
	return ds, nil
}
