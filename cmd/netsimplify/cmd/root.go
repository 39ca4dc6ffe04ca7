package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"netsimplify/pkg/cfg"
)

var (
	// Global flags
	configPath string
	verbose    bool

	conf   = cfg.Default()
	logger = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "netsimplify",
	Short: "Simplify the traces of PCB net signals",
	Long: `netsimplify cleans up the copper traces of a board: duplicate lines are
removed, coinciding net points are merged, vias and pads are joined to the
traces running over them, and straight chains become single lines.

Boards are YAML files with coordinates in nanometers.

Examples:
  netsimplify nets --board demo.yaml --at 5000000,0
  netsimplify simplify --board demo.yaml --at 5000000,0 --out clean.yaml
  netsimplify simplify --board demo.yaml --at 0,0 --metrics`,
	Version:           "0.1.0",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func setup(cmd *cobra.Command, args []string) error {
	c, err := cfg.Load(configPath)
	if err != nil {
		return err
	}
	if verbose {
		c.Log.Level = "debug"
	}
	c.Apply()
	conf = c
	logger = newLogger(cmd.ErrOrStderr(), c)
	slog.SetDefault(logger)
	return nil
}

func newLogger(w io.Writer, c cfg.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
