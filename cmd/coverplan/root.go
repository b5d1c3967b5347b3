package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	applog "github.com/piwi3910/CoverPlan/internal/log"
	"github.com/piwi3910/CoverPlan/internal/model"
	"github.com/piwi3910/CoverPlan/internal/project"
)

// Values of the persistent flags shared by every command.
var (
	configPath string
	logLevel   string
	logPath    string
)

// cfg is the configuration loaded before any command runs, with flag
// overrides applied.
var cfg = model.DefaultAppConfig()

// logger is set up from cfg before any command runs.
var logger = slog.Default()

// rootCmd optimizes an input file when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "coverplan [input]",
	Short: "Cover marked grid cells with labeled rectangles at minimum cost",
	Long: `coverplan reads fields of '.' and '@' cells, covers every '@' with
axis-aligned rectangles costing 10 plus their area each, and writes the
labeled coverings. A line starting with a number bounds how many rectangles
the field below it may use.`,
	Args:              cobra.MaximumNArgs(1),
	PersistentPreRunE: setup,
	RunE:              runSolveCmd,
	SilenceUsage:      true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	err := rootCmd.Execute()
	applog.Close()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", project.DefaultConfigPath(), "config file (.yaml, .yml or .json)")
	flags.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.StringVar(&logPath, "log-path", "", "write logs to this file instead of stdout")

	addSolveFlags(rootCmd)
}

// setup loads the config, applies flag overrides and initializes logging.
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := project.LoadConfig(configPath)
	if err != nil {
		return err
	}
	cfg = loaded

	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if cmd.Flags().Changed("log-path") {
		cfg.LogPath = logPath
	}

	l, err := applog.Init(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	logger = l
	return nil
}

// inputPath returns the positional input or the default file name.
func inputPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return defaultInput
}
