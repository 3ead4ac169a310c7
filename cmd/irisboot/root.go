package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vsenadev/sanitary-surveillance/internal/config"
	"github.com/vsenadev/sanitary-surveillance/internal/telemetry"
)

var (
	cfgFile  string
	logLevel string

	// cfg is populated by PersistentPreRunE and shared with all subcommands.
	cfg *config.Config

	// app holds all wired dependencies; populated by PersistentPreRunE.
	app *AppContext
)

var rootCmd = &cobra.Command{
	Use:   "irisboot",
	Short: "irisboot — IRIS container boot sequencer",
	Long: `irisboot is the entrypoint of the sanitary-surveillance IRIS image.
It starts the IRIS instance, feeds the one-time import script to an
interactive session, stops the instance, and then execs the vendor's
iris-main process, forwarding the container's arguments unchanged.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		initLogger(logLevel, nil)

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		// --log-level flag takes precedence over value in config file.
		if !cmd.Flags().Changed("log-level") && cfg.Telemetry.LogLevel != "" {
			logLevel = cfg.Telemetry.LogLevel
		}

		app, err = buildAppContext(cfg)
		if err != nil {
			return fmt.Errorf("building app context: %w", err)
		}

		return nil
	}

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
}

// Execute is the entry point called by main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initLogger installs the default slog logger: JSON to stdout wrapped with
// trace correlation, optionally teed into extra handlers (the boot log file).
func initLogger(level string, extra []slog.Handler) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	if len(extra) > 0 {
		handler = telemetry.NewTeeHandler(append([]slog.Handler{handler}, extra...)...)
	}
	slog.SetDefault(slog.New(telemetry.NewTraceHandler(handler)))
}
