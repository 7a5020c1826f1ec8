// Package cli wires the cobra command tree. Running clipd without a
// subcommand starts the daemon in the foreground; the other commands
// talk to a running daemon over its command API.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tobq/clipboard-tray/internal/app"
	"github.com/tobq/clipboard-tray/internal/common"
	"github.com/tobq/clipboard-tray/internal/config"
)

var (
	// Flags that apply to all commands
	cfgFile   string
	logLevel  string
	noFileLog bool

	// The loaded configuration
	cfg *config.Config

	// Logger instance
	logger *zap.Logger

	// Version information, set by main
	Version   = "dev"
	BuildTime = "unknown"
	Commit    = "none"
)

// RootCmd is the base command. Without a subcommand it runs the daemon.
var RootCmd = &cobra.Command{
	Use:   "clipd",
	Short: "clipd is a clipboard history daemon",
	Long: `clipd watches the system clipboard and keeps a deduplicated,
pinnable history with quick-paste slots. A local UI drives it over a
loopback HTTP API; global hotkeys paste slots directly.

Running clipd without any commands starts the daemon in the foreground.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDaemon()
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if logLevel != "" {
			cfg.Log.Level = logLevel
		}
		if noFileLog {
			cfg.Log.EnableFileLogging = false
		}

		logger, err = common.NewLogger(cfg)
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
		return nil
	},
}

func runDaemon() error {
	daemon, err := app.New(cfg, logger)
	if err != nil {
		return err
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		logger.Info("shutdown signal received")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := daemon.Shutdown(ctx); err != nil {
			logger.Error("shutdown error", zap.Error(err))
		}
	}()

	return daemon.Run()
}

// Execute runs the command tree. Called once from main.
func Execute() {
	defer func() {
		if logger != nil {
			_ = logger.Sync()
		}
	}()
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// SetVersionInfo records build metadata for the version command.
func SetVersionInfo(version, buildTime, commit string) {
	Version = version
	BuildTime = buildTime
	Commit = commit
}

func init() {
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is the platform config dir)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	RootCmd.PersistentFlags().BoolVar(&noFileLog, "no-file-log", false, "disable logging to file")
}
