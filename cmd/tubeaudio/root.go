package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/handiism/tubeaudio/internal/app"
	"github.com/handiism/tubeaudio/internal/config"
	"github.com/handiism/tubeaudio/internal/monitoring"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "dev"

var (
	configPath  string
	jsonOutput  bool
	metricsAddr string
	verbose     bool

	settings *config.Settings
	logger   *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tubeaudio",
	Short: "Search videos and download them as tagged MP3 files",
	Long: `tubeaudio - search an Invidious catalog and download audio with yt-dlp

Downloaded files are tagged (ID3v2.4), get their lyrics embedded and can
be appended to an M3U playlist. Every finished job is kept in a local
history database.

For interactive mode, use: tubeaudio-tui`,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
}

// Execute runs the root command with a context cancelled on SIGINT or
// SIGTERM.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default "+config.DefaultConfigPath()+")")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log to stderr at debug level")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("tubeaudio {{.Version}}\n")
}

func loadSettings(cmd *cobra.Command, args []string) error {
	var err error
	settings, err = config.Load(configPath)
	if err != nil {
		return err
	}

	logCfg := settings.Logging
	if verbose {
		logCfg.Level = "debug"
		logCfg.Format = "console"
		logCfg.Output = "both"
	}
	logger, err = monitoring.NewLogger(&logCfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	return nil
}

func newApp(cmd *cobra.Command, opts ...app.Option) (*app.App, error) {
	a, err := app.New(cmd.Context(), settings, logger, opts...)
	if err != nil {
		return nil, err
	}
	if metricsAddr != "" {
		a.ServeMetrics(metricsAddr)
	}
	return a, nil
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}
