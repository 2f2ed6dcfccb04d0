package main

import (
	"fmt"
	"os"

	"github.com/handiism/tubeaudio/internal/app"
	"github.com/handiism/tubeaudio/internal/config"
	"github.com/handiism/tubeaudio/internal/monitoring"
	"github.com/handiism/tubeaudio/internal/tui"
	"github.com/spf13/cobra"
)

var version = "dev"

var (
	configPath  string
	metricsAddr string
)

var rootCmd = &cobra.Command{
	Use:          "tubeaudio-tui",
	Short:        "Interactive search and download of video audio",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "Config file (default "+config.DefaultConfigPath()+")")
	rootCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	settings, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// The UI owns the terminal, so console logging is turned off.
	logCfg := settings.Logging
	switch logCfg.Output {
	case "console":
		logCfg.Output = "none"
	case "both":
		logCfg.Output = "file"
	}
	logger, err := monitoring.NewLogger(&logCfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	a, err := app.New(cmd.Context(), settings, logger)
	if err != nil {
		return err
	}
	if metricsAddr != "" {
		a.ServeMetrics(metricsAddr)
	}

	final, err := tui.Run(settings, a.Session, a.Orchestrator)
	if n := final.Running(); n > 0 {
		fmt.Printf("Waiting for %d running download(s)...\n", n)
	}

	if cerr := a.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
