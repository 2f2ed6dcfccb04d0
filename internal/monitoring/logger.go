package monitoring

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig is the "logging" section of the settings file.
//
// Output is one of file, console, both or none; Format is json or console.
// The rotation fields apply to file output.
type LogConfig struct {
	Level    string `json:"level" mapstructure:"level"`
	Format   string `json:"format" mapstructure:"format"`
	Output   string `json:"output" mapstructure:"output"`
	FilePath string `json:"file_path" mapstructure:"file_path"`

	MaxSizeMB  int  `json:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int  `json:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int  `json:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool `json:"compress" mapstructure:"compress"`
}

// DefaultLogConfig logs info and above as JSON to
// <dataDir>/logs/tubeaudio.log. The TUI owns the terminal, so nothing goes
// to stderr by default.
func DefaultLogConfig(dataDir string) *LogConfig {
	return &LogConfig{
		Level:      "info",
		Format:     "json",
		Output:     "file",
		FilePath:   filepath.Join(dataDir, "logs", "tubeaudio.log"),
		MaxSizeMB:  20,
		MaxBackups: 3,
		MaxAgeDays: 30,
		Compress:   true,
	}
}

// NewLogger builds the application logger from cfg. A nil cfg or the
// "none" output yields a no-op logger.
func NewLogger(cfg *LogConfig) (*zap.Logger, error) {
	if cfg == nil || cfg.Output == "none" {
		return zap.NewNop(), nil
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	var sinks []zapcore.WriteSyncer
	switch cfg.Output {
	case "file":
		sink, err := fileSink(cfg)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, sink)
	case "console":
		sinks = append(sinks, zapcore.Lock(os.Stderr))
	case "both":
		sink, err := fileSink(cfg)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, sink, zapcore.Lock(os.Stderr))
	default:
		return nil, fmt.Errorf("invalid log output: %q", cfg.Output)
	}

	core := zapcore.NewCore(newEncoder(cfg.Format), zapcore.NewMultiWriteSyncer(sinks...), level)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

func newEncoder(format string) zapcore.Encoder {
	ec := zap.NewProductionEncoderConfig()
	ec.TimeKey = "timestamp"
	ec.EncodeTime = zapcore.ISO8601TimeEncoder

	if format == "console" {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(ec)
	}
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewJSONEncoder(ec)
}

// fileSink writes to cfg.FilePath, rotated by lumberjack.
func fileSink(cfg *LogConfig) (zapcore.WriteSyncer, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}), nil
}
