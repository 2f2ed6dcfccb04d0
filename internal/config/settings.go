package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/handiism/tubeaudio/internal/monitoring"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables overriding settings,
// e.g. TUBEAUDIO_DOWNLOADS_PATH or TUBEAUDIO_LOGGING_LEVEL.
const EnvPrefix = "TUBEAUDIO"

// Settings holds all configuration options.
type Settings struct {
	// Download settings
	DownloadsPath      string  `json:"downloads_path" mapstructure:"downloads_path"`
	ToolPath           string  `json:"tool_path" mapstructure:"tool_path"`
	SettleDelaySeconds float64 `json:"settle_delay_seconds" mapstructure:"settle_delay_seconds"`
	StateBuffer        int     `json:"state_buffer" mapstructure:"state_buffer"`

	// Catalog settings
	Instances             []string `json:"instances" mapstructure:"instances"`
	DiscoverInstances     bool     `json:"discover_instances" mapstructure:"discover_instances"`
	ParallelProbes        int      `json:"parallel_probes" mapstructure:"parallel_probes"`
	RequestTimeoutSeconds float64  `json:"request_timeout_seconds" mapstructure:"request_timeout_seconds"`
	RequestsPerSecond     float64  `json:"requests_per_second" mapstructure:"requests_per_second"`
	RollbackPageOnError   bool     `json:"rollback_page_on_error" mapstructure:"rollback_page_on_error"`

	// Tag settings
	ModifyTags        bool `json:"modify_tags" mapstructure:"modify_tags"`
	EmbedLyrics       bool `json:"embed_lyrics" mapstructure:"embed_lyrics"`
	KeepLyricsFiles   bool `json:"keep_lyrics_files" mapstructure:"keep_lyrics_files"`
	CoverMaxSize      int  `json:"cover_max_size" mapstructure:"cover_max_size"`
	ConvertCoverToJPG bool `json:"convert_cover_to_jpg" mapstructure:"convert_cover_to_jpg"`

	// Playlist settings
	AppendPlaylist bool   `json:"append_playlist" mapstructure:"append_playlist"`
	PlaylistName   string `json:"playlist_name" mapstructure:"playlist_name"`
	M3UExtended    bool   `json:"m3u_extended" mapstructure:"m3u_extended"`

	// History settings
	HistoryPath string `json:"history_path" mapstructure:"history_path"`

	Logging monitoring.LogConfig `json:"logging" mapstructure:"logging"`
}

// DefaultInstances is the built-in list of Invidious instances.
var DefaultInstances = []string{
	"https://inv.nadeko.net",
	"https://invidious.nerdvpn.de",
	"https://yewtu.be",
	"https://invidious.f5.si",
	"https://inv.perditum.com",
}

// DataDir returns the directory holding logs, history and the default
// config file.
func DataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "tubeaudio")
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".tubeaudio")
}

// DefaultConfigPath returns the config file used when none is given.
func DefaultConfigPath() string {
	return filepath.Join(DataDir(), "settings.json")
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	dataDir := DataDir()
	return &Settings{
		DownloadsPath:      filepath.Join(homeDir, "Music"),
		ToolPath:           "yt-dlp",
		SettleDelaySeconds: 5,
		StateBuffer:        64,

		Instances:             append([]string(nil), DefaultInstances...),
		DiscoverInstances:     false,
		ParallelProbes:        3,
		RequestTimeoutSeconds: 15,
		RequestsPerSecond:     5,
		RollbackPageOnError:   false,

		ModifyTags:        true,
		EmbedLyrics:       true,
		KeepLyricsFiles:   false,
		CoverMaxSize:      1000,
		ConvertCoverToJPG: true,

		AppendPlaylist: false,
		PlaylistName:   "tubeaudio",
		M3UExtended:    true,

		HistoryPath: filepath.Join(dataDir, "history.db"),

		Logging: *monitoring.DefaultLogConfig(dataDir),
	}
}

// Load reads settings from a JSON file, applying TUBEAUDIO_* environment
// overrides. A missing file yields the defaults.
func Load(path string) (*Settings, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	v := viper.New()
	setDefaults(v, DefaultSettings())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &settings, nil
}

// Validate checks value ranges.
func (s *Settings) Validate() error {
	if s.ToolPath == "" {
		return fmt.Errorf("tool path cannot be empty")
	}
	if s.SettleDelaySeconds < 0 {
		return fmt.Errorf("settle delay cannot be negative")
	}
	if s.StateBuffer < 0 {
		return fmt.Errorf("state buffer cannot be negative")
	}
	if s.ParallelProbes < 1 {
		return fmt.Errorf("parallel probes must be at least 1")
	}
	if s.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	if s.RequestsPerSecond < 0 {
		return fmt.Errorf("requests per second cannot be negative")
	}
	if len(s.Instances) == 0 && !s.DiscoverInstances {
		return fmt.Errorf("no catalog instances configured and discovery disabled")
	}
	if s.CoverMaxSize < 0 {
		return fmt.Errorf("cover max size cannot be negative")
	}
	if s.AppendPlaylist && s.PlaylistName == "" {
		return fmt.Errorf("playlist name cannot be empty when append_playlist is set")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[s.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", s.Logging.Level)
	}
	validOutputs := map[string]bool{"file": true, "console": true, "both": true, "none": true}
	if !validOutputs[s.Logging.Output] {
		return fmt.Errorf("invalid log output: %s (must be file, console, both, or none)", s.Logging.Output)
	}

	return nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// SettleDelay returns the pause between an intermediate and the terminal
// download state.
func (s *Settings) SettleDelay() time.Duration {
	return time.Duration(s.SettleDelaySeconds * float64(time.Second))
}

// RequestTimeout returns the catalog HTTP timeout.
func (s *Settings) RequestTimeout() time.Duration {
	return time.Duration(s.RequestTimeoutSeconds * float64(time.Second))
}

func setDefaults(v *viper.Viper, d *Settings) {
	v.SetDefault("downloads_path", d.DownloadsPath)
	v.SetDefault("tool_path", d.ToolPath)
	v.SetDefault("settle_delay_seconds", d.SettleDelaySeconds)
	v.SetDefault("state_buffer", d.StateBuffer)

	v.SetDefault("instances", d.Instances)
	v.SetDefault("discover_instances", d.DiscoverInstances)
	v.SetDefault("parallel_probes", d.ParallelProbes)
	v.SetDefault("request_timeout_seconds", d.RequestTimeoutSeconds)
	v.SetDefault("requests_per_second", d.RequestsPerSecond)
	v.SetDefault("rollback_page_on_error", d.RollbackPageOnError)

	v.SetDefault("modify_tags", d.ModifyTags)
	v.SetDefault("embed_lyrics", d.EmbedLyrics)
	v.SetDefault("keep_lyrics_files", d.KeepLyricsFiles)
	v.SetDefault("cover_max_size", d.CoverMaxSize)
	v.SetDefault("convert_cover_to_jpg", d.ConvertCoverToJPG)

	v.SetDefault("append_playlist", d.AppendPlaylist)
	v.SetDefault("playlist_name", d.PlaylistName)
	v.SetDefault("m3u_extended", d.M3UExtended)

	v.SetDefault("history_path", d.HistoryPath)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output", d.Logging.Output)
	v.SetDefault("logging.file_path", d.Logging.FilePath)
	v.SetDefault("logging.max_size_mb", d.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", d.Logging.MaxBackups)
	v.SetDefault("logging.max_age_days", d.Logging.MaxAgeDays)
	v.SetDefault("logging.compress", d.Logging.Compress)
}
