// Package config loads process-level configuration from an optional config
// file and HAYATI_* environment variables.
package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/julianstephens/hayati/internal/constants"
)

type APIConfig struct {
	Addr           string        `mapstructure:"addr"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
}

type StoreConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Debug bool `mapstructure:"debug"`
}

type NotifierConfig struct {
	TrayIdentifier string `mapstructure:"tray_identifier"`
	RatePerMinute  int    `mapstructure:"rate_per_minute"`
	DesktopEnabled bool   `mapstructure:"desktop_fallback"`
}

type PomodoroConfig struct {
	WorkMin         int  `mapstructure:"work_min"`
	ShortBreakMin   int  `mapstructure:"short_break_min"`
	LongBreakMin    int  `mapstructure:"long_break_min"`
	LongBreakEvery  int  `mapstructure:"long_break_every"`
	AutoStartBreaks bool `mapstructure:"auto_start_breaks"`
	AutoStartWork   bool `mapstructure:"auto_start_work"`
}

// Config holds process configuration. User preferences live in the settings
// row instead.
type Config struct {
	Database string         `mapstructure:"database"`
	API      APIConfig      `mapstructure:"api"`
	Store    StoreConfig    `mapstructure:"store"`
	Log      LogConfig      `mapstructure:"log"`
	Notifier NotifierConfig `mapstructure:"notifier"`
	Pomodoro PomodoroConfig `mapstructure:"pomodoro"`

	// ConfigDir is the directory holding the config file, logs and the default database.
	ConfigDir string `mapstructure:"-"`
	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

// DefaultConfigDir returns ~/.config/hayati with the home directory expanded.
func DefaultConfigDir() (string, error) {
	return ExpandPath(constants.DefaultConfigDir)
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("database", filepath.Join(configDir, constants.AppName+".db"))
	v.SetDefault("api.addr", constants.DefaultAPIAddr)
	v.SetDefault("api.allowed_origins", []string{constants.DefaultAPIAllowedOrigins})
	v.SetDefault("api.read_timeout", 15*time.Second)
	v.SetDefault("api.write_timeout", 15*time.Second)
	v.SetDefault("store.timeout", constants.DefaultStoreTimeout)
	v.SetDefault("log.debug", false)
	v.SetDefault("notifier.tray_identifier", constants.TrayAppIdentifier)
	v.SetDefault("notifier.rate_per_minute", constants.DefaultNotifyRatePerMin)
	v.SetDefault("notifier.desktop_fallback", true)
	v.SetDefault("pomodoro.work_min", constants.DefaultPomodoroWorkMin)
	v.SetDefault("pomodoro.short_break_min", constants.DefaultPomodoroShortBreakMin)
	v.SetDefault("pomodoro.long_break_min", constants.DefaultPomodoroLongBreakMin)
	v.SetDefault("pomodoro.long_break_every", constants.DefaultPomodoroLongBreakEvery)
	v.SetDefault("pomodoro.auto_start_breaks", constants.DefaultPomodoroAutoStartBreaks)
	v.SetDefault("pomodoro.auto_start_work", constants.DefaultPomodoroAutoStartWorking)
}

// Load reads configuration. An explicit path must exist; otherwise config.yaml
// (or .json/.toml) in the config directory is read when present.
func Load(path string) (Config, error) {
	configDir, err := DefaultConfigDir()
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	setDefaults(v, configDir)

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return Config{}, err
		}
		v.SetConfigFile(expanded)
		configDir = filepath.Dir(expanded)
	} else {
		v.SetConfigName(constants.DefaultConfigFile)
		v.AddConfigPath(configDir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !stderrors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.ConfigDir = configDir
	cfg.File = v.ConfigFileUsed()

	if cfg.Database, err = ExpandPath(cfg.Database); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later at startup.
func (c Config) Validate() error {
	if c.Store.Timeout <= 0 {
		return fmt.Errorf("store.timeout must be positive, got %s", c.Store.Timeout)
	}
	if c.Notifier.RatePerMinute <= 0 {
		return fmt.Errorf("notifier.rate_per_minute must be positive, got %d", c.Notifier.RatePerMinute)
	}
	if c.Pomodoro.WorkMin <= 0 || c.Pomodoro.ShortBreakMin <= 0 || c.Pomodoro.LongBreakMin <= 0 || c.Pomodoro.LongBreakEvery <= 0 {
		return fmt.Errorf("pomodoro durations and long_break_every must be positive")
	}
	if len(c.API.AllowedOrigins) == 0 {
		return fmt.Errorf("api.allowed_origins must not be empty")
	}
	return nil
}

// IsPostgres reports whether the database setting names a PostgreSQL server
// rather than a SQLite file.
func IsPostgres(database string) bool {
	if strings.HasPrefix(database, "postgres://") || strings.HasPrefix(database, "postgresql://") {
		return true
	}
	// key=value DSN
	return strings.Contains(database, "host=") || strings.Contains(database, "dbname=")
}
