// Package config loads minisong settings from the config file, the
// environment and command line flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. MINISONG_MPD_HOST.
const EnvPrefix = "MINISONG"

// Config holds application configuration.
type Config struct {
	MPD MPDConfig `mapstructure:"mpd"`
	UI  UIConfig  `mapstructure:"ui"`
	Log LogConfig `mapstructure:"log"`
}

// MPDConfig holds the server connection settings.
type MPDConfig struct {
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// Addr returns host:port.
func (c MPDConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// UIConfig holds presentation settings.
type UIConfig struct {
	PollInterval        time.Duration `mapstructure:"poll_interval"`
	ReconnectDelay      time.Duration `mapstructure:"reconnect_delay"`
	KeyboardEnhancement bool          `mapstructure:"keyboard_enhancement"`
	Mouse               bool          `mapstructure:"mouse"`
	ArtCacheSize        int           `mapstructure:"art_cache_size"`
}

// LogConfig holds log file settings.
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// SlogLevel parses Level.
func (c LogConfig) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Level)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", c.Level, err)
	}
	return l, nil
}

// Dir returns the minisong configuration directory.
// Respects XDG_CONFIG_HOME on Unix, APPDATA on Windows.
func Dir() string {
	var base string

	if runtime.GOOS == "windows" {
		base = os.Getenv("APPDATA")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	} else {
		base = os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			home, _ := os.UserHomeDir()
			base = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(base, "minisong")
}

// File returns the path to the default config file.
func File() string {
	return filepath.Join(Dir(), "config.toml")
}

// DefaultLogFile returns the log path used when none is configured.
func DefaultLogFile() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "minisong", "minisong.log")
}

// Flags returns the command line flags Load understands.
func Flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("minisong", pflag.ContinueOnError)
	fs.StringP("config", "c", "", "config file (default "+File()+")")
	fs.StringP("host", "H", "", "MPD host")
	fs.IntP("port", "p", 0, "MPD port")
	fs.String("password", "", "MPD password")
	fs.String("log-file", "", "log file path")
	fs.String("log-level", "", "log level (debug, info, warn, error)")
	return fs
}

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"host":      "mpd.host",
	"port":      "mpd.port",
	"password":  "mpd.password",
	"log-file":  "log.file",
	"log-level": "log.level",
}

// Load reads configuration with this precedence: flags, environment,
// config file, defaults. fs may be nil. Env var overrides use prefix
// MINISONG_; MPD_HOST and MPD_PORT are honored as well, and a
// "password@host" MPD_HOST sets the password.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("mpd.host", "localhost")
	v.SetDefault("mpd.port", 6600)
	v.SetDefault("mpd.password", "")
	v.SetDefault("mpd.timeout", 5*time.Second)
	v.SetDefault("ui.poll_interval", 500*time.Millisecond)
	v.SetDefault("ui.reconnect_delay", 2*time.Second)
	v.SetDefault("ui.keyboard_enhancement", false)
	v.SetDefault("ui.mouse", true)
	v.SetDefault("ui.art_cache_size", 32)
	v.SetDefault("log.file", DefaultLogFile())
	v.SetDefault("log.level", "info")

	v.SetConfigType("toml")

	cfgPath := os.Getenv(EnvPrefix + "_CONFIG")
	if fs != nil {
		if f := fs.Lookup("config"); f != nil && f.Changed {
			cfgPath = f.Value.String()
		}
	}
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(Dir())
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := v.BindEnv("mpd.host", EnvPrefix+"_MPD_HOST", "MPD_HOST"); err != nil {
		return Config{}, err
	}
	if err := v.BindEnv("mpd.port", EnvPrefix+"_MPD_PORT", "MPD_PORT"); err != nil {
		return Config{}, err
	}

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	// A missing default file is fine, an unreadable one is not.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if pw, host, ok := strings.Cut(c.MPD.Host, "@"); ok && host != "" {
		c.MPD.Host = host
		if c.MPD.Password == "" {
			c.MPD.Password = pw
		}
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks values that would make the client unusable.
func (c Config) Validate() error {
	var errs []error
	if c.MPD.Host == "" {
		errs = append(errs, errors.New("mpd.host is empty"))
	}
	if c.MPD.Port <= 0 || c.MPD.Port > 65535 {
		errs = append(errs, fmt.Errorf("mpd.port %d out of range", c.MPD.Port))
	}
	if c.MPD.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("mpd.timeout %v must be positive", c.MPD.Timeout))
	}
	if c.UI.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("ui.poll_interval %v must be positive", c.UI.PollInterval))
	}
	if c.UI.ReconnectDelay <= 0 {
		errs = append(errs, fmt.Errorf("ui.reconnect_delay %v must be positive", c.UI.ReconnectDelay))
	}
	if c.UI.ArtCacheSize <= 0 {
		errs = append(errs, fmt.Errorf("ui.art_cache_size %d must be positive", c.UI.ArtCacheSize))
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
