// Package config loads qrdrop configuration from flags, environment
// variables, and an optional YAML file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"qrdrop/internal/logger"
)

// envPrefix means QRDROP_HOST, QRDROP_TTL, QRDROP_LOGGING_LEVEL, and so on.
const envPrefix = "QRDROP"

// ErrInvalid marks configuration that must abort startup.
var ErrInvalid = errors.New("invalid configuration")

// Config is the full static configuration of a qrdrop run.
//
// Sources, highest precedence first:
//  1. CLI flags
//  2. Environment variables (QRDROP_*)
//  3. Configuration file (YAML, via --config)
//  4. Defaults
type Config struct {
	// Host is the bind address.
	Host string `mapstructure:"host"`

	// Port is the bind port; 0 picks a free ephemeral port.
	Port int `mapstructure:"port"`

	// TTL is how long the access link stays valid.
	TTL time.Duration `mapstructure:"ttl"`

	// UploadDir is where received files are written (upload mode).
	UploadDir string `mapstructure:"upload_dir"`

	// ExitOnComplete terminates the process after the first successful
	// transfer.
	ExitOnComplete bool `mapstructure:"exit_on_complete"`

	// Logging controls log output.
	Logging logger.Config `mapstructure:"logging"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 0)
	v.SetDefault("ttl", 15*time.Minute)
	v.SetDefault("upload_dir", "uploads")
	v.SetDefault("exit_on_complete", false)
	v.SetDefault("logging.level", "INFO")
	v.SetDefault("logging.format", "text")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration from the given file (optional) plus environment
// and defaults, then validates it.
func Load(cfgFile string) (*Config, error) {
	v := newViper()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %q: %w", cfgFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the invariants the rest of the program relies on.
func (c *Config) Validate() error {
	if c.TTL <= 0 {
		return fmt.Errorf("%w: ttl must be positive, got %s", ErrInvalid, c.TTL)
	}
	if c.Host == "" {
		return fmt.Errorf("%w: host must not be empty", ErrInvalid)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalid, c.Port)
	}
	if c.UploadDir == "" {
		return fmt.Errorf("%w: upload_dir must not be empty", ErrInvalid)
	}
	return nil
}
