package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Lock acquisition modes for the transaction coordinator.
const (
	LockModeTryLock = "trylock" // fail immediately when an account is busy
	LockModeWait    = "wait"    // block up to lock.wait_timeout
)

// Config holds all application configuration.
type Config struct {
	Ledger    LedgerConfig    `mapstructure:"ledger"`
	Lock      LockConfig      `mapstructure:"lock"`
	Statement StatementConfig `mapstructure:"statement"`
	Log       LogConfig       `mapstructure:"log"`
}

type LedgerConfig struct {
	// NodeID seeds the account-number generator; processes sharing a store
	// snapshot must use distinct node ids so numbers never collide.
	NodeID int64 `mapstructure:"node_id"`
	// DefaultActor is recorded on audit entries when the caller supplies
	// no acting-user identity.
	DefaultActor string `mapstructure:"default_actor"`
}

type LockConfig struct {
	Mode        string        `mapstructure:"mode"` // trylock, wait
	WaitTimeout time.Duration `mapstructure:"wait_timeout"`
}

type StatementConfig struct {
	OutputDir string `mapstructure:"output_dir"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: BANKCORE_.
// Nested keys use underscore: BANKCORE_LOCK_MODE, BANKCORE_LOG_LEVEL, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("ledger.node_id", 1)
	v.SetDefault("ledger.default_actor", "system")
	v.SetDefault("lock.mode", LockModeTryLock)
	v.SetDefault("lock.wait_timeout", "5s")
	v.SetDefault("statement.output_dir", ".")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: BANKCORE_LOCK_MODE -> lock.mode
	v.SetEnvPrefix("BANKCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required — env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if cfg.Lock.Mode != LockModeTryLock && cfg.Lock.Mode != LockModeWait {
		return nil, fmt.Errorf("invalid lock.mode %q: must be %s or %s", cfg.Lock.Mode, LockModeTryLock, LockModeWait)
	}

	return &cfg, nil
}
