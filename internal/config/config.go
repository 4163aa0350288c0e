// Package config resolves application settings from flags, environment
// variables and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

// Setting keys. Each maps to SUMRISE_<KEY> in the environment.
const (
	KeyStore     = "store"
	KeyDB        = "db"
	KeyRedisAddr = "redis_addr"
	KeyAddr      = "addr"
	KeyLogLevel  = "log_level"
	KeyProvider  = "llm_provider"
)

// Config holds application-level settings. Model gateway settings are
// resolved separately by llm.ConfigFromEnv.
type Config struct {
	Store     string
	DBPath    string
	RedisAddr string
	Addr      string
	LogLevel  string
	Provider  string
}

// LoadDotEnv loads variables from the given files (default ".env") into
// the process environment. Existing variables win. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
		log.Debug().Str("file", f).Msg("loaded env file")
	}
	return nil
}

// New returns a viper instance reading SUMRISE_* variables with defaults.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("SUMRISE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyStore, StoreMemory)
	v.SetDefault(KeyRedisAddr, "localhost:6379")
	v.SetDefault(KeyAddr, ":8080")
	v.SetDefault(KeyLogLevel, "info")
	return v
}

// BindFlags makes set flags override environment values. Flag names use
// dashes ("log-level" binds KeyLogLevel).
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var errs []error
	flags.VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if f.Name == "provider" {
			key = KeyProvider
		}
		if err := v.BindPFlag(key, f); err != nil {
			errs = append(errs, err)
		}
	})
	return errors.Join(errs...)
}

// Load reads the resolved settings and validates them.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Store:     strings.ToLower(v.GetString(KeyStore)),
		DBPath:    v.GetString(KeyDB),
		RedisAddr: v.GetString(KeyRedisAddr),
		Addr:      v.GetString(KeyAddr),
		LogLevel:  v.GetString(KeyLogLevel),
		Provider:  v.GetString(KeyProvider),
	}
	return cfg, cfg.Validate()
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreSQLite:
	case StoreRedis:
		if c.RedisAddr == "" {
			return errors.New("redis store requires SUMRISE_REDIS_ADDR")
		}
	default:
		return fmt.Errorf("unknown store %q (want memory, sqlite or redis)", c.Store)
	}
	return nil
}
