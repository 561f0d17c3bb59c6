// Package config loads settings from flags, C4MODEL_* environment variables,
// an optional .env file and an optional YAML config file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/c4-modeller/engine/internal/graphdb"
	"github.com/c4-modeller/engine/internal/persist"
)

// EnvPrefix prefixes every environment variable ("C4MODEL_STORE_TYPE").
const EnvPrefix = "C4MODEL"

// Config is the full application configuration.
type Config struct {
	LogLevel            string        `mapstructure:"log_level"`
	ComplexityThreshold int           `mapstructure:"complexity_threshold"`
	AutosaveInterval    time.Duration `mapstructure:"autosave_interval"`
	Store               StoreConfig   `mapstructure:"store"`
	Server              ServerConfig  `mapstructure:"server"`
	Neo4j               Neo4jConfig   `mapstructure:"neo4j"`
}

type StoreConfig struct {
	Type string `mapstructure:"type"`
	DSN  string `mapstructure:"dsn"`
	Key  string `mapstructure:"key"`
}

type ServerConfig struct {
	Addr    string `mapstructure:"addr"`
	Metrics bool   `mapstructure:"metrics"`
}

type Neo4jConfig struct {
	URI      string `mapstructure:"uri"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"log-level":  "log_level",
	"threshold":  "complexity_threshold",
	"autosave":   "autosave_interval",
	"store-type": "store.type",
	"store-dsn":  "store.dsn",
	"addr":       "server.addr",
}

// Options controls where Load looks for settings.
type Options struct {
	// ConfigFile is an explicit config file; when empty ./c4model.yaml is
	// read if present.
	ConfigFile string
	// EnvFiles are dotenv files to load; when empty ./.env is tried.
	EnvFiles []string
	// Flags, when set, override file and environment values for the flags
	// named in flagKeys that were changed on the command line.
	Flags *pflag.FlagSet
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("complexity_threshold", 15)
	v.SetDefault("autosave_interval", 30*time.Second)
	v.SetDefault("store.type", "file")
	v.SetDefault("store.dsn", "")
	v.SetDefault("store.key", persist.DefaultKey)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.metrics", true)
	v.SetDefault("neo4j.uri", "bolt://localhost:7687")
	v.SetDefault("neo4j.username", "neo4j")
	v.SetDefault("neo4j.password", "")
	v.SetDefault("neo4j.database", "neo4j")
}

// Load reads the configuration. Each call uses its own viper instance.
func Load(opts Options) (*Config, error) {
	// A missing .env is fine.
	if err := godotenv.Load(opts.EnvFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	v := viper.New()
	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName("c4model")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if opts.Flags != nil {
		for name, key := range flagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration with no file, environment or flags.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg := &Config{}
	_ = v.Unmarshal(cfg)
	return cfg
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	var problems []string

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		problems = append(problems, fmt.Sprintf("log_level must be debug, info, warn or error, got: %q", c.LogLevel))
	}
	if c.ComplexityThreshold <= 0 {
		problems = append(problems, fmt.Sprintf("complexity_threshold must be positive, got: %d", c.ComplexityThreshold))
	}
	if c.AutosaveInterval <= 0 {
		problems = append(problems, fmt.Sprintf("autosave_interval must be positive, got: %v", c.AutosaveInterval))
	}
	switch strings.ToLower(c.Store.Type) {
	case "file", "sqlite", "sqlite3":
	case "postgres", "postgresql":
		if c.Store.DSN == "" {
			problems = append(problems, "store.dsn is required for postgres")
		}
	default:
		problems = append(problems, fmt.Sprintf("store.type must be file, sqlite or postgres, got: %q", c.Store.Type))
	}
	if c.Store.Key == "" {
		problems = append(problems, "store.key must not be empty")
	}
	if c.Server.Addr == "" {
		problems = append(problems, "server.addr must not be empty")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// ValidateNeo4j checks the settings a graph sync needs.
func (c *Config) ValidateNeo4j() error {
	var missing []string
	if c.Neo4j.URI == "" {
		missing = append(missing, "neo4j.uri")
	}
	if c.Neo4j.Username == "" {
		missing = append(missing, "neo4j.username")
	}
	if c.Neo4j.Password == "" {
		missing = append(missing, "neo4j.password")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// BlobStore returns the persistence settings.
func (c *Config) BlobStore() persist.StoreConfig {
	return persist.StoreConfig{Type: c.Store.Type, DSN: c.Store.DSN, Key: c.Store.Key}
}

// Graph returns the Neo4j connection settings.
func (c *Config) Graph() graphdb.Config {
	return graphdb.Config{
		URI:      c.Neo4j.URI,
		Username: c.Neo4j.Username,
		Password: c.Neo4j.Password,
		Database: c.Neo4j.Database,
	}
}
