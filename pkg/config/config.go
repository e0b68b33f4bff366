// Package config loads beanchain settings.
//
// Settings come from three layers, later layers winning:
//
//  1. [Default] values
//  2. a TOML or YAML file, selected by extension (.toml, .yaml, .yml)
//  3. BEANCHAIN_* environment variables (see [Config.ApplyEnv])
//
// Command-line flags are applied by the CLI on top of the loaded value.
//
// # Example file
//
//	[source]
//	kind = "file"
//	path = "iuap-apdoc-basedoc.json"
//
//	[server]
//	port = 8000
//	static_dir = "static"
//
//	[cache]
//	capacity = 32
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/beanchain/pkg/bean"
	"github.com/matzehuels/beanchain/pkg/errors"
)

// Source kinds.
const (
	SourceFile  = "file"
	SourceMongo = "mongo"
	SourceRedis = "redis"
)

// Defaults.
const (
	DefaultDataPath  = "iuap-apdoc-basedoc.json"
	DefaultPort      = 8000
	DefaultStaticDir = "static"
	DefaultCapacity  = 32

	DefaultMongoCollection = "beans"
	DefaultRedisKey        = "beanchain:beans"
)

// Environment variables read by [Config.ApplyEnv].
const (
	EnvData   = "BEANCHAIN_DATA"
	EnvPort   = "BEANCHAIN_PORT"
	EnvSource = "BEANCHAIN_SOURCE"
)

// Config is the complete beanchain configuration.
type Config struct {
	Source   Source   `toml:"source" yaml:"source"`
	Server   Server   `toml:"server" yaml:"server"`
	Cache    Cache    `toml:"cache" yaml:"cache"`
	Classify Classify `toml:"classify" yaml:"classify"`
}

// Source selects where bean records are loaded from.
type Source struct {
	Kind string `toml:"kind" yaml:"kind"` // file, mongo or redis
	Path string `toml:"path" yaml:"path"`

	MongoURI        string `toml:"mongo_uri" yaml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database" yaml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection" yaml:"mongo_collection"`

	RedisAddr     string `toml:"redis_addr" yaml:"redis_addr"`
	RedisKey      string `toml:"redis_key" yaml:"redis_key"`
	RedisPassword string `toml:"redis_password" yaml:"redis_password"`
	RedisDB       int    `toml:"redis_db" yaml:"redis_db"`
}

// Server configures the HTTP server.
type Server struct {
	Port      int    `toml:"port" yaml:"port"`
	StaticDir string `toml:"static_dir" yaml:"static_dir"`
	Watch     bool   `toml:"watch" yaml:"watch"`
}

// Cache configures the view cache.
type Cache struct {
	Capacity int `toml:"capacity" yaml:"capacity"`
}

// Classify overrides the bean classification rules.
type Classify struct {
	FrameworkSourcePrefix string `toml:"framework_source_prefix" yaml:"framework_source_prefix"`
	FrameworkNamePrefix   string `toml:"framework_name_prefix" yaml:"framework_name_prefix"`
	ThirdPartySource      string `toml:"third_party_source" yaml:"third_party_source"`
}

// Default returns the built-in configuration.
func Default() Config {
	c := bean.DefaultClassifier()
	return Config{
		Source: Source{
			Kind:            SourceFile,
			Path:            DefaultDataPath,
			MongoCollection: DefaultMongoCollection,
			RedisKey:        DefaultRedisKey,
		},
		Server: Server{
			Port:      DefaultPort,
			StaticDir: DefaultStaticDir,
		},
		Cache: Cache{Capacity: DefaultCapacity},
		Classify: Classify{
			FrameworkSourcePrefix: c.FrameworkSourcePrefix,
			FrameworkNamePrefix:   c.FrameworkNamePrefix,
			ThirdPartySource:      c.ThirdPartySource,
		},
	}
}

// Load reads path on top of [Default] and applies environment overrides.
// An empty path skips the file layer.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.New(errors.ErrCodeInvalidConfig, "config file not found: %s", path)
		}
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, c); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unsupported config format %q (use .toml, .yaml or .yml)", ext)
	}
	return nil
}

// ApplyEnv overrides fields from environment variables looked up with
// lookup (usually [os.LookupEnv]).
//
//   - BEANCHAIN_DATA sets the file path
//   - BEANCHAIN_PORT sets the server port
//   - BEANCHAIN_SOURCE sets the source kind
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvData); ok && v != "" {
		c.Source.Path = v
	}
	if v, ok := lookup(EnvSource); ok && v != "" {
		c.Source.Kind = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := lookup(EnvPort); ok && v != "" {
		port, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s must be a number, got %q", EnvPort, v)
		}
		c.Server.Port = port
	}
	return nil
}

// Validate checks the configuration for the selected source kind.
func (c Config) Validate() error {
	switch c.Source.Kind {
	case SourceFile:
		if c.Source.Path == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "source.path is required for file sources")
		}
	case SourceMongo:
		if c.Source.MongoURI == "" || c.Source.MongoDatabase == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "source.mongo_uri and source.mongo_database are required for mongo sources")
		}
	case SourceRedis:
		if c.Source.RedisAddr == "" || c.Source.RedisKey == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "source.redis_addr and source.redis_key are required for redis sources")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown source kind %q (use file, mongo or redis)", c.Source.Kind)
	}
	if err := errors.ValidatePort(c.Server.Port); err != nil {
		return err
	}
	if c.Cache.Capacity < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.capacity must not be negative")
	}
	return nil
}

// Classifier returns the bean classifier described by the configuration.
// Blank fields keep the default rule.
func (c Config) Classifier() bean.Classifier {
	out := bean.DefaultClassifier()
	if c.Classify.FrameworkSourcePrefix != "" {
		out.FrameworkSourcePrefix = c.Classify.FrameworkSourcePrefix
	}
	if c.Classify.FrameworkNamePrefix != "" {
		out.FrameworkNamePrefix = c.Classify.FrameworkNamePrefix
	}
	if c.Classify.ThirdPartySource != "" {
		out.ThirdPartySource = c.Classify.ThirdPartySource
	}
	return out
}
