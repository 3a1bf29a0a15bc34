package pipeline

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/molline/pkg/cache"
	"github.com/matzehuels/molline/pkg/errors"
	"github.com/matzehuels/molline/pkg/line"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Registry backends.
const (
	RegistryMemory = "memory"
	RegistryFile   = "file"
	RegistryMongo  = "mongo"
)

// Config is the on-disk configuration shared by the CLI and the server.
type Config struct {
	Line     line.Options   `toml:"line" yaml:"line"`
	Batch    BatchConfig    `toml:"batch" yaml:"batch"`
	Cache    CacheConfig    `toml:"cache" yaml:"cache"`
	Server   ServerConfig   `toml:"server" yaml:"server"`
	Registry RegistryConfig `toml:"registry" yaml:"registry"`
}

// BatchConfig tunes batch execution.
type BatchConfig struct {
	Format   string        `toml:"format" yaml:"format"`
	Workers  int           `toml:"workers" yaml:"workers"`
	CacheTTL time.Duration `toml:"cache_ttl" yaml:"cache_ttl"`
}

// CacheConfig selects and configures the result cache.
type CacheConfig struct {
	Backend string            `toml:"backend" yaml:"backend"` // file, redis or none
	Dir     string            `toml:"dir" yaml:"dir"`         // file backend; empty means the user cache dir
	Redis   cache.RedisConfig `toml:"redis" yaml:"redis"`
}

// ServerConfig configures `molline serve`.
type ServerConfig struct {
	Addr         string        `toml:"addr" yaml:"addr"`
	ReadTimeout  time.Duration `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout" yaml:"write_timeout"`
	MaxBatch     int           `toml:"max_batch" yaml:"max_batch"`
}

// RegistryConfig selects the canonical registry store.
type RegistryConfig struct {
	Backend    string `toml:"backend" yaml:"backend"` // memory, file or mongo
	Dir        string `toml:"dir" yaml:"dir"`         // file backend
	URI        string `toml:"uri" yaml:"uri"`
	Database   string `toml:"database" yaml:"database"`
	Collection string `toml:"collection" yaml:"collection"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Line: line.DefaultOptions(),
		Batch: BatchConfig{
			Format:   DefaultFormat,
			CacheTTL: DefaultCacheTTL,
		},
		Cache: CacheConfig{
			Backend: CacheFile,
			Redis:   cache.RedisConfig{Addr: "localhost:6379", Prefix: "molline:"},
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
			MaxBatch:     10000,
		},
		Registry: RegistryConfig{
			Backend:    RegistryMemory,
			URI:        "mongodb://localhost:27017",
			Database:   "molline",
			Collection: "molecules",
		},
	}
}

// LoadConfig reads a TOML (.toml) or YAML (.yaml, .yml) file over
// DefaultConfig. Keys absent from the file keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if err := errors.ValidatePath(path); err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidPath, err, "read config")
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		md, err := dec.Decode(&cfg)
		if err != nil {
			return cfg, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return cfg, errors.New(errors.ErrCodeInvalidOption, "unknown config key %q", undecoded[0].String())
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return cfg, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", path)
		}
	default:
		return cfg, errors.New(errors.ErrCodeInvalidFormat, "unsupported config extension %q (use .toml, .yaml or .yml)", ext)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks backend names and option values.
func (c Config) Validate() error {
	if err := c.Line.Validate(); err != nil {
		return err
	}
	opts := c.Options()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case CacheFile, CacheRedis, CacheNone:
	default:
		return errors.New(errors.ErrCodeInvalidOption, "invalid cache backend %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	switch c.Registry.Backend {
	case RegistryMemory, RegistryFile, RegistryMongo:
	default:
		return errors.New(errors.ErrCodeInvalidOption, "invalid registry backend %q (must be one of: memory, file, mongo)", c.Registry.Backend)
	}
	if c.Server.MaxBatch < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "server max_batch must be >= 0, got %d", c.Server.MaxBatch)
	}
	return nil
}

// Options returns the pipeline options described by the config.
func (c Config) Options() Options {
	return Options{
		Line:     c.Line,
		Format:   c.Batch.Format,
		Workers:  c.Batch.Workers,
		CacheTTL: c.Batch.CacheTTL,
	}
}
