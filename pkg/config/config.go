// Package config loads gridrule settings from a TOML file.
//
// Every field is optional; missing values fall back to the pipeline
// defaults. A full file looks like:
//
//	solver = "auto"
//
//	[movement]
//	markers = [2, 4, 3]
//	trail = 5
//
//	[stacking]
//	fallback = [2, 2]
//
//	[denoise]
//	min_rows = 4
//	min_cols = 4
//	threshold = 0.85
//
//	[cache]
//	backend = "file"   # file, redis or none
//	dir = "~/.cache/gridrule"
//
//	[cache.redis]
//	addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
//
//	[palette]
//	1 = "#0074D9"
//	2 = "#FF4136"
package config

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/gridrule/pkg/cache"
	"github.com/matzehuels/gridrule/pkg/denoise"
	"github.com/matzehuels/gridrule/pkg/errors"
	"github.com/matzehuels/gridrule/pkg/grid"
	"github.com/matzehuels/gridrule/pkg/pipeline"
)

// FileName is the config file looked up under the user config directory.
const FileName = "config.toml"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// DefaultServerAddr is the listen address of `gridrule serve`.
const DefaultServerAddr = ":8080"

// Config is the decoded configuration file.
type Config struct {
	Solver   string            `toml:"solver"`
	Movement Movement          `toml:"movement"`
	Stacking Stacking          `toml:"stacking"`
	Denoise  denoise.Options   `toml:"denoise"`
	Cache    Cache             `toml:"cache"`
	Server   Server            `toml:"server"`
	Palette  map[string]string `toml:"palette"`
}

// Movement holds marker path options.
type Movement struct {
	Markers []int `toml:"markers"`
	Trail   int   `toml:"trail"`
}

// Stacking holds placement options.
type Stacking struct {
	// Fallback is the [row, col] start used when training outputs do not
	// all start at the origin.
	Fallback []int `toml:"fallback"`
}

// Cache selects and configures the cache backend.
type Cache struct {
	Backend string `toml:"backend"`
	Dir     string `toml:"dir"`
	Prefix  string `toml:"prefix"`
	Redis   Redis  `toml:"redis"`
}

// Redis configures the redis backend.
type Redis struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// Server configures the HTTP API.
type Server struct {
	Addr     string `toml:"addr"`
	MaxBytes int64  `toml:"max_bytes"`
}

// Default returns a config with every default filled in.
func Default() Config {
	c := Config{}
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	if c.Cache.Backend == "" {
		c.Cache.Backend = BackendFile
	}
	if c.Cache.Redis.Addr == "" {
		c.Cache.Redis.Addr = "localhost:6379"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
	if c.Server.MaxBytes == 0 {
		c.Server.MaxBytes = 1 << 20
	}
	opts := c.PipelineOptions()
	if err := opts.ValidateAndSetDefaults(); err == nil {
		c.Solver = opts.Solver
		c.Movement.Markers = opts.Markers
		c.Movement.Trail = opts.Trail
		c.Stacking.Fallback = []int{opts.Fallback.Row, opts.Fallback.Col}
		c.Denoise = opts.Denoise
	}
}

// Load reads the config at path. An empty path loads the file from the
// user config directory when one exists, and the defaults otherwise.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		dir, err := Dir()
		if err != nil {
			return Default(), nil
		}
		path = filepath.Join(dir, FileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if !explicit {
				return Default(), nil
			}
			return Config{}, errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
	}
	return Parse(string(data))
}

// Parse decodes TOML text, rejects unknown keys, applies defaults and
// validates the result.
func Parse(text string) (Config, error) {
	var c Config
	md, err := toml.Decode(text, &c)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, errors.New(errors.ErrCodeInvalidInput, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	c.setDefaults()
	return c, nil
}

// Validate checks the fields that setDefaults does not fix.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case "", BackendFile, BackendRedis, BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidOption, "cache.backend: %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	if n := len(c.Stacking.Fallback); n != 0 && n != 2 {
		return errors.New(errors.ErrCodeInvalidOption, "stacking.fallback: want [row, col], got %d values", n)
	}
	if _, err := c.Colors(); err != nil {
		return err
	}
	opts := c.PipelineOptions()
	return opts.ValidateAndSetDefaults()
}

// PipelineOptions converts the solver sections into pipeline options.
func (c Config) PipelineOptions() pipeline.Options {
	opts := pipeline.Options{
		Solver:  c.Solver,
		Markers: c.Movement.Markers,
		Trail:   c.Movement.Trail,
		Denoise: c.Denoise,
	}
	if len(c.Stacking.Fallback) == 2 {
		opts.Fallback = &grid.Point{Row: c.Stacking.Fallback[0], Col: c.Stacking.Fallback[1]}
	}
	return opts
}

// Colors returns the palette keyed by cell value.
func (c Config) Colors() (map[int]string, error) {
	out := make(map[int]string, len(c.Palette))
	for k, v := range c.Palette {
		n, err := strconv.Atoi(k)
		if err != nil || errors.ValidateColor(n) != nil {
			return nil, errors.New(errors.ErrCodeInvalidOption, "palette: key %q is not a color value", k)
		}
		out[n] = v
	}
	return out, nil
}

// OpenCache builds the configured cache backend. defaultDir is used by the
// file backend when cache.dir is unset.
func (c Config) OpenCache(ctx context.Context, defaultDir string) (cache.Cache, cache.Keyer, error) {
	var keyer cache.Keyer = cache.NewDefaultKeyer()
	if c.Cache.Prefix != "" {
		keyer = cache.NewScopedKeyer(keyer, c.Cache.Prefix)
	}

	switch c.Cache.Backend {
	case BackendNone:
		return cache.NewNullCache(), keyer, nil
	case BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     c.Cache.Redis.Addr,
			Password: c.Cache.Redis.Password,
			DB:       c.Cache.Redis.DB,
		})
		if err != nil {
			return nil, nil, err
		}
		return rc, keyer, nil
	}

	dir := c.CacheDir(defaultDir)
	if dir == "" {
		return cache.NewNullCache(), keyer, nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, nil, err
	}
	return fc, keyer, nil
}

// CacheDir returns cache.dir with a leading ~ expanded, or defaultDir when
// unset.
func (c Config) CacheDir(defaultDir string) string {
	if c.Cache.Dir == "" {
		return defaultDir
	}
	return expandHome(c.Cache.Dir)
}

// Dir returns the config directory using the XDG standard
// (~/.config/gridrule/).
func Dir() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, "gridrule"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "gridrule"), nil
}

func expandHome(p string) string {
	if !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[2:])
}
