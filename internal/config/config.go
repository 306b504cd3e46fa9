// Package config loads rrgraph settings from a TOML file, a .env file and
// RRGRAPH_* environment variables, in increasing order of precedence.
//
//	[server]
//	addr = ":8080"
//	allowed_origins = ["https://dashboard.example.com"]
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
//	[layout]
//	radius = 16
//	rounds = 40
//
//	[render]
//	style = "light"
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	rrerrors "github.com/matzehuels/rrgraph/pkg/errors"
	"github.com/matzehuels/rrgraph/pkg/layout"
	"github.com/matzehuels/rrgraph/pkg/pipeline"
)

const appName = "rrgraph"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the complete rrgraph configuration.
type Config struct {
	Log    LogConfig    `toml:"log"`
	Server ServerConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`
	Layout LayoutConfig `toml:"layout"`
	Render RenderConfig `toml:"render"`
}

// LogConfig configures the charm logger.
type LogConfig struct {
	Level string `toml:"level" default:"info" validate:"oneof=debug info warn error"`
}

// ServerConfig configures `rrgraph serve`.
type ServerConfig struct {
	Addr           string        `toml:"addr" default:":8080" validate:"required"`
	ReadTimeout    time.Duration `toml:"read_timeout" default:"10s" validate:"gt=0"`
	WriteTimeout   time.Duration `toml:"write_timeout" default:"30s" validate:"gt=0"`
	AllowedOrigins []string      `toml:"allowed_origins" default:"[\"*\"]" validate:"min=1"`
	MaxBodyBytes   int64         `toml:"max_body_bytes" default:"1048576" validate:"gt=0"`
	MaxSessions    int           `toml:"max_sessions" default:"256" validate:"gt=0"`
}

// CacheConfig selects and configures the layout cache.
type CacheConfig struct {
	Backend  string `toml:"backend" default:"file" validate:"oneof=file redis none"`
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url" validate:"required_if=Backend redis"`
	Prefix   string `toml:"prefix" default:"rrgraph:"`
}

// LayoutConfig holds layout defaults. Zero values fall through to the
// pipeline defaults.
type LayoutConfig struct {
	Width   float64 `toml:"width" default:"500" validate:"gt=0,lte=10000"`
	Height  float64 `toml:"height" default:"400" validate:"gt=0,lte=10000"`
	Radius  float64 `toml:"radius" default:"18" validate:"gt=0"`
	Gap     float64 `toml:"gap" default:"4" validate:"gte=0"`
	Rounds  int     `toml:"rounds" default:"20" validate:"min=1,max=1000"`
	Padding float64 `toml:"padding" default:"1.2" validate:"gt=0"`
}

// RenderConfig holds render defaults.
type RenderConfig struct {
	Style   string   `toml:"style" default:"dark" validate:"oneof=dark light"`
	Formats []string `toml:"formats" default:"[\"svg\"]" validate:"min=1,dive,oneof=svg png pdf json msgpack"`
	Scale   float64  `toml:"scale" default:"2" validate:"gt=0,lte=8"`
	Legend  bool     `toml:"legend"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("toml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	return cfg
}

// DefaultPath returns $XDG_CONFIG_HOME/rrgraph/config.toml, falling back
// to ~/.config/rrgraph/config.toml.
func DefaultPath() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load builds the configuration. An empty path reads the default config
// file if it exists; an explicit path must exist. envFiles are loaded with
// godotenv before RRGRAPH_* overrides are applied; with no envFiles a .env
// in the working directory is loaded if present.
func Load(path string, envFiles ...string) (*Config, error) {
	if err := loadDotenv(envFiles); err != nil {
		return nil, rrerrors.Wrap(rrerrors.ErrCodeInvalidConfig, err, "load env file")
	}

	cfg := Default()

	explicit := path != ""
	if !explicit {
		if p, err := DefaultPath(); err == nil {
			path = p
		}
	}
	if path != "" {
		err := decodeFile(path, cfg)
		if err != nil && (explicit || !errors.Is(err, os.ErrNotExist)) {
			return nil, err
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadDotenv(files []string) error {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		return godotenv.Load()
	}
	return godotenv.Load(files...)
}

func decodeFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return rrerrors.Wrap(rrerrors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return err
	}
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return rrerrors.Wrap(rrerrors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return rrerrors.New(rrerrors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// applyEnv overrides settings from RRGRAPH_* variables.
func applyEnv(cfg *Config) {
	if v := os.Getenv("RRGRAPH_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("RRGRAPH_ALLOWED_ORIGINS"); v != "" {
		cfg.Server.AllowedOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("RRGRAPH_CACHE_BACKEND"); v != "" {
		cfg.Cache.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("RRGRAPH_CACHE_DIR"); v != "" {
		cfg.Cache.Dir = v
	}
	if v := os.Getenv("RRGRAPH_REDIS_URL"); v != "" {
		cfg.Cache.RedisURL = v
	}
	if v := os.Getenv("RRGRAPH_LOG_LEVEL"); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("RRGRAPH_STYLE"); v != "" {
		cfg.Render.Style = strings.ToLower(v)
	}
}

// Validate checks every field and reports the first failure.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return rrerrors.New(rrerrors.ErrCodeInvalidConfig, "%s", fieldErrorMessage(verrs[0]))
	}
	return rrerrors.Wrap(rrerrors.ErrCodeInvalidConfig, err, "validate config")
}

func fieldErrorMessage(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte", "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte", "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}

// ApplyLayout fills unset layout options from the configuration.
func (c *Config) ApplyLayout(opts *pipeline.Options) {
	if opts.Width == 0 {
		opts.Width = c.Layout.Width
	}
	if opts.Height == 0 {
		opts.Height = c.Layout.Height
	}
	if opts.Radius == 0 {
		opts.Radius = c.Layout.Radius
	}
	if opts.Gap == nil {
		opts.Gap = layout.Float64(c.Layout.Gap)
	}
	if opts.Rounds == 0 {
		opts.Rounds = c.Layout.Rounds
	}
	if opts.Padding == 0 {
		opts.Padding = c.Layout.Padding
	}
}

// ApplyRender fills unset render options from the configuration.
func (c *Config) ApplyRender(opts *pipeline.Options) {
	if len(opts.Formats) == 0 {
		opts.Formats = append([]string(nil), c.Render.Formats...)
	}
	if opts.Style == "" {
		opts.Style = c.Render.Style
	}
	if opts.Scale == 0 {
		opts.Scale = c.Render.Scale
	}
	if c.Render.Legend {
		opts.Legend = true
	}
}
