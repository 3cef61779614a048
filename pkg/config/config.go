// Package config loads the wordcloud TOML configuration.
//
// The file lives at ~/.config/wordcloud/config.toml by default. A missing
// file means defaults; a malformed one is an INVALID_CONFIG error.
//
//	[layout]
//	min_font_size = 16
//	max_font_size = 72
//	color_scheme = "rainbow"
//	text_case = "upper"
//	highlight_multiplier = 3
//	seed = 42
//
//	[store]
//	backend = "redis"
//	[store.redis]
//	addr = "localhost:6379"
package config

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/pipeline"
	"github.com/matzehuels/wordcloud/pkg/reproject"
	"github.com/matzehuels/wordcloud/pkg/schedule"
	"github.com/matzehuels/wordcloud/pkg/session"
)

// Store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Config is the whole configuration file.
type Config struct {
	Layout   Layout   `toml:"layout"`
	Canvas   Canvas   `toml:"canvas"`
	Document Document `toml:"document"`
	Store    Store    `toml:"store"`
	Server   Server   `toml:"server"`
}

// Layout holds the settings shown in the editor's settings panel.
type Layout struct {
	cloud.LayoutConfig
	Seed uint64 `toml:"seed"`
}

// Canvas holds the preview surface, in screen pixels.
type Canvas struct {
	Width         float64 `toml:"width"`
	Height        float64 `toml:"height"`
	Spacing       float64 `toml:"spacing"`
	Attempts      int     `toml:"attempts"`
	LetterSpacing float64 `toml:"letter_spacing"`
}

// Document holds the printed page settings, in millimetres.
type Document struct {
	Margin  float64 `toml:"margin"`
	Spacing float64 `toml:"spacing"`
}

// Store selects and configures the session store.
type Store struct {
	Backend string `toml:"backend"`
	Key     string `toml:"key"`
	Path    string `toml:"path"`
	Redis   Redis  `toml:"redis"`
	Mongo   Mongo  `toml:"mongo"`
}

type Redis struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
	TTL      string `toml:"ttl"`
}

type Mongo struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Server configures the HTTP shell.
type Server struct {
	Addr       string `toml:"addr"`
	DebounceMS int    `toml:"debounce_ms"`
	MaxWaitMS  int    `toml:"max_wait_ms"`
	CacheSize  int    `toml:"cache_size"`
	MaxOpen    int    `toml:"max_open_sessions"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Layout: Layout{LayoutConfig: cloud.DefaultConfig(), Seed: pipeline.DefaultSeed},
		Canvas: Canvas{
			Width:    pipeline.DefaultWidth,
			Height:   pipeline.DefaultHeight,
			Spacing:  25,
			Attempts: 150,
		},
		Document: Document{Margin: reproject.A4.Margin, Spacing: reproject.DefaultSpacing},
		Store: Store{
			Backend: BackendFile,
			Key:     session.DefaultKey,
			Redis:   Redis{Addr: "localhost:6379", Prefix: "wordcloud:session"},
			Mongo:   Mongo{URI: "mongodb://localhost:27017", Database: "wordcloud", Collection: "sessions"},
		},
		Server: Server{
			Addr:       ":8080",
			DebounceMS: int(schedule.DefaultWait / time.Millisecond),
			MaxWaitMS:  2000,
			CacheSize:  256,
			MaxOpen:    1024,
		},
	}
}

// DefaultPath returns ~/.config/wordcloud/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "get home dir")
	}
	return filepath.Join(home, ".config", "wordcloud", "config.toml"), nil
}

// Load reads the file at path over the defaults. An empty path selects
// DefaultPath.
func Load(path string) (Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	return Parse(string(data))
}

// Parse decodes TOML text over the defaults and validates the result.
func Parse(text string) (Config, error) {
	cfg := Default()
	if _, err := toml.Decode(text, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	cfg.Layout.LayoutConfig = cfg.Layout.LayoutConfig.Merge(cloud.DefaultConfig()).Normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values that defaults cannot repair.
func (c Config) Validate() error {
	if err := c.Layout.Validate(); err != nil {
		return err
	}
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "canvas must be positive, got %vx%v", c.Canvas.Width, c.Canvas.Height)
	}
	if c.Document.Margin < 0 || 2*c.Document.Margin >= reproject.A4.Width {
		return errors.New(errors.ErrCodeInvalidConfig, "document margin %vmm does not fit the page", c.Document.Margin)
	}
	switch c.Store.Backend {
	case BackendMemory, BackendFile, BackendRedis, BackendMongo:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown store backend: %q (must be memory, file, redis or mongo)", c.Store.Backend)
	}
	if err := errors.ValidateStoreKey(c.Store.Key); err != nil {
		return err
	}
	if c.Store.Redis.TTL != "" {
		if _, err := time.ParseDuration(c.Store.Redis.TTL); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "store.redis.ttl")
		}
	}
	if c.Server.DebounceMS < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.debounce_ms cannot be negative")
	}
	if c.Server.MaxWaitMS < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.max_wait_ms cannot be negative")
	}
	if c.Server.MaxOpen < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.max_open_sessions cannot be negative")
	}
	return nil
}

// Write encodes cfg as TOML.
func Write(w io.Writer, cfg Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode config")
	}
	return nil
}

// Save writes cfg to path, creating parent directories.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create config dir")
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
	}
	if err := Write(f, cfg); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// PipelineOptions returns the pipeline options the file describes.
func (c Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Config:        c.Layout.LayoutConfig,
		Seed:          c.Layout.Seed,
		Width:         c.Canvas.Width,
		Height:        c.Canvas.Height,
		Spacing:       c.Canvas.Spacing,
		Attempts:      c.Canvas.Attempts,
		LetterSpacing: c.Canvas.LetterSpacing,
		PageMargin:    c.Document.Margin,
		WordSpacing:   c.Document.Spacing,
	}
}

// Debounce returns the layout debounce interval.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.Server.DebounceMS) * time.Millisecond
}

// MaxWait returns the longest a layout can be postponed by continuous
// changes. Zero disables the bound.
func (c Config) MaxWait() time.Duration {
	return time.Duration(c.Server.MaxWaitMS) * time.Millisecond
}

// Debouncer returns the session debouncer constructor for this config.
func (c Config) Debouncer() func(fn func()) schedule.Debouncer {
	return schedule.Factory(c.Debounce(), c.MaxWait())
}

// OpenStore connects to the configured session store.
func (c Config) OpenStore(ctx context.Context) (session.Store, error) {
	switch c.Store.Backend {
	case BackendMemory:
		return session.NewMemoryStore(), nil
	case BackendFile:
		return session.NewFileStore(c.Store.Path)
	case BackendRedis:
		var ttl time.Duration
		if c.Store.Redis.TTL != "" {
			ttl, _ = time.ParseDuration(c.Store.Redis.TTL)
		}
		return session.NewRedisStore(ctx, session.RedisConfig{
			Addr:     c.Store.Redis.Addr,
			Password: c.Store.Redis.Password,
			DB:       c.Store.Redis.DB,
			Prefix:   c.Store.Redis.Prefix,
			TTL:      ttl,
		})
	case BackendMongo:
		return session.NewMongoStore(ctx, session.MongoConfig{
			URI:        c.Store.Mongo.URI,
			Database:   c.Store.Mongo.Database,
			Collection: c.Store.Mongo.Collection,
		})
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown store backend: %q", c.Store.Backend)
	}
}
