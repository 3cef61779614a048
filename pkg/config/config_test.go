package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/schedule"
)

func TestParse(t *testing.T) {
	cfg, err := Parse(`
[layout]
min_font_size = 50
max_font_size = 20
color_scheme = "black-red-initial"
seed = 7

[canvas]
width = 400

[store]
backend = "memory"
`)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if cfg.Layout.MinFontSize != 20 || cfg.Layout.MaxFontSize != 50 {
		t.Errorf("font bounds = %v..%v, want swapped 20..50", cfg.Layout.MinFontSize, cfg.Layout.MaxFontSize)
	}
	if cfg.Layout.ColorScheme != cloud.SchemeBlackRedInitial || cfg.Layout.TextCase != cloud.CaseUpper {
		t.Errorf("layout = %+v", cfg.Layout)
	}
	if cfg.Canvas.Width != 400 || cfg.Canvas.Height != Default().Canvas.Height {
		t.Errorf("canvas = %+v", cfg.Canvas)
	}

	opts := cfg.PipelineOptions()
	if opts.Seed != 7 || opts.Width != 400 || opts.PageMargin != 15 {
		t.Errorf("PipelineOptions() = %+v", opts)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"syntax", "[layout\nseed = "},
		{"scheme", "[layout]\ncolor_scheme = \"neon\""},
		{"backend", "[store]\nbackend = \"sqlite\""},
		{"ttl", "[store.redis]\nttl = \"soon\""},
		{"key", "[store]\nkey = \"../etc\""},
		{"canvas", "[canvas]\nwidth = -5"},
		{"max wait", "[server]\nmax_wait_ms = -1"},
		{"max sessions", "[server]\nmax_open_sessions = -1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			if err == nil {
				t.Fatal("Parse() succeeded")
			}
			if code := errors.GetCode(err); code != errors.ErrCodeInvalidConfig && code != errors.ErrCodeInvalidKey {
				t.Errorf("code = %s", code)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(filepath.Join(dir, "missing.toml"))
	if err != nil || cfg != Default() {
		t.Errorf("Load(missing) = %+v, %v; want defaults", cfg, err)
	}

	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[server]\naddr = \":9000\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load(path)
	if err != nil || cfg.Server.Addr != ":9000" {
		t.Errorf("Load() = %+v, %v", cfg.Server, err)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	want := Default()
	want.Layout.HighlightMultiplier = 5
	want.Store.Redis.TTL = "24h"

	var buf bytes.Buffer
	if err := Write(&buf, want); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("highlight_multiplier = 5")) {
		t.Errorf("encoded config:\n%s", buf.String())
	}
	got, err := Parse(buf.String())
	if err != nil {
		t.Fatalf("Parse(Write()) error: %v", err)
	}
	if got != want {
		t.Errorf("round trip = %+v\nwant %+v", got, want)
	}
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := Save(path, Default()); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil || cfg != Default() {
		t.Errorf("Load(Save()) = %+v, %v", cfg, err)
	}
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	tests := []struct {
		name    string
		mutate  func(*Config)
		backend string
	}{
		{"memory", func(c *Config) { c.Store.Backend = BackendMemory }, "memory"},
		{"file", func(c *Config) { c.Store.Backend = BackendFile; c.Store.Path = t.TempDir() }, "file"},
		{"redis", func(c *Config) {
			c.Store.Backend = BackendRedis
			c.Store.Redis.Addr = mr.Addr()
			c.Store.Redis.TTL = "1h"
		}, "redis"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			store, err := cfg.OpenStore(ctx)
			if err != nil {
				t.Fatalf("OpenStore() error: %v", err)
			}
			defer store.Close()
			if store.Backend() != tt.backend {
				t.Errorf("Backend() = %q", store.Backend())
			}
		})
	}
}

func TestDebounce(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wait    time.Duration
		maxWait time.Duration
		maxOpen int
	}{
		{"defaults", "", 500 * time.Millisecond, 2 * time.Second, 1024},
		{"custom", "[server]\ndebounce_ms = 100\nmax_wait_ms = 0\nmax_open_sessions = 8", 100 * time.Millisecond, 0, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse(tt.text)
			if err != nil {
				t.Fatal(err)
			}
			if got := cfg.Debounce(); got != tt.wait {
				t.Errorf("Debounce() = %v, want %v", got, tt.wait)
			}
			if got := cfg.MaxWait(); got != tt.maxWait {
				t.Errorf("MaxWait() = %v, want %v", got, tt.maxWait)
			}
			if cfg.Server.MaxOpen != tt.maxOpen {
				t.Errorf("MaxOpen = %d, want %d", cfg.Server.MaxOpen, tt.maxOpen)
			}
			d := cfg.Debouncer()(func() {})
			defer d.Cancel()
			if _, ok := d.(*schedule.Timer); !ok {
				t.Errorf("Debouncer() = %T, want *schedule.Timer", d)
			}
		})
	}
}
