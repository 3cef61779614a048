package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/wordcloud/pkg/config"
	"github.com/matzehuels/wordcloud/pkg/errors"
)

func TestConfigCommands(t *testing.T) {
	env := newTestEnv(t)
	env.configPath = filepath.Join(t.TempDir(), "nested", "config.toml")

	out, err := env.run(t, "config", "path")
	if err != nil || strings.TrimSpace(out) != env.configPath {
		t.Fatalf("config path = %q, %v", out, err)
	}

	if _, err := env.run(t, "config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	data, err := os.ReadFile(env.configPath)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Parse(string(data))
	if err != nil {
		t.Fatalf("written config does not parse: %v", err)
	}
	if cfg.Store.Backend != config.BackendFile {
		t.Errorf("backend = %q", cfg.Store.Backend)
	}

	if _, err := env.run(t, "config", "init"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("second init: error = %v, want INVALID_INPUT", err)
	}
	if _, err := env.run(t, "config", "init", "--force"); err != nil {
		t.Errorf("init --force: %v", err)
	}

	out, err = env.run(t, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	for _, key := range []string{"[canvas]", "[store]", "min_font_size", "backend"} {
		if !strings.Contains(out, key) {
			t.Errorf("config show missing %q:\n%s", key, out)
		}
	}
}

func TestMalformedConfig(t *testing.T) {
	env := newTestEnv(t)
	if err := os.WriteFile(env.configPath, []byte("[layout\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := env.run(t, "names", "list"); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error = %v, want INVALID_CONFIG", err)
	}
}

func TestDisplayURL(t *testing.T) {
	tests := map[string]string{
		":8080":          "http://localhost:8080",
		"127.0.0.1:9000": "http://127.0.0.1:9000",
	}
	for addr, want := range tests {
		if got := displayURL(addr); got != want {
			t.Errorf("displayURL(%q) = %q, want %q", addr, got, want)
		}
	}
}
