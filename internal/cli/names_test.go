package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/errors"
)

type namesDoc struct {
	Names []cloud.NameEntry `json:"names"`
	Stats cloud.Stats       `json:"stats"`
}

func listNames(t *testing.T, env *testEnv) namesDoc {
	t.Helper()
	out, err := env.run(t, "names", "list", "--json")
	if err != nil {
		t.Fatalf("names list: %v", err)
	}
	var doc namesDoc
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("names list output %q: %v", out, err)
	}
	return doc
}

func TestNamesLifecycle(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.run(t, "names", "add", "Léa, Hugo", "Léa"); err != nil {
		t.Fatalf("names add: %v", err)
	}
	if _, err := env.run(t, "names", "hide", "Hugo"); err != nil {
		t.Fatalf("names hide: %v", err)
	}
	if _, err := env.run(t, "names", "highlight", "Léa"); err != nil {
		t.Fatalf("names highlight: %v", err)
	}

	doc := listNames(t, env)
	want := []cloud.NameEntry{
		{Label: "Hugo", Count: 1, Hidden: true},
		{Label: "Léa", Count: 2, Highlighted: true},
	}
	if len(doc.Names) != len(want) {
		t.Fatalf("names = %+v, want %+v", doc.Names, want)
	}
	for i := range want {
		if doc.Names[i] != want[i] {
			t.Errorf("names[%d] = %+v, want %+v", i, doc.Names[i], want[i])
		}
	}
	if doc.Stats != (cloud.Stats{Total: 2, Visible: 1, Highlighted: 1}) {
		t.Errorf("stats = %+v", doc.Stats)
	}

	env.out.Reset()
	if _, err := env.run(t, "names", "list"); err != nil {
		t.Fatalf("names list: %v", err)
	}
	table := env.out.String()
	for _, s := range []string{"Hugo", "Léa", "hidden", "highlighted", "2 names"} {
		if !strings.Contains(table, s) {
			t.Errorf("table missing %q:\n%s", s, table)
		}
	}

	if _, err := env.run(t, "names", "clear"); err != nil {
		t.Fatalf("names clear: %v", err)
	}
	if doc := listNames(t, env); len(doc.Names) != 0 {
		t.Errorf("after clear: %+v", doc.Names)
	}
}

func TestNamesImport(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.run(t, "names", "add", "Zoé"); err != nil {
		t.Fatal(err)
	}

	csv := filepath.Join(t.TempDir(), "classe.csv")
	if err := os.WriteFile(csv, []byte("\ufeffprenom,nom\nAda,L\nAda,M\nAlan,T\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := env.run(t, "names", "import", csv); err != nil {
		t.Fatalf("names import: %v", err)
	}

	doc := listNames(t, env)
	if len(doc.Names) != 2 || doc.Names[0].Label != "Ada" || doc.Names[0].Count != 2 {
		t.Errorf("after import: %+v", doc.Names)
	}
}

func TestNamesErrors(t *testing.T) {
	env := newTestEnv(t)
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"hide unknown", []string{"names", "hide", "Nobody"}, errors.ErrCodeNotFound},
		{"highlight unknown", []string{"names", "highlight", "Nobody"}, errors.ErrCodeNotFound},
		{"add blank", []string{"names", "add", " , ;"}, errors.ErrCodeInvalidInput},
		{"import missing", []string{"names", "import", filepath.Join(t.TempDir(), "absent.csv")}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := env.run(t, tt.args...); !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestSettingsCommand(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.run(t, "settings", "--min", "60", "--max", "20", "--scheme", "black-red-initial", "--seed", "9"); err != nil {
		t.Fatalf("settings: %v", err)
	}
	env.out.Reset()
	if _, err := env.run(t, "settings"); err != nil {
		t.Fatalf("settings: %v", err)
	}
	out := env.out.String()
	for _, s := range []string{"20 to 60 px", "black-red-initial", "uppercase", "9"} {
		if !strings.Contains(out, s) {
			t.Errorf("settings output missing %q:\n%s", s, out)
		}
	}

	if _, err := env.run(t, "settings", "--case", "shout"); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("invalid case: error = %v", err)
	}
	if _, err := env.run(t, "settings", "--seed", "3", "--reshuffle"); err == nil {
		t.Error("--seed with --reshuffle: expected error")
	}
}

func TestExportCommand(t *testing.T) {
	env := newTestEnv(t)
	out := filepath.Join(t.TempDir(), "nuage.pdf")

	if _, err := env.run(t, "export", "-o", out); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("empty roster: error = %v, want INVALID_INPUT", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("failed export wrote a file")
	}

	if _, err := env.run(t, "names", "add", "Léa, Hugo, Inès"); err != nil {
		t.Fatal(err)
	}
	if _, err := env.run(t, "export", "-o", out, "--no-cache"); err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil || !strings.HasPrefix(string(data), "%PDF") {
		t.Fatalf("export output: %v", err)
	}
	if !strings.Contains(env.out.String(), out) {
		t.Errorf("output does not list %s:\n%s", out, env.out.String())
	}
}
