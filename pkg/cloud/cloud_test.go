package cloud

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/wordcloud/pkg/errors"
)

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

func countTexts(tokens []RenderToken) map[string]int {
	m := make(map[string]int)
	for _, t := range tokens {
		m[t.Text]++
	}
	return m
}

func TestExpandWeighting(t *testing.T) {
	entries := []NameEntry{
		{Label: "A", Count: 3},
		{Label: "B", Count: 2, Highlighted: true},
	}
	cfg := DefaultConfig()
	cfg.HighlightMultiplier = 3
	cfg.TextCase = CaseAsIs

	tokens := Expand(entries, cfg, newRNG(1))
	got := countTexts(tokens)
	if got["A"] != 3 || got["B"] != 6 || len(tokens) != 9 {
		t.Errorf("Expand() counts = %v (len %d), want A=3 B=6", got, len(tokens))
	}
	for _, tok := range tokens {
		if tok.Weight != 1.0 {
			t.Errorf("token weight = %v, want 1.0", tok.Weight)
		}
	}
}

func TestExpandHidden(t *testing.T) {
	tests := []struct {
		name  string
		entry NameEntry
	}{
		{"plain", NameEntry{Label: "A", Count: 4, Hidden: true}},
		{"highlighted", NameEntry{Label: "A", Count: 4, Hidden: true, Highlighted: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := Expand([]NameEntry{tt.entry}, DefaultConfig(), newRNG(1))
			if len(tokens) != 0 {
				t.Errorf("hidden entry produced %d tokens", len(tokens))
			}
		})
	}
}

func TestExpandEmpty(t *testing.T) {
	if tokens := Expand(nil, DefaultConfig(), newRNG(1)); len(tokens) != 0 {
		t.Errorf("Expand(nil) = %v, want empty", tokens)
	}
}

func TestExpandShuffles(t *testing.T) {
	entries := []NameEntry{{Label: "A", Count: 20}, {Label: "B", Count: 20}}
	cfg := DefaultConfig()
	tokens := Expand(entries, cfg, newRNG(7))

	// Block order would put all A tokens first.
	blocky := true
	for i := range 20 {
		if tokens[i].Text != "A" {
			blocky = false
			break
		}
	}
	if blocky {
		t.Error("Expand() left tokens in entry order")
	}

	again := Expand(entries, cfg, newRNG(7))
	for i := range tokens {
		if tokens[i] != again[i] {
			t.Fatalf("same seed gave different order at %d", i)
		}
	}
}

func TestApplyCase(t *testing.T) {
	tests := []struct {
		in   string
		tc   TextCase
		want string
	}{
		{"élodie", CaseUpper, "ÉLODIE"},
		{"ÉLODIE", CaseLower, "élodie"},
		{"jEAN-paul", CaseCapitalized, "Jean-paul"},
		{"éva", CaseCapitalized, "Éva"},
		{"MiXeD", CaseAsIs, "MiXeD"},
		{"", CaseCapitalized, ""},
	}
	for _, tt := range tests {
		if got := ApplyCase(tt.in, tt.tc); got != tt.want {
			t.Errorf("ApplyCase(%q, %s) = %q, want %q", tt.in, tt.tc, got, tt.want)
		}
	}
}

func TestFontSizerScenario(t *testing.T) {
	r := &Roster{}
	r.Import([]string{"Alice", "Bob", "Alice"})

	alice, _ := r.Get("Alice")
	bob, _ := r.Get("Bob")
	if alice.Count != 2 || bob.Count != 1 || r.Len() != 2 {
		t.Fatalf("Import() = %+v, want Alice=2 Bob=1", r.Entries())
	}

	cfg := DefaultConfig()
	cfg.MinFontSize, cfg.MaxFontSize = 12, 48
	cfg.TextCase = CaseAsIs
	tokens := Expand(r.Entries(), cfg, newRNG(3))
	sizer := NewFontSizer(tokens, cfg)

	if got := sizer.Size(RenderToken{Text: "Alice", Weight: 1}); got != 48 {
		t.Errorf("Alice size = %v, want 48", got)
	}
	if got := sizer.Size(RenderToken{Text: "Bob", Weight: 1}); got != 12 {
		t.Errorf("Bob size = %v, want 12", got)
	}
}

func TestFontSizerDegenerate(t *testing.T) {
	cfg := DefaultConfig()
	tokens := Expand([]NameEntry{{Label: "Solo", Count: 1}}, cfg, newRNG(1))
	sizer := NewFontSizer(tokens, cfg)
	if got := sizer.Size(tokens[0]); got != cfg.MaxFontSize {
		t.Errorf("single entry size = %v, want %v", got, cfg.MaxFontSize)
	}
}

func TestFontSizerMonotonic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TextCase = CaseAsIs
	entries := []NameEntry{{Label: "a", Count: 1}, {Label: "b", Count: 2}, {Label: "c", Count: 5}, {Label: "d", Count: 9}}
	tokens := Expand(entries, cfg, newRNG(1))
	sizer := NewFontSizer(tokens, cfg)

	prev := 0.0
	for _, e := range entries {
		got := sizer.Size(RenderToken{Text: e.Label, Weight: 1})
		if got < prev {
			t.Errorf("size(%s) = %v, smaller than previous %v", e.Label, got, prev)
		}
		if got < cfg.MinFontSize || got > cfg.MaxFontSize {
			t.Errorf("size(%s) = %v outside [%v, %v]", e.Label, got, cfg.MinFontSize, cfg.MaxFontSize)
		}
		prev = got
	}
}

func TestFontSizerWeightClamp(t *testing.T) {
	cfg := DefaultConfig()
	tokens := []RenderToken{{Text: "x", Weight: 1}, {Text: "y", Weight: 1}, {Text: "y", Weight: 1}}
	sizer := NewFontSizer(tokens, cfg)

	if got := sizer.Size(RenderToken{Text: "y", Weight: 2}); got != cfg.MaxFontSize {
		t.Errorf("upper clamp: got %v, want %v", got, cfg.MaxFontSize)
	}
	// Lower bound is not clamped.
	if got := sizer.Size(RenderToken{Text: "x", Weight: 0.5}); got != cfg.MinFontSize/2 {
		t.Errorf("no lower clamp: got %v, want %v", got, cfg.MinFontSize/2)
	}
}

func TestToggleHighlight(t *testing.T) {
	r := NewRoster([]NameEntry{{Label: "X", Count: 1}, {Label: "Y", Count: 1}})

	r.ToggleHighlight("X")
	r.ToggleHighlight("Y")

	x, _ := r.Get("X")
	y, _ := r.Get("Y")
	if x.Highlighted || !y.Highlighted {
		t.Errorf("after X then Y: X=%v Y=%v, want only Y", x.Highlighted, y.Highlighted)
	}

	r.ToggleHighlight("Y")
	if _, ok := r.Highlighted(); ok {
		t.Error("toggling the highlighted entry should clear it")
	}

	if r.ToggleHighlight("nobody") {
		t.Error("ToggleHighlight(unknown) = true")
	}
}

func TestRosterImportKeepsFlags(t *testing.T) {
	r := &Roster{}
	r.Import([]string{"Ana", "Léo"})
	r.ToggleHidden("Ana")
	r.ToggleHighlight("Léo")

	r.Import([]string{"Ana", "Ana", "Léo", "Zoé", " "})

	ana, _ := r.Get("Ana")
	leo, _ := r.Get("Léo")
	zoe, _ := r.Get("Zoé")
	if !ana.Hidden || ana.Count != 2 {
		t.Errorf("Ana = %+v, want hidden with count 2", ana)
	}
	if !leo.Highlighted {
		t.Errorf("Léo lost its highlight: %+v", leo)
	}
	if zoe.Count != 1 || zoe.Hidden || zoe.Highlighted {
		t.Errorf("Zoé = %+v, want fresh entry", zoe)
	}
	if got := r.Stats(); got != (Stats{Total: 3, Visible: 2, Highlighted: 1}) {
		t.Errorf("Stats() = %+v", got)
	}
}

func TestRosterAddAndSet(t *testing.T) {
	r := &Roster{}
	r.Add("Tom", "Tom", "Lou")
	tom, _ := r.Get("Tom")
	if tom.Count != 2 {
		t.Errorf("Add: Tom count = %d, want 2", tom.Count)
	}

	r.Set([]NameEntry{
		{Label: "A", Count: 0, Highlighted: true},
		{Label: "B", Count: 2, Highlighted: true},
		{Label: "A", Count: 1},
	})
	a, _ := r.Get("A")
	b, _ := r.Get("B")
	if a.Count != 2 || a.Highlighted || !b.Highlighted {
		t.Errorf("Set() = %+v", r.Entries())
	}

	r.Clear()
	if r.Len() != 0 {
		t.Errorf("Clear() left %d entries", r.Len())
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*LayoutConfig)
		wantErr bool
	}{
		{"defaults", func(*LayoutConfig) {}, false},
		{"zero min", func(c *LayoutConfig) { c.MinFontSize = 0 }, true},
		{"inverted", func(c *LayoutConfig) { c.MaxFontSize = 5 }, true},
		{"multiplier", func(c *LayoutConfig) { c.HighlightMultiplier = 0 }, true},
		{"multiplier max", func(c *LayoutConfig) { c.HighlightMultiplier = MaxHighlightMultiplier }, false},
		{"multiplier too large", func(c *LayoutConfig) { c.HighlightMultiplier = MaxHighlightMultiplier + 1 }, true},
		{"scheme", func(c *LayoutConfig) { c.ColorScheme = "neon" }, true},
		{"case", func(c *LayoutConfig) { c.TextCase = "shout" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigNormalizeMerge(t *testing.T) {
	c := LayoutConfig{MinFontSize: 40, MaxFontSize: 10}.Merge(DefaultConfig()).Normalize()
	if c.MinFontSize != 10 || c.MaxFontSize != 40 || c.HighlightMultiplier != DefaultHighlightMultiplier {
		t.Errorf("Merge/Normalize = %+v", c)
	}
	if c.ColorScheme != SchemeRainbow || c.TextCase != CaseUpper {
		t.Errorf("Merge kept zero enums: %+v", c)
	}
}

func TestColor(t *testing.T) {
	if got := Color(SchemeRainbow, 9); got != "#e74c3c" {
		t.Errorf("Color wrap = %s", got)
	}
	if got := Color(SchemeBlack, 4); got != "#000000" {
		t.Errorf("Color black = %s", got)
	}
	if got := Color("unknown", 1); got != "#000000" {
		t.Errorf("Color unknown = %s", got)
	}
}

func TestExpandHugeCounts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HighlightMultiplier = 4
	entries := []NameEntry{{Label: "A", Count: math.MaxInt/4 + 1, Highlighted: true}}

	tokens := Expand(entries, cfg, newRNG(1))
	if want := MaxCount * 4; len(tokens) != want {
		t.Errorf("len(tokens) = %d, want %d", len(tokens), want)
	}

	cfg.HighlightMultiplier = math.MaxInt
	entries = []NameEntry{{Label: "A", Count: 2, Highlighted: true}}
	if got := len(Expand(entries, cfg, newRNG(1))); got != 2*MaxHighlightMultiplier {
		t.Errorf("len(tokens) = %d, want %d", got, 2*MaxHighlightMultiplier)
	}
}

func TestValidateEntries(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name    string
		entries []NameEntry
		wantErr bool
	}{
		{"empty", nil, false},
		{"class", []NameEntry{{Label: "A", Count: 3}, {Label: "B", Count: 2, Highlighted: true}}, false},
		{"count limit", []NameEntry{{Label: "A", Count: MaxCount}}, false},
		{"count too large", []NameEntry{{Label: "A", Count: MaxCount + 1}}, true},
		{"overflowing count", []NameEntry{{Label: "A", Count: math.MaxInt, Highlighted: true}}, true},
		{"highlight too many", []NameEntry{{Label: "A", Count: MaxCount, Highlighted: true}}, true},
		{"hidden ignored", []NameEntry{{Label: "A", Count: MaxCount, Highlighted: true, Hidden: true}}, false},
		{"too many words", []NameEntry{{Label: "A", Count: MaxCount}, {Label: "B", Count: MaxCount}, {Label: "C", Count: 1}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEntries(tt.entries, cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateEntries() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("code = %s, want %s", errors.GetCode(err), errors.ErrCodeInvalidInput)
			}
		})
	}
}

func TestRosterCountsSaturate(t *testing.T) {
	r := NewRoster([]NameEntry{{Label: "A", Count: MaxCount - 1}, {Label: "A", Count: 5}, {Label: "B", Count: math.MaxInt}})
	if a, _ := r.Get("A"); a.Count != MaxCount {
		t.Errorf("merged count = %d, want %d", a.Count, MaxCount)
	}
	if b, _ := r.Get("B"); b.Count != MaxCount {
		t.Errorf("clamped count = %d, want %d", b.Count, MaxCount)
	}

	r.Add("A", "A")
	if a, _ := r.Get("A"); a.Count != MaxCount {
		t.Errorf("count after Add = %d, want %d", a.Count, MaxCount)
	}
}
