package layout

import (
	"math/rand/v2"
	"testing"
)

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// fixedMeasurer gives every rune 0.6em and every line 1.2em.
var fixedMeasurer = MeasureFunc(func(text string, f Font) (float64, float64) {
	return float64(len([]rune(text))) * f.Size * 0.6, f.Size * 1.2
})

// boxMeasurer ignores the text and returns a fixed extent.
func boxMeasurer(w, h float64) TextMeasurer {
	return MeasureFunc(func(string, Font) (float64, float64) { return w, h })
}

func TestCollides(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Box
		spacing float64
		want    bool
	}{
		{"overlap", Box{0, 0, 10, 10}, Box{5, 5, 10, 10}, 0, true},
		{"apart", Box{0, 0, 10, 10}, Box{20, 0, 10, 10}, 0, false},
		{"touching edge", Box{0, 0, 10, 10}, Box{10, 0, 10, 10}, 0, false},
		{"touching corner", Box{0, 0, 10, 10}, Box{10, 10, 10, 10}, 0, false},
		{"spacing reaches", Box{0, 0, 10, 10}, Box{15, 0, 10, 10}, 6, true},
		{"spacing touches", Box{0, 0, 10, 10}, Box{15, 0, 10, 10}, 5, false},
		{"contained", Box{2, 2, 1, 1}, Box{0, 0, 10, 10}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Collides(tt.a, tt.b, tt.spacing); got != tt.want {
				t.Errorf("Collides(%v, %v, %v) = %v, want %v", tt.a, tt.b, tt.spacing, got, tt.want)
			}
		})
	}
}

func TestAnyCollision(t *testing.T) {
	placed := []Box{{0, 0, 10, 10}, {50, 50, 10, 10}}
	if AnyCollision(Box{20, 20, 5, 5}, placed, 0) {
		t.Error("free box reported as colliding")
	}
	if !AnyCollision(Box{55, 55, 5, 5}, placed, 0) {
		t.Error("overlapping box not detected")
	}
	if AnyCollision(Box{0, 0, 1, 1}, nil, 100) {
		t.Error("empty placed set cannot collide")
	}
}

func sampleTokens() []SizedToken {
	names := []string{"ALICE", "BOB", "CHLOÉ", "DAVID", "ÉMILE", "FANNY", "GUS", "HUGO"}
	var tokens []SizedToken
	for i, n := range names {
		tokens = append(tokens, SizedToken{Text: n, FontSize: float64(12 + 4*(i%4)), ColorRef: i})
	}
	return tokens
}

func TestPlaceNoOverlapOrFallback(t *testing.T) {
	tokens := append(sampleTokens(), sampleTokens()...)
	tokens = append(tokens, sampleTokens()...)

	res := NewSolver(newRNG(42), fixedMeasurer).Place(tokens, 680, 1009)
	if len(res.Words) != len(tokens) {
		t.Fatalf("placed %d words, want %d", len(res.Words), len(tokens))
	}

	fallbacks := map[int]bool{}
	for _, i := range res.Fallbacks {
		fallbacks[i] = true
	}
	for i, w := range res.Words {
		if w.Fallback != fallbacks[i] {
			t.Errorf("word %d: Fallback=%v but index listed=%v", i, w.Fallback, fallbacks[i])
		}
		if w.Fallback {
			continue
		}
		for j := range i {
			if Collides(w.Box(), res.Words[j].Box(), DefaultSpacing) {
				t.Errorf("word %d (%s) collides with earlier word %d (%s)", i, w.Text, j, res.Words[j].Text)
			}
		}
		if w.X < 0 || w.Y < 0 || w.X+w.Width > 680 || w.Y+w.Height > 1009 {
			t.Errorf("word %d outside canvas: %+v", i, w)
		}
	}
}

func TestPlaceDeterministic(t *testing.T) {
	tokens := sampleTokens()
	a := NewSolver(newRNG(7), fixedMeasurer).Place(tokens, 680, 1009)
	b := NewSolver(newRNG(7), fixedMeasurer).Place(tokens, 680, 1009)
	for i := range a.Words {
		if a.Words[i] != b.Words[i] {
			t.Fatalf("word %d differs: %+v vs %+v", i, a.Words[i], b.Words[i])
		}
	}

	c := NewSolver(newRNG(8), fixedMeasurer).Place(tokens, 680, 1009)
	same := true
	for i := range a.Words {
		if a.Words[i] != c.Words[i] {
			same = false
		}
	}
	if same {
		t.Error("different seeds produced identical layouts")
	}
}

func TestPlaceOversized(t *testing.T) {
	res := NewSolver(newRNG(1), boxMeasurer(900, 50)).Place([]SizedToken{{Text: "x", FontSize: 48}}, 680, 1009)
	w := res.Words[0]
	if w.X != 0 || w.Fallback {
		t.Errorf("oversized word = %+v, want X=0 and no fallback", w)
	}
}

func TestPlaceFallbackCenters(t *testing.T) {
	tokens := []SizedToken{{Text: "a", FontSize: 10}, {Text: "b", FontSize: 10}}
	res := NewSolver(newRNG(3), boxMeasurer(100, 100)).Place(tokens, 200, 100)

	if res.Words[0].Fallback {
		t.Fatalf("first word fell back: %+v", res.Words[0])
	}
	second := res.Words[1]
	if !second.Fallback || second.X != 50 || second.Y != 0 {
		t.Errorf("second word = %+v, want fallback at (50, 0)", second)
	}
	if len(res.Fallbacks) != 1 || res.Fallbacks[0] != 1 {
		t.Errorf("Fallbacks = %v, want [1]", res.Fallbacks)
	}
}

func TestPlaceEmpty(t *testing.T) {
	res := NewSolver(newRNG(1), fixedMeasurer).Place(nil, 680, 1009)
	if len(res.Words) != 0 || len(res.Fallbacks) != 0 {
		t.Errorf("Place(nil) = %+v", res)
	}
}

func TestOptions(t *testing.T) {
	s := NewSolver(newRNG(1), fixedMeasurer, WithAttempts(10), WithSpacing(3), WithFont(Font{Family: "go", LetterSpacing: 1}))
	if s.attempts != 10 || s.spacing != 3 || s.font.Family != "go" {
		t.Errorf("options not applied: %+v", s)
	}
	s = NewSolver(newRNG(1), fixedMeasurer, WithAttempts(0), WithSpacing(-1))
	if s.attempts != DefaultAttempts || s.spacing != DefaultSpacing {
		t.Errorf("invalid options should keep defaults: attempts=%d spacing=%v", s.attempts, s.spacing)
	}
}

func TestScorePrefersInterior(t *testing.T) {
	center := Score(290, 480, 100, 50, 680, 1009)
	corner := Score(0, 0, 100, 50, 680, 1009)
	if center <= corner {
		t.Errorf("Score(center)=%v <= Score(corner)=%v", center, corner)
	}
}
