package measure

import (
	"testing"

	"github.com/matzehuels/wordcloud/pkg/layout"
)

func TestScreenMeasure(t *testing.T) {
	s := NewScreen()
	defer s.Close()

	f := layout.Font{Weight: "bold", Size: 24}
	w1, h1 := s.Measure("BOB", f)
	w2, h2 := s.Measure("BOBBY", f)

	if w1 <= 0 || h1 <= 0 {
		t.Fatalf("Measure(BOB) = %v x %v, want positive", w1, h1)
	}
	if w2 <= w1 {
		t.Errorf("longer text not wider: %v <= %v", w2, w1)
	}
	if h1 != h2 {
		t.Errorf("height depends on text: %v != %v", h1, h2)
	}

	big, bigH := s.Measure("BOB", f.WithSize(48))
	if big <= w1 || bigH <= h1 {
		t.Errorf("doubling size did not grow extent: %v x %v", big, bigH)
	}
}

func TestScreenLetterSpacing(t *testing.T) {
	s := NewScreen()
	plain, _ := s.Measure("ÉMILE", layout.Font{Size: 20})
	spaced, _ := s.Measure("ÉMILE", layout.Font{Size: 20, LetterSpacing: 2})
	if got := spaced - plain; got < 9.99 || got > 10.01 {
		t.Errorf("letter spacing added %v, want 10", got)
	}
}

func TestScreenFaceCache(t *testing.T) {
	s := NewScreen()
	a, err := s.Face("bold", 12)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := s.Face("bold", 12)
	if a != b {
		t.Error("Face() did not reuse cached face")
	}
	if _, err := s.Face("regular", 12); err != nil {
		t.Fatal(err)
	}
	if len(s.faces) != 2 {
		t.Errorf("cache holds %d faces, want 2", len(s.faces))
	}
}

func TestScreenEmpty(t *testing.T) {
	s := NewScreen()
	w, h := s.Measure("", layout.Font{Size: 12})
	if w != 0 || h <= 0 {
		t.Errorf("Measure(\"\") = %v x %v", w, h)
	}
}
