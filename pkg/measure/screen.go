// Package measure measures text on the preview surface.
//
// [Screen] uses the embedded Go faces from package fonts at 72 DPI, so one
// point equals one pixel and measurements are directly usable as canvas
// units by the layout solver.
package measure

import (
	"sync"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"

	"github.com/matzehuels/wordcloud/pkg/fonts"
	"github.com/matzehuels/wordcloud/pkg/layout"
)

type faceKey struct {
	weight string
	size   float64
}

// Screen measures text with opentype faces, caching one face per weight
// and size. It is safe for concurrent use.
type Screen struct {
	mu    sync.Mutex
	faces map[faceKey]font.Face
}

// NewScreen returns an empty screen measurer.
func NewScreen() *Screen {
	return &Screen{faces: make(map[faceKey]font.Face)}
}

// Face returns the cached face for weight and size.
func (s *Screen) Face(weight string, size float64) (font.Face, error) {
	key := faceKey{weight: weight, size: size}

	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.faces[key]; ok {
		return f, nil
	}

	fnt, err := fonts.Parsed(weight)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	s.faces[key] = face
	return face, nil
}

// Measure implements layout.TextMeasurer. Letter spacing is added after
// every rune. A face that cannot be built yields a zero extent.
func (s *Screen) Measure(text string, f layout.Font) (w, h float64) {
	face, err := s.Face(f.Weight, f.Size)
	if err != nil {
		return 0, 0
	}

	s.mu.Lock()
	adv := font.MeasureString(face, text)
	m := face.Metrics()
	s.mu.Unlock()

	w = float64(adv)/64 + f.LetterSpacing*float64(utf8.RuneCountInString(text))
	h = float64(m.Ascent+m.Descent) / 64
	return w, h
}

// Close releases every cached face.
func (s *Screen) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, f := range s.faces {
		f.Close()
		delete(s.faces, k)
	}
	return nil
}
