package layout

import (
	"math"
	"math/rand/v2"
)

// Defaults for the screen solver.
const (
	DefaultAttempts = 150
	DefaultSpacing  = 25.0
)

// Scoring constants.
const (
	centerFalloff   = 200.0
	coverageFalloff = 300.0
	edgeSaturation  = 50.0
)

// SizedToken is a token ready for placement.
type SizedToken struct {
	Text     string
	FontSize float64
	ColorRef int
}

// PlacedWord is a token with its final position on the canvas.
type PlacedWord struct {
	Text     string  `json:"text"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	FontSize float64 `json:"font_size"`
	ColorRef int     `json:"color_ref"`
	Fallback bool    `json:"fallback,omitempty"`
}

// Box returns the word's bounding box.
func (w PlacedWord) Box() Box { return Box{X: w.X, Y: w.Y, W: w.Width, H: w.Height} }

// Result is the outcome of one placement pass.
type Result struct {
	Width     float64      `json:"width"`
	Height    float64      `json:"height"`
	Words     []PlacedWord `json:"words"`
	Fallbacks []int        `json:"fallbacks,omitempty"`
}

// Solver places tokens one at a time.
type Solver struct {
	rng      *rand.Rand
	measurer TextMeasurer
	attempts int
	spacing  float64
	font     Font
}

// Option configures a Solver.
type Option func(*Solver)

// WithAttempts sets the number of random candidates per token.
func WithAttempts(n int) Option {
	return func(s *Solver) {
		if n > 0 {
			s.attempts = n
		}
	}
}

// WithSpacing sets the margin kept around placed words.
func WithSpacing(spacing float64) Option {
	return func(s *Solver) {
		if spacing >= 0 {
			s.spacing = spacing
		}
	}
}

// WithFont sets the font family, weight and letter spacing. Size is taken
// from each token.
func WithFont(f Font) Option {
	return func(s *Solver) { s.font = f }
}

// NewSolver returns a solver drawing candidates from rng.
func NewSolver(rng *rand.Rand, measurer TextMeasurer, opts ...Option) *Solver {
	s := &Solver{
		rng:      rng,
		measurer: measurer,
		attempts: DefaultAttempts,
		spacing:  DefaultSpacing,
		font:     Font{Weight: "bold"},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Place positions tokens in order on a width x height canvas.
func (s *Solver) Place(tokens []SizedToken, width, height float64) Result {
	res := Result{Width: width, Height: height, Words: make([]PlacedWord, 0, len(tokens))}
	placed := make([]Box, 0, len(tokens))

	for i, tok := range tokens {
		w, h := s.measurer.Measure(tok.Text, s.font.WithSize(tok.FontSize))
		x, y, ok := s.best(w, h, width, height, placed)
		word := PlacedWord{
			Text:     tok.Text,
			X:        x,
			Y:        y,
			Width:    w,
			Height:   h,
			FontSize: tok.FontSize,
			ColorRef: tok.ColorRef,
			Fallback: !ok,
		}
		if !ok {
			res.Fallbacks = append(res.Fallbacks, i)
		}
		res.Words = append(res.Words, word)
		placed = append(placed, word.Box())
	}
	return res
}

func (s *Solver) best(w, h, width, height float64, placed []Box) (x, y float64, ok bool) {
	spanX := math.Max(0, width-w)
	spanY := math.Max(0, height-h)

	bestScore := -1.0
	for range s.attempts {
		cx := s.rng.Float64() * spanX
		cy := s.rng.Float64() * spanY
		if AnyCollision(Box{X: cx, Y: cy, W: w, H: h}, placed, s.spacing) {
			continue
		}
		if sc := Score(cx, cy, w, h, width, height); !ok || sc > bestScore {
			bestScore, x, y, ok = sc, cx, cy, true
		}
	}
	if !ok {
		return spanX / 2, spanY / 2, false
	}
	return x, y, true
}

// Score rates a candidate position: a blend of closeness to the canvas
// center and distance from the canvas edges.
func Score(x, y, w, h, width, height float64) float64 {
	d := math.Hypot(x+w/2-width/2, y+h/2-height/2)
	centrality := 1 / (1 + d/centerFalloff)

	edge := min(x, y, width-x-w, height-y-h)
	coverage := 0.6*math.Min(edge/edgeSaturation, 1) + 0.4/(1+d/coverageFalloff)

	return 0.2*centrality + 0.8*coverage
}
