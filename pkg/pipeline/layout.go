package pipeline

import (
	"math/rand/v2"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/layout"
)

// Canvas is the screen surface one placement pass works on.
type Canvas struct {
	Width    float64
	Height   float64
	Spacing  float64
	Attempts int
	Font     layout.Font
}

// NewRNG returns the generator used for one placement pass. Shuffling and
// candidate sampling draw from the same stream, so a seed pins both.
func NewRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// Layout expands entries into tokens, sizes them and places them on the
// canvas. The color reference of each word is its index in the shuffled
// token sequence. The same inputs always give the same result.
func Layout(entries []cloud.NameEntry, cfg cloud.LayoutConfig, seed uint64, c Canvas, m layout.TextMeasurer) layout.Result {
	rng := NewRNG(seed)
	tokens := cloud.Expand(entries, cfg, rng)
	sizer := cloud.NewFontSizer(tokens, cfg)

	sized := make([]layout.SizedToken, len(tokens))
	for i, t := range tokens {
		sized[i] = layout.SizedToken{Text: t.Text, FontSize: sizer.Size(t), ColorRef: i}
	}

	solver := layout.NewSolver(rng, m,
		layout.WithAttempts(c.Attempts),
		layout.WithSpacing(c.Spacing),
		layout.WithFont(c.Font),
	)
	return solver.Place(sized, c.Width, c.Height)
}
