package cloud

import "math"

// FontSizer maps tokens to font sizes for one placement pass.
type FontSizer struct {
	counts   map[string]int
	minCount int
	maxCount int
	minSize  float64
	maxSize  float64
}

// NewFontSizer counts the tokens of each distinct text in the pass.
func NewFontSizer(tokens []RenderToken, cfg LayoutConfig) *FontSizer {
	s := &FontSizer{
		counts:  make(map[string]int),
		minSize: cfg.MinFontSize,
		maxSize: cfg.MaxFontSize,
	}
	for _, t := range tokens {
		s.counts[t.Text]++
	}
	first := true
	for _, c := range s.counts {
		if first {
			s.minCount, s.maxCount = c, c
			first = false
			continue
		}
		s.minCount = min(s.minCount, c)
		s.maxCount = max(s.maxCount, c)
	}
	return s
}

// Count returns how many tokens of text the pass holds.
func (s *FontSizer) Count(text string) int { return s.counts[text] }

// Base returns the interpolated, rounded size for an occurrence count.
// When every text is equally frequent the maximum size is used.
func (s *FontSizer) Base(count int) float64 {
	if s.maxCount == s.minCount {
		return s.maxSize
	}
	ratio := float64(count-s.minCount) / float64(s.maxCount-s.minCount)
	return math.Round(s.minSize + (s.maxSize-s.minSize)*ratio)
}

// Size returns the font size of t: the base size scaled by the token weight
// and clamped to the maximum.
// No lower clamp is applied: a weight below one can push a size under
// MinFontSize.
func (s *FontSizer) Size(t RenderToken) float64 {
	return math.Min(s.Base(s.counts[t.Text])*t.Weight, s.maxSize)
}
