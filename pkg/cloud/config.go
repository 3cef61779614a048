package cloud

import (
	"fmt"
	"slices"

	"github.com/matzehuels/wordcloud/pkg/errors"
)

// TextCase selects how labels are cased before rendering.
type TextCase string

const (
	CaseUpper       TextCase = "uppercase"
	CaseLower       TextCase = "lowercase"
	CaseCapitalized TextCase = "capitalized"
	CaseAsIs        TextCase = "as-is"
)

// ColorScheme selects the palette words are drawn with.
type ColorScheme string

const (
	SchemeRainbow         ColorScheme = "rainbow"
	SchemeBlack           ColorScheme = "black"
	SchemeBlackRedInitial ColorScheme = "black-red-initial"
)

// AccentColor is the initial-letter color of [SchemeBlackRedInitial].
const AccentColor = "#e74c3c"

// BlackColor is the body color of the black schemes.
const BlackColor = "#000000"

var palettes = map[ColorScheme][]string{
	SchemeRainbow:         {"#e74c3c", "#e67e22", "#f39c12", "#f1c40f", "#2ecc71", "#1abc9c", "#3498db", "#9b59b6", "#e91e63"},
	SchemeBlack:           {BlackColor},
	SchemeBlackRedInitial: {BlackColor},
}

// Palette returns the colors of a scheme. Unknown schemes get black.
func Palette(s ColorScheme) []string {
	if p, ok := palettes[s]; ok {
		return slices.Clone(p)
	}
	return []string{BlackColor}
}

// Color returns the palette color for a placement color index.
func Color(s ColorScheme, ref int) string {
	p := palettes[s]
	if len(p) == 0 {
		return BlackColor
	}
	return p[((ref%len(p))+len(p))%len(p)]
}

// Defaults, matching the settings a fresh tool starts with.
const (
	DefaultMinFontSize         = 12
	DefaultMaxFontSize         = 48
	DefaultColorScheme         = SchemeRainbow
	DefaultTextCase            = CaseUpper
	DefaultHighlightMultiplier = 3
)

// LayoutConfig holds the render-wide parameters of a placement pass.
// It is treated as immutable while a pass runs.
type LayoutConfig struct {
	MinFontSize         float64     `json:"minFontSize" toml:"min_font_size"`
	MaxFontSize         float64     `json:"maxFontSize" toml:"max_font_size"`
	ColorScheme         ColorScheme `json:"colorScheme" toml:"color_scheme"`
	TextCase            TextCase    `json:"textCase" toml:"text_case"`
	HighlightMultiplier int         `json:"highlightMultiplier" toml:"highlight_multiplier"`
}

// DefaultConfig returns the default layout configuration.
func DefaultConfig() LayoutConfig {
	return LayoutConfig{
		MinFontSize:         DefaultMinFontSize,
		MaxFontSize:         DefaultMaxFontSize,
		ColorScheme:         DefaultColorScheme,
		TextCase:            DefaultTextCase,
		HighlightMultiplier: DefaultHighlightMultiplier,
	}
}

// Merge returns c with every zero field taken from base.
// It mirrors how saved settings are laid over the defaults.
func (c LayoutConfig) Merge(base LayoutConfig) LayoutConfig {
	if c.MinFontSize == 0 {
		c.MinFontSize = base.MinFontSize
	}
	if c.MaxFontSize == 0 {
		c.MaxFontSize = base.MaxFontSize
	}
	if c.ColorScheme == "" {
		c.ColorScheme = base.ColorScheme
	}
	if c.TextCase == "" {
		c.TextCase = base.TextCase
	}
	if c.HighlightMultiplier == 0 {
		c.HighlightMultiplier = base.HighlightMultiplier
	}
	return c
}

// Normalize repairs values a slider or a hand-edited file can produce:
// the multiplier is raised to one and an inverted font range is swapped.
func (c LayoutConfig) Normalize() LayoutConfig {
	c.HighlightMultiplier = max(c.HighlightMultiplier, 1)
	if c.MinFontSize > c.MaxFontSize {
		c.MinFontSize, c.MaxFontSize = c.MaxFontSize, c.MinFontSize
	}
	return c
}

// Validate reports the first invalid field as an INVALID_CONFIG error.
func (c LayoutConfig) Validate() error {
	switch {
	case c.MinFontSize <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "min font size must be positive, got %v", c.MinFontSize)
	case c.MaxFontSize < c.MinFontSize:
		return errors.New(errors.ErrCodeInvalidConfig, "max font size %v is below min font size %v", c.MaxFontSize, c.MinFontSize)
	case c.HighlightMultiplier < 1:
		return errors.New(errors.ErrCodeInvalidConfig, "highlight multiplier must be at least 1, got %d", c.HighlightMultiplier)
	case c.HighlightMultiplier > MaxHighlightMultiplier:
		return errors.New(errors.ErrCodeInvalidConfig, "highlight multiplier must be at most %d, got %d", MaxHighlightMultiplier, c.HighlightMultiplier)
	}
	if err := ValidateScheme(c.ColorScheme); err != nil {
		return err
	}
	return ValidateCase(c.TextCase)
}

// ValidateScheme checks that s names a known color scheme.
func ValidateScheme(s ColorScheme) error {
	if _, ok := palettes[s]; !ok {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid color scheme: %q (must be one of: %s, %s, %s)",
			s, SchemeRainbow, SchemeBlack, SchemeBlackRedInitial)
	}
	return nil
}

// ValidateCase checks that tc names a known text case.
func ValidateCase(tc TextCase) error {
	switch tc {
	case CaseUpper, CaseLower, CaseCapitalized, CaseAsIs:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidConfig, "invalid text case: %q (must be one of: %s)", tc,
		fmt.Sprint([]TextCase{CaseUpper, CaseLower, CaseCapitalized, CaseAsIs}))
}
