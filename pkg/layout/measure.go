package layout

// Font describes how a token is drawn.
type Font struct {
	Family        string
	Weight        string
	Size          float64
	LetterSpacing float64
}

// WithSize returns a copy of f at the given size.
func (f Font) WithSize(size float64) Font {
	f.Size = size
	return f
}

// TextMeasurer returns the rendered extent of text in f. Units are those of
// the surface the measurer targets (pixels on screen, millimetres in a
// document).
type TextMeasurer interface {
	Measure(text string, f Font) (w, h float64)
}

// MeasureFunc adapts a plain function to [TextMeasurer].
type MeasureFunc func(text string, f Font) (w, h float64)

// Measure calls fn.
func (fn MeasureFunc) Measure(text string, f Font) (float64, float64) { return fn(text, f) }
