// Package reproject converts a screen layout into page coordinates.
//
// The preview and the printed document measure text differently, so a
// layout that is overlap-free on screen may collide once its words are
// re-measured with the document font. [Project] converts every word to
// millimetres, re-measures it with the document measurer and, when the
// converted box collides with a word already projected, walks a spiral
// around it looking for the nearest free spot inside the content area.
//
// Positions in the result are relative to the content area; writers add
// the page margin when they emit text.
package reproject

import (
	"math"
	"unicode/utf8"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/layout"
)

// Unit conversions.
const (
	MMPerInch = 25.4
	ScreenDPI = 96.0
	PointsPer = 72.0
)

// PxToMM converts screen pixels at 96 DPI to millimetres.
func PxToMM(px float64) float64 { return px * MMPerInch / ScreenDPI }

// PtToMM converts points to millimetres.
func PtToMM(pt float64) float64 { return pt * MMPerInch / PointsPer }

// Page describes the printable surface in millimetres.
type Page struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Margin float64 `json:"margin"`
}

// A4 is the default portrait page.
var A4 = Page{Width: 210, Height: 297, Margin: 15}

// ContentWidth is the page width minus both margins.
func (p Page) ContentWidth() float64 { return p.Width - 2*p.Margin }

// ContentHeight is the page height minus both margins.
func (p Page) ContentHeight() float64 { return p.Height - 2*p.Margin }

// ContentPx is the content area in screen pixels, the canvas size that
// maps one-to-one onto the page.
func (p Page) ContentPx() (w, h float64) {
	return math.Floor(p.ContentWidth() * ScreenDPI / MMPerInch), math.Floor(p.ContentHeight() * ScreenDPI / MMPerInch)
}

// Defaults for document placement.
const (
	DefaultSpacing  = 12.0
	DefaultAttempts = 150
	DefaultStep     = 1.0
	directions      = 8
	lineHeight      = 1.2
	ascent          = 0.9
)

// Run is a span of a word drawn in one color.
type Run struct {
	Text  string  `json:"text"`
	X     float64 `json:"x"`
	Color string  `json:"color"`
}

// Placement is a word positioned on the page.
type Placement struct {
	Text       string  `json:"text"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Baseline   float64 `json:"baseline"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	FontSize   float64 `json:"font_size"`
	Color      string  `json:"color"`
	Runs       []Run   `json:"runs"`
	Unresolved bool    `json:"unresolved,omitempty"`
}

// Box returns the placement's bounding box.
func (p Placement) Box() layout.Box { return layout.Box{X: p.X, Y: p.Y, W: p.Width, H: p.Height} }

// Result is a projected document.
type Result struct {
	Page       Page        `json:"page"`
	Placements []Placement `json:"placements"`
	Unresolved []int       `json:"unresolved,omitempty"`
}

type projector struct {
	page     Page
	spacing  float64
	attempts int
	step     float64
	font     layout.Font
}

// Option configures [Project].
type Option func(*projector)

// WithPage sets the page geometry.
func WithPage(p Page) Option { return func(r *projector) { r.page = p } }

// WithSpacing sets the minimum gap between words in millimetres.
func WithSpacing(mm float64) Option { return func(r *projector) { r.spacing = mm } }

// WithAttempts sets the number of spiral candidates per word.
func WithAttempts(n int) Option {
	return func(r *projector) {
		if n > 0 {
			r.attempts = n
		}
	}
}

// WithFont sets the document font; size comes from each word.
func WithFont(f layout.Font) Option { return func(r *projector) { r.font = f } }

// Project re-measures and re-positions words for the page. The font size
// of each word is carried over numerically: a 48px preview word is drawn
// at 48pt.
func Project(words []layout.PlacedWord, cfg cloud.LayoutConfig, m layout.TextMeasurer, opts ...Option) Result {
	p := projector{
		page:     A4,
		spacing:  DefaultSpacing,
		attempts: DefaultAttempts,
		step:     DefaultStep,
		font:     layout.Font{Family: "helvetica", Weight: "bold"},
	}
	for _, opt := range opts {
		opt(&p)
	}

	res := Result{Page: p.page, Placements: make([]Placement, 0, len(words))}
	placed := make([]layout.Box, 0, len(words))

	for i, w := range words {
		f := p.font.WithSize(w.FontSize)
		width, _ := m.Measure(w.Text, f)
		box := layout.Box{X: PxToMM(w.X), Y: PxToMM(w.Y), W: width, H: lineHeight * PtToMM(w.FontSize)}

		resolved := true
		if layout.AnyCollision(box, placed, p.spacing) {
			box, resolved = p.spiral(box, placed)
		}
		if !resolved {
			res.Unresolved = append(res.Unresolved, i)
		}
		placed = append(placed, box)

		pl := Placement{
			Text:       w.Text,
			X:          box.X,
			Y:          box.Y,
			Baseline:   box.Y + ascent*PtToMM(w.FontSize),
			Width:      box.W,
			Height:     box.H,
			FontSize:   w.FontSize,
			Unresolved: !resolved,
		}
		pl.Color, pl.Runs = colorRuns(w.Text, w.ColorRef, box.X, cfg.ColorScheme, m, f)
		res.Placements = append(res.Placements, pl)
	}
	return res
}

// spiral tries positions around box in eight compass directions with a
// radius growing by one step every full turn.
func (p projector) spiral(box layout.Box, placed []layout.Box) (layout.Box, bool) {
	cw, ch := p.page.ContentWidth(), p.page.ContentHeight()
	for k := range p.attempts {
		angle := float64(k) * 2 * math.Pi / directions
		r := float64(k/directions+1) * p.step
		c := box
		c.X += math.Cos(angle) * r
		c.Y += math.Sin(angle) * r
		if c.X < 0 || c.Y < 0 || c.X+c.W > cw || c.Y+c.H > ch {
			continue
		}
		if !layout.AnyCollision(c, placed, p.spacing) {
			return c, true
		}
	}
	return box, false
}

func colorRuns(text string, ref int, x float64, scheme cloud.ColorScheme, m layout.TextMeasurer, f layout.Font) (string, []Run) {
	if scheme != cloud.SchemeBlackRedInitial {
		c := cloud.Color(scheme, ref)
		return c, []Run{{Text: text, X: x, Color: c}}
	}
	if text == "" {
		return cloud.BlackColor, nil
	}
	_, n := utf8.DecodeRuneInString(text)
	initial, rest := text[:n], text[n:]
	runs := []Run{{Text: initial, X: x, Color: cloud.AccentColor}}
	if rest != "" {
		iw, _ := m.Measure(initial, f)
		runs = append(runs, Run{Text: rest, X: x + iw, Color: cloud.BlackColor})
	}
	return cloud.BlackColor, runs
}
