package sink

import (
	"bytes"
	"unicode/utf8"

	"github.com/fogleman/gg"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/layout"
	"github.com/matzehuels/wordcloud/pkg/measure"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale      float64
	screen     *measure.Screen
	weight     string
	background string
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

// WithPNGBackground sets the canvas color.
func WithPNGBackground(hex string) PNGOption { return func(r *pngRenderer) { r.background = hex } }

// RenderPNG rasterizes the preview of a layout.
func RenderPNG(res layout.Result, cfg cloud.LayoutConfig, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 2.0, weight: "bold", background: "#ffffff"}
	for _, opt := range opts {
		opt(&r)
	}
	// Faces are drawn outside the measurer's lock, so each render owns its cache.
	r.screen = measure.NewScreen()
	defer r.screen.Close()

	w := max(1, int(res.Width*r.scale+0.5))
	h := max(1, int(res.Height*r.scale+0.5))
	dc := gg.NewContext(w, h)

	bg := parseHex(r.background)
	dc.SetRGB(bg.R, bg.G, bg.B)
	dc.Clear()

	for _, word := range res.Words {
		face, err := r.screen.Face(r.weight, word.FontSize*r.scale)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "font face at %.1f", word.FontSize)
		}
		dc.SetFontFace(face)

		x := word.X * r.scale
		y := word.Y*r.scale + float64(face.Metrics().Ascent)/64

		if cfg.ColorScheme != cloud.SchemeBlackRedInitial || word.Text == "" {
			drawRun(dc, word.Text, x, y, cloud.Color(cfg.ColorScheme, word.ColorRef))
			continue
		}
		_, n := utf8.DecodeRuneInString(word.Text)
		drawRun(dc, word.Text[:n], x, y, cloud.AccentColor)
		iw, _ := dc.MeasureString(word.Text[:n])
		drawRun(dc, word.Text[n:], x+iw, y, cloud.BlackColor)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

func drawRun(dc *gg.Context, s string, x, y float64, hex string) {
	if s == "" {
		return
	}
	c := parseHex(hex)
	dc.SetRGB(c.R, c.G, c.B)
	dc.DrawString(s, x, y)
}
