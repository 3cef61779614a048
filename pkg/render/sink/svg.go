package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"unicode/utf8"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/fonts"
	"github.com/matzehuels/wordcloud/pkg/layout"
)

// baselineRatio places the baseline within a word box; it matches the
// ascent share of the Go faces.
const baselineRatio = 0.81

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	embedFont  bool
	background string
	showBoxes  bool
}

// WithEmbeddedFont inlines the Go Bold face as a data URI.
func WithEmbeddedFont() SVGOption { return func(r *svgRenderer) { r.embedFont = true } }

// WithBackground fills the canvas with a color.
func WithBackground(hex string) SVGOption { return func(r *svgRenderer) { r.background = hex } }

// WithBoxes outlines every word box; fallback words are outlined in red.
func WithBoxes() SVGOption { return func(r *svgRenderer) { r.showBoxes = true } }

// RenderSVG renders the preview of a layout.
func RenderSVG(res layout.Result, cfg cloud.LayoutConfig, opts ...SVGOption) []byte {
	r := svgRenderer{background: "#ffffff"}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		res.Width, res.Height, res.Width, res.Height)

	if r.embedFont {
		fmt.Fprintf(&buf, "  <defs><style>@font-face { font-family: '%s'; font-weight: bold; src: url(data:font/ttf;base64,%s); }</style></defs>\n",
			fonts.FontFamily, fonts.BoldTTFBase64())
	}
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", escapeXML(r.background))
	}

	for i, w := range res.Words {
		renderWord(&buf, i, w, cfg.ColorScheme)
		if r.showBoxes {
			stroke := "#cccccc"
			if w.Fallback {
				stroke = "#ff0000"
			}
			fmt.Fprintf(&buf, `  <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="%s" stroke-width="0.5"/>`+"\n",
				w.X, w.Y, w.Width, w.Height, stroke)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderWord(buf *bytes.Buffer, i int, w layout.PlacedWord, scheme cloud.ColorScheme) {
	fmt.Fprintf(buf, `  <text id="word-%d" class="word" x="%.2f" y="%.2f" font-family="%s" font-weight="bold" font-size="%.1f"`,
		i, w.X, w.Y+w.Height*baselineRatio, fonts.FallbackFontFamily, w.FontSize)

	if scheme != cloud.SchemeBlackRedInitial || w.Text == "" {
		fmt.Fprintf(buf, ` fill="%s">%s</text>`+"\n", cloud.Color(scheme, w.ColorRef), escapeXML(w.Text))
		return
	}

	_, n := utf8.DecodeRuneInString(w.Text)
	fmt.Fprintf(buf, `><tspan fill="%s">%s</tspan>`, cloud.AccentColor, escapeXML(w.Text[:n]))
	if rest := w.Text[n:]; rest != "" {
		fmt.Fprintf(buf, `<tspan fill="%s">%s</tspan>`, cloud.BlackColor, escapeXML(rest))
	}
	buf.WriteString("</text>\n")
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
