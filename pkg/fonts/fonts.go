// Package fonts provides the embedded faces used to measure and draw words.
//
// The Go Bold and Go Regular faces ship with golang.org/x/image, so the
// screen measurer, the PNG preview and the SVG preview all agree on glyph
// metrics without depending on system fonts.
package fonts

import (
	"encoding/base64"
	"sync"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Weight names accepted by [Parsed].
const (
	WeightBold    = "bold"
	WeightRegular = "regular"
)

// BoldTTF returns the Go Bold font data.
func BoldTTF() []byte { return gobold.TTF }

// RegularTTF returns the Go Regular font data.
func RegularTTF() []byte { return goregular.TTF }

// Parsed fonts (computed once on first access).
var (
	bold, regular         *opentype.Font
	boldErr, regularErr   error
	boldOnce, regularOnce sync.Once
)

// Parsed returns the parsed font for weight. Unknown weights use bold,
// the weight words are drawn in.
func Parsed(weight string) (*opentype.Font, error) {
	if weight == WeightRegular {
		regularOnce.Do(func() { regular, regularErr = opentype.Parse(goregular.TTF) })
		return regular, regularErr
	}
	boldOnce.Do(func() { bold, boldErr = opentype.Parse(gobold.TTF) })
	return bold, boldErr
}

// Cache for base64-encoded fonts (computed once on first access).
var (
	boldBase64     string
	boldBase64Once sync.Once
)

// BoldTTFBase64 returns the Go Bold font data as a base64 string for
// embedding in SVG @font-face rules.
func BoldTTFBase64() string {
	boldBase64Once.Do(func() {
		boldBase64 = base64.StdEncoding.EncodeToString(gobold.TTF)
	})
	return boldBase64
}

// FontFamily is the CSS font-family name for the embedded face.
const FontFamily = "Go"

// FallbackFontFamily lists fallbacks for viewers that ignore the embedded face.
const FallbackFontFamily = `'Go', 'Helvetica Neue', Helvetica, Arial, sans-serif`
