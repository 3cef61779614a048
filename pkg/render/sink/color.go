package sink

import (
	"github.com/lucasb-eyer/go-colorful"
)

// parseHex returns the color for a hex string, or black.
func parseHex(hex string) colorful.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}
	}
	return c
}

// rgb255 returns the 0-255 channels of a hex color, or black.
func rgb255(hex string) (r, g, b int) {
	r8, g8, b8 := parseHex(hex).RGB255()
	return int(r8), int(g8), int(b8)
}
