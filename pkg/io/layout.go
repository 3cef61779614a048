package io

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/layout"
)

// Layout is a placed layout with the inputs that produced it.
type Layout struct {
	Seed    uint64             `json:"seed"`
	Config  cloud.LayoutConfig `json:"config"`
	Palette []string           `json:"palette,omitempty"`
	layout.Result
}

// WriteLayout encodes l as indented JSON.
func WriteLayout(l Layout, w io.Writer) error {
	if l.Palette == nil {
		l.Palette = cloud.Palette(l.Config.ColorScheme)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadLayout decodes a layout file. The configuration is merged over the
// defaults and validated.
func ReadLayout(r io.Reader) (Layout, error) {
	var l Layout
	if err := json.NewDecoder(r).Decode(&l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode layout")
	}
	l.Config = l.Config.Merge(cloud.DefaultConfig()).Normalize()
	if err := l.Config.Validate(); err != nil {
		return Layout{}, err
	}
	if l.Width <= 0 || l.Height <= 0 {
		return Layout{}, errors.New(errors.ErrCodeInvalidFormat, "layout has no canvas size")
	}
	return l, nil
}
