package io

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/layout"
)

func sampleLayout() Layout {
	return Layout{
		Seed:   42,
		Config: cloud.DefaultConfig(),
		Result: layout.Result{
			Width:  680,
			Height: 1009,
			Words: []layout.PlacedWord{
				{Text: "ALICE", X: 10, Y: 20, Width: 100, Height: 40, FontSize: 48},
				{Text: "BOB", X: 300, Y: 500, Width: 30, Height: 14, FontSize: 12, ColorRef: 1, Fallback: true},
			},
			Fallbacks: []int{1},
		},
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteLayout(sampleLayout(), &buf); err != nil {
		t.Fatal(err)
	}
	got, err := ReadLayout(&buf)
	if err != nil {
		t.Fatal(err)
	}

	want := sampleLayout()
	if got.Seed != want.Seed || got.Config != want.Config || got.Width != want.Width {
		t.Errorf("header mismatch: %+v", got)
	}
	if len(got.Words) != 2 || got.Words[1] != want.Words[1] {
		t.Errorf("words = %+v", got.Words)
	}
	if len(got.Palette) != 9 {
		t.Errorf("palette = %v, want rainbow", got.Palette)
	}
}

func TestWriteLayoutFlattensResult(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteLayout(sampleLayout(), &buf); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{`"words"`, `"width": 680`, `"seed": 42`, `"colorScheme": "rainbow"`} {
		if !strings.Contains(buf.String(), key) {
			t.Errorf("output missing %s:\n%s", key, buf.String())
		}
	}
}

func TestReadLayoutErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		code errors.Code
	}{
		{"not json", "{", errors.ErrCodeInvalidFormat},
		{"no canvas", `{"words": []}`, errors.ErrCodeInvalidFormat},
		{"bad scheme", `{"width": 1, "height": 1, "config": {"colorScheme": "neon"}}`, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadLayout(strings.NewReader(tt.in))
			if !errors.Is(err, tt.code) {
				t.Errorf("ReadLayout() error = %v, want code %s", err, tt.code)
			}
		})
	}
}
