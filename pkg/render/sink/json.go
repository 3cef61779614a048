package sink

import (
	"bytes"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/errors"
	wio "github.com/matzehuels/wordcloud/pkg/io"
	"github.com/matzehuels/wordcloud/pkg/layout"
)

// RenderJSON serializes a layout with the configuration and seed that
// produced it. The output can be read back with io.ReadLayout.
func RenderJSON(res layout.Result, cfg cloud.LayoutConfig, seed uint64) ([]byte, error) {
	var buf bytes.Buffer
	if err := wio.WriteLayout(wio.Layout{Seed: seed, Config: cfg, Result: res}, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode layout")
	}
	return buf.Bytes(), nil
}
