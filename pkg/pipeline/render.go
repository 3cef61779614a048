package pipeline

import (
	"github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/layout"
	"github.com/matzehuels/wordcloud/pkg/render/sink"
	"github.com/matzehuels/wordcloud/pkg/reproject"
)

// RenderFormat renders one output format from a computed layout.
// The PDF path re-measures text with docMeasurer; nil selects the gofpdf
// core-font measurer.
func RenderFormat(res layout.Result, opts Options, format string, docMeasurer layout.TextMeasurer) ([]byte, error) {
	switch format {
	case FormatSVG:
		var svgOpts []sink.SVGOption
		if opts.EmbedFont {
			svgOpts = append(svgOpts, sink.WithEmbeddedFont())
		}
		return sink.RenderSVG(res, opts.Config, svgOpts...), nil
	case FormatPNG:
		return sink.RenderPNG(res, opts.Config, sink.WithScale(opts.Scale))
	case FormatPDF:
		data, _, err := renderDocument(res, opts, docMeasurer)
		return data, err
	case FormatJSON:
		return sink.RenderJSON(res, opts.Config, opts.Seed)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
	}
}

func renderDocument(res layout.Result, opts Options, docMeasurer layout.TextMeasurer) ([]byte, reproject.Result, error) {
	var proj reproject.Result
	pdfOpts := []sink.PDFOption{
		sink.WithPage(opts.Page()),
		sink.WithProjectOptions(
			reproject.WithSpacing(opts.WordSpacing),
			reproject.WithAttempts(opts.Attempts),
		),
		sink.WithProjection(&proj),
	}
	if docMeasurer != nil {
		pdfOpts = append(pdfOpts, sink.WithPDFMeasurer(docMeasurer))
	}
	data, err := sink.RenderPDF(res.Words, opts.Config, pdfOpts...)
	return data, proj, err
}
