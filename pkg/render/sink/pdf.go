package sink

import (
	"bytes"
	"io"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/jung-kurt/gofpdf"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/layout"
	"github.com/matzehuels/wordcloud/pkg/reproject"
)

// Document font: the core Helvetica Bold face, so no font files are needed.
const (
	pdfFontFamily = "Helvetica"
	pdfFontStyle  = "B"
)

// DocumentWriter is the drawing surface of a PDF export. Coordinates are
// page millimetres and y is the text baseline.
type DocumentWriter interface {
	SetFontSize(pt float64)
	SetTextColor(r, g, b int)
	Text(x, y float64, s string)
	Output(w io.Writer) error
}

// WriterFactory builds a fresh writer for one page.
type WriterFactory func(page reproject.Page) DocumentWriter

type fpdfWriter struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

// NewFPDFWriter returns a gofpdf-backed writer with one blank page.
func NewFPDFWriter(page reproject.Page) DocumentWriter {
	pdf := newFpdf(page)
	pdf.SetCreator("wordcloud", false)
	pdf.SetCreationDate(time.Unix(0, 0).UTC())
	pdf.AddPage()
	return &fpdfWriter{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func newFpdf(page reproject.Page) *gofpdf.Fpdf {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: page.Width, Ht: page.Height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont(pdfFontFamily, pdfFontStyle, 12)
	return pdf
}

func (w *fpdfWriter) SetFontSize(pt float64)      { w.pdf.SetFontSize(pt) }
func (w *fpdfWriter) SetTextColor(r, g, b int)    { w.pdf.SetTextColor(r, g, b) }
func (w *fpdfWriter) Text(x, y float64, s string) { w.pdf.Text(x, y, w.tr(s)) }

func (w *fpdfWriter) Output(out io.Writer) error {
	if err := w.pdf.Error(); err != nil {
		return err
	}
	return w.pdf.Output(out)
}

// PDFMeasurer measures text in document millimetres with the metrics of
// the PDF core font. It is safe for concurrent use.
type PDFMeasurer struct {
	mu  sync.Mutex
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

// NewPDFMeasurer returns a measurer for the document font.
func NewPDFMeasurer() *PDFMeasurer {
	pdf := newFpdf(reproject.A4)
	return &PDFMeasurer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

// Measure implements layout.TextMeasurer. Letter spacing is given in
// screen pixels and converted to millimetres.
func (m *PDFMeasurer) Measure(text string, f layout.Font) (w, h float64) {
	m.mu.Lock()
	m.pdf.SetFontSize(f.Size)
	w = m.pdf.GetStringWidth(m.tr(text))
	m.mu.Unlock()

	w += reproject.PxToMM(f.LetterSpacing) * float64(utf8.RuneCountInString(text))
	return w, reproject.PtToMM(f.Size)
}

// PDFOption configures PDF rendering.
type PDFOption func(*pdfRenderer)

type pdfRenderer struct {
	newWriter WriterFactory
	measurer  layout.TextMeasurer
	projOpts  []reproject.Option
	page      reproject.Page
	projected *reproject.Result
}

// WithWriter replaces the gofpdf writer.
func WithWriter(f WriterFactory) PDFOption { return func(r *pdfRenderer) { r.newWriter = f } }

// WithPDFMeasurer replaces the document measurer.
func WithPDFMeasurer(m layout.TextMeasurer) PDFOption {
	return func(r *pdfRenderer) { r.measurer = m }
}

// WithPage sets the page geometry.
func WithPage(p reproject.Page) PDFOption {
	return func(r *pdfRenderer) {
		r.page = p
		r.projOpts = append(r.projOpts, reproject.WithPage(p))
	}
}

// WithProjectOptions passes options through to reproject.Project.
func WithProjectOptions(opts ...reproject.Option) PDFOption {
	return func(r *pdfRenderer) { r.projOpts = append(r.projOpts, opts...) }
}

// WithProjection stores the projection used for the export in dst.
func WithProjection(dst *reproject.Result) PDFOption {
	return func(r *pdfRenderer) { r.projected = dst }
}

var defaultPDFMeasurer = sync.OnceValue(NewPDFMeasurer)

// RenderPDF projects words onto the page and writes them as a vector PDF.
// Either the whole document is returned or an EXPORT_FAILED error; partial
// output is never returned.
func RenderPDF(words []layout.PlacedWord, cfg cloud.LayoutConfig, opts ...PDFOption) ([]byte, error) {
	r := pdfRenderer{newWriter: NewFPDFWriter, page: reproject.A4}
	for _, opt := range opts {
		opt(&r)
	}
	if r.measurer == nil {
		r.measurer = defaultPDFMeasurer()
	}

	proj := reproject.Project(words, cfg, r.measurer, r.projOpts...)
	if r.projected != nil {
		*r.projected = proj
	}
	return WriteDocument(proj, r.newWriter(proj.Page))
}

// WriteDocument draws an already projected document with w.
func WriteDocument(proj reproject.Result, w DocumentWriter) (out []byte, err error) {
	defer func() {
		if p := recover(); p != nil {
			out, err = nil, errors.New(errors.ErrCodeExportFailed, "document writer: %v", p)
		}
	}()

	margin := proj.Page.Margin
	for _, pl := range proj.Placements {
		w.SetFontSize(pl.FontSize)
		for _, run := range pl.Runs {
			w.SetTextColor(rgb255(run.Color))
			w.Text(margin+run.X, margin+pl.Baseline, run.Text)
		}
	}

	var buf bytes.Buffer
	if err := w.Output(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeExportFailed, err, "write pdf")
	}
	return buf.Bytes(), nil
}

// ExportFileName returns the dated file name of a PDF export.
func ExportFileName(t time.Time) string {
	return "nuage-mots-" + t.Format(time.DateOnly) + ".pdf"
}
