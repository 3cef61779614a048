// Package sink renders placed words to output formats.
//
// # Formats
//
//   - SVG ([RenderSVG]): the preview, with the embedded Go Bold face
//   - PNG ([RenderPNG]): the preview rasterized with fogleman/gg
//   - PDF ([RenderPDF]): the printable A4 document, re-projected through
//     package reproject and written with gofpdf
//   - JSON ([RenderJSON]): the layout itself, re-readable by package io
//
// Previews draw each word at its screen position. The PDF is different:
// words are re-measured with the document font ([PDFMeasurer]) and moved
// if the change in metrics made them collide.
//
//	svg := sink.RenderSVG(result, cfg)
//	pdf, err := sink.RenderPDF(result.Words, cfg)
//
// # Colors
//
// Palette entries are hex strings; they are parsed with go-colorful and an
// unparsable entry is drawn black.
package sink
