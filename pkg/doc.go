// Package pkg provides the core libraries for wordcloud.
//
// # Overview
//
// Wordcloud turns a class roster of first names into a word cloud: a name
// that occurs more often is drawn larger, one name can be highlighted, and
// the cloud can be printed as an A4 PDF. The pkg directory is organized
// into four areas:
//
//  1. Domain: [cloud] (roster, tokens, settings), [layout] (placement),
//     [reproject] (screen to page)
//  2. Output: [render/sink] (SVG, PNG, PDF, JSON), [fonts], [measure]
//  3. Orchestration: [pipeline] (roster → layout → render), [session]
//     (editing state and persistence), [schedule] (debounced relayout)
//  4. Infrastructure: [cache], [config], [errors], [observability],
//     [server], [io], [buildinfo]
//
// # Data Flow
//
//	CSV / typed names
//	      ↓
//	  [cloud] roster → weighted tokens
//	      ↓
//	  [layout] spiral placement on the canvas
//	      ↓
//	  [render/sink] preview (SVG/PNG) or [reproject] → A4 PDF
//
// # Quick Start
//
//	roster := &cloud.Roster{}
//	roster.Import(io.ParseNames("Léa, Hugo, Léa"))
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	res, err := runner.Execute(ctx, roster.Entries(), pipeline.Options{
//	    Config:  cloud.DefaultLayoutConfig(),
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	svg := res.Artifacts[pipeline.FormatSVG]
//
// # Testing
//
//	go test ./pkg/...
package pkg
