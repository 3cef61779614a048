// Package io reads name lists and reads and writes layout files.
//
// # Name Import
//
// [ReadCSV] takes the first column of a spreadsheet export and skips the
// header row:
//
//	Prénom,Nom
//	Alice,Martin
//	"Bob",Durand
//
// yields ["Alice", "Bob"]. Comma and semicolon separated files are both
// accepted; the separator is detected from the header row. Quotes are
// stripped and blank rows are ignored. Input that cannot be parsed yields
// no labels rather than an error: an unreadable file is simply an empty
// class list.
//
// [ParseNames] splits free text typed by the user on commas, semicolons
// and newlines.
//
// # Layout Files
//
// [WriteLayout] and [ReadLayout] serialize a placed layout together with
// the configuration and seed that produced it, so a layout can be
// re-exported to PDF without running the solver again:
//
//	{
//	  "seed": 42,
//	  "config": {"minFontSize": 12, "maxFontSize": 48, ...},
//	  "palette": ["#e74c3c", ...],
//	  "width": 680,
//	  "height": 1009,
//	  "words": [{"text": "ALICE", "x": 310.2, "y": 488.0, ...}]
//	}
package io
