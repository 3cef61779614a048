// Package cloud defines the word-cloud domain model: the roster of name
// entries a session owns, the layout configuration, and the two pure steps
// that run before placement.
//
// # Entries
//
// A [NameEntry] is one distinct label with an occurrence count and two
// display flags. Importing the same label twice never creates a second
// entry; it raises the count. At most one entry of a [Roster] is highlighted.
//
// # Weighting
//
// [Expand] turns the visible entries into a flat, shuffled sequence of
// [RenderToken] values. An entry with count c contributes c tokens, or
// c*HighlightMultiplier tokens when it is highlighted:
//
//	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
//	tokens := cloud.Expand(roster.Entries(), cfg, rng)
//
// # Font sizes
//
// [FontSizer] maps each token to a size between MinFontSize and MaxFontSize,
// linear in the number of tokens sharing its text in the current pass:
//
//	sizer := cloud.NewFontSizer(tokens, cfg)
//	size := sizer.Size(tokens[0])
package cloud
