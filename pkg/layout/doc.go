// Package layout places weighted word tokens on a fixed canvas.
//
// # Overview
//
// Placement is greedy and stochastic. Each token is measured, then a fixed
// number of uniformly random candidate positions is sampled inside the
// canvas. Candidates that overlap an already placed word (inflated by a
// spacing margin) are discarded; the survivors are scored and the best one
// is kept. Earlier placements are never revisited.
//
// When every candidate collides, the word is centered and flagged as a
// fallback. Fallback words may overlap; the flag lets callers report it.
//
//	solver := layout.NewSolver(rng, measurer, layout.WithSpacing(25))
//	result := solver.Place(tokens, 680, 1009)
//	for _, w := range result.Words {
//	    fmt.Println(w.Text, w.X, w.Y)
//	}
//
// # Randomness
//
// The solver draws every random number from the injected *rand.Rand, so a
// fixed seed and a deterministic [TextMeasurer] reproduce the same layout.
//
// # Collision
//
// [Collides] and [AnyCollision] are shared with the document re-projection
// in package reproject.
package layout
