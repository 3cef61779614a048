package layout_test

import (
	"fmt"
	"math/rand/v2"

	"github.com/matzehuels/wordcloud/pkg/layout"
)

func ExampleSolver_Place() {
	measure := layout.MeasureFunc(func(text string, f layout.Font) (float64, float64) {
		return float64(len(text)) * f.Size * 0.6, f.Size * 1.2
	})
	rng := rand.New(rand.NewPCG(42, 42^0xdeadbeef))
	solver := layout.NewSolver(rng, measure)

	res := solver.Place([]layout.SizedToken{
		{Text: "ALICE", FontSize: 48},
		{Text: "BOB", FontSize: 12},
	}, 680, 1009)

	fmt.Println(len(res.Words), len(res.Fallbacks))
	// Output: 2 0
}

func ExampleCollides() {
	a := layout.Box{X: 0, Y: 0, W: 10, H: 10}
	b := layout.Box{X: 10, Y: 0, W: 10, H: 10}
	fmt.Println(layout.Collides(a, b, 0), layout.Collides(a, b, 1))
	// Output: false true
}
