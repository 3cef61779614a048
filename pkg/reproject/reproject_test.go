package reproject

import (
	"math"
	"testing"

	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/layout"
)

// mmMeasurer gives every rune 0.2mm per point.
var mmMeasurer = layout.MeasureFunc(func(text string, f layout.Font) (float64, float64) {
	return float64(len([]rune(text))) * f.Size * 0.2, PtToMM(f.Size)
})

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestUnitConversion(t *testing.T) {
	if got := PxToMM(96); !near(got, 25.4) {
		t.Errorf("PxToMM(96) = %v", got)
	}
	if got := PtToMM(72); !near(got, 25.4) {
		t.Errorf("PtToMM(72) = %v", got)
	}
	w, h := A4.ContentPx()
	if w != 680 || h != 1009 {
		t.Errorf("A4.ContentPx() = %v x %v, want 680 x 1009", w, h)
	}
}

func TestProjectKeepsFreePositions(t *testing.T) {
	words := []layout.PlacedWord{
		{Text: "ALICE", X: 0, Y: 0, FontSize: 12},
		{Text: "BOB", X: 96, Y: 480, FontSize: 12},
	}
	res := Project(words, cloud.DefaultConfig(), mmMeasurer)

	if len(res.Placements) != 2 || len(res.Unresolved) != 0 {
		t.Fatalf("Project() = %+v", res)
	}
	bob := res.Placements[1]
	if !near(bob.X, 25.4) || !near(bob.Y, 127) {
		t.Errorf("BOB at (%v, %v), want (25.4, 127)", bob.X, bob.Y)
	}
	if !near(bob.Width, 3*12*0.2) || !near(bob.Height, 1.2*PtToMM(12)) {
		t.Errorf("BOB size = %v x %v", bob.Width, bob.Height)
	}
	if bob.Baseline <= bob.Y || bob.Baseline >= bob.Y+bob.Height {
		t.Errorf("baseline %v outside box [%v, %v]", bob.Baseline, bob.Y, bob.Y+bob.Height)
	}
	if bob.FontSize != 12 {
		t.Errorf("font size = %v, want 12 carried over", bob.FontSize)
	}
}

func TestProjectSpiralsAwayFromCollision(t *testing.T) {
	words := []layout.PlacedWord{
		{Text: "ALICE", X: 300, Y: 500, FontSize: 20},
		{Text: "ALICE", X: 305, Y: 505, FontSize: 20},
	}
	res := Project(words, cloud.DefaultConfig(), mmMeasurer, WithSpacing(1), WithAttempts(400))

	if len(res.Unresolved) != 0 {
		t.Fatalf("unresolved = %v", res.Unresolved)
	}
	a, b := res.Placements[0], res.Placements[1]
	if layout.Collides(b.Box(), a.Box(), 1) {
		t.Errorf("second word still collides: %+v vs %+v", b.Box(), a.Box())
	}
	if b.X < 0 || b.Y < 0 || b.X+b.Width > A4.ContentWidth() || b.Y+b.Height > A4.ContentHeight() {
		t.Errorf("moved word outside content area: %+v", b.Box())
	}
}

func TestProjectUnresolved(t *testing.T) {
	page := Page{Width: 40, Height: 20, Margin: 0}
	words := []layout.PlacedWord{
		{Text: "ABCDEFGH", X: 0, Y: 0, FontSize: 20},
		{Text: "ABCDEFGH", X: 0, Y: 0, FontSize: 20},
	}
	res := Project(words, cloud.DefaultConfig(), mmMeasurer, WithPage(page))

	if len(res.Unresolved) != 1 || res.Unresolved[0] != 1 {
		t.Fatalf("Unresolved = %v, want [1]", res.Unresolved)
	}
	second := res.Placements[1]
	if !second.Unresolved || second.X != 0 || second.Y != 0 {
		t.Errorf("unresolved word = %+v, want original position", second)
	}
}

func TestProjectColorRuns(t *testing.T) {
	words := []layout.PlacedWord{{Text: "ÉMILE", X: 96, FontSize: 10, ColorRef: 3}}

	cfg := cloud.DefaultConfig()
	cfg.ColorScheme = cloud.SchemeBlackRedInitial
	p := Project(words, cfg, mmMeasurer).Placements[0]
	if len(p.Runs) != 2 {
		t.Fatalf("runs = %+v, want 2", p.Runs)
	}
	if p.Runs[0].Text != "É" || p.Runs[0].Color != cloud.AccentColor || !near(p.Runs[0].X, p.X) {
		t.Errorf("initial run = %+v", p.Runs[0])
	}
	if p.Runs[1].Text != "MILE" || p.Runs[1].Color != cloud.BlackColor || !near(p.Runs[1].X, p.X+10*0.2) {
		t.Errorf("rest run = %+v", p.Runs[1])
	}

	cfg.ColorScheme = cloud.SchemeRainbow
	p = Project(words, cfg, mmMeasurer).Placements[0]
	if len(p.Runs) != 1 || p.Color != "#f1c40f" || p.Runs[0].Color != p.Color {
		t.Errorf("rainbow placement = %+v", p)
	}
}

func TestProjectSingleRuneInitial(t *testing.T) {
	cfg := cloud.DefaultConfig()
	cfg.ColorScheme = cloud.SchemeBlackRedInitial
	p := Project([]layout.PlacedWord{{Text: "X", FontSize: 10}}, cfg, mmMeasurer).Placements[0]
	if len(p.Runs) != 1 || p.Runs[0].Color != cloud.AccentColor {
		t.Errorf("single rune runs = %+v", p.Runs)
	}
}
