package spacing

import (
	"testing"

	"dimensio/internal/geometry"
)

func TestMeasureHorizontalGap(t *testing.T) {
	source := geometry.R(0, 0, 100, 100)
	target := geometry.R(150, 0, 100, 100)

	gaps := Measure(source, target)
	if len(gaps) != 1 {
		t.Fatalf("expected one gap, got %d: %v", len(gaps), gaps)
	}
	g := gaps[0]
	if !g.Horizontal || g.Distance != 50 {
		t.Fatalf("unexpected gap: %+v", g)
	}
	// The line runs from the source's right edge to the target's left edge,
	// at the target's vertical center.
	if g.X1 != 100 || g.X2 != 150 || g.Y1 != 50 || g.Y2 != 50 {
		t.Fatalf("line placement: %+v", g)
	}
	if g.Label() != "50px" {
		t.Fatalf("label: %q", g.Label())
	}
}

func TestMeasureTargetOnLeft(t *testing.T) {
	source := geometry.R(300, 0, 100, 100)
	target := geometry.R(0, 10, 100, 100)

	gaps := Measure(source, target)
	if len(gaps) != 1 {
		t.Fatalf("expected one gap, got %v", gaps)
	}
	g := gaps[0]
	if !g.Horizontal || g.Distance != 200 {
		t.Fatalf("unexpected gap: %+v", g)
	}
	if g.Y1 != target.CenterY() {
		t.Fatalf("line should sit on target's center: %+v", g)
	}
}

func TestMeasureVerticalGap(t *testing.T) {
	source := geometry.R(0, 0, 100, 100)
	target := geometry.R(20, 180, 100, 100)

	gaps := Measure(source, target)
	if len(gaps) != 1 {
		t.Fatalf("expected one gap, got %v", gaps)
	}
	g := gaps[0]
	if g.Horizontal || g.Distance != 80 {
		t.Fatalf("unexpected gap: %+v", g)
	}
	if g.X1 != target.CenterX() || g.Y1 != 100 || g.Y2 != 180 {
		t.Fatalf("line placement: %+v", g)
	}
}

func TestMeasureDiagonalReportsBothAxes(t *testing.T) {
	source := geometry.R(0, 0, 100, 100)
	target := geometry.R(200, 300, 100, 100)

	gaps := Measure(source, target)
	if len(gaps) != 2 {
		t.Fatalf("expected both axes measured, got %v", gaps)
	}
	if !gaps[0].Horizontal || gaps[1].Horizontal {
		t.Fatalf("expected horizontal then vertical, got %v", gaps)
	}
	if gaps[0].Distance != 100 || gaps[1].Distance != 200 {
		t.Fatalf("distances: %v", gaps)
	}
}

func TestMeasureOverlappingAxisSkipped(t *testing.T) {
	// Rects overlap on X, disjoint on Y: only the vertical gap appears.
	source := geometry.R(0, 0, 100, 100)
	target := geometry.R(50, 200, 100, 100)

	gaps := Measure(source, target)
	if len(gaps) != 1 || gaps[0].Horizontal {
		t.Fatalf("expected single vertical gap, got %v", gaps)
	}
}

func TestMeasureFullOverlap(t *testing.T) {
	source := geometry.R(0, 0, 100, 100)
	target := geometry.R(10, 10, 50, 50)
	if gaps := Measure(source, target); gaps != nil {
		t.Fatalf("contained rects must yield no gaps, got %v", gaps)
	}
}

func TestMeasureIdenticalRects(t *testing.T) {
	r := geometry.R(10, 10, 100, 100)
	if gaps := Measure(r, r); gaps != nil {
		t.Fatalf("identical rects must yield nothing, got %v", gaps)
	}
}

func TestMeasureTouchingEdges(t *testing.T) {
	// Touching rects: Right() == Left(), not strictly less, so no gap.
	source := geometry.R(0, 0, 100, 100)
	target := geometry.R(100, 0, 100, 100)
	if gaps := Measure(source, target); len(gaps) != 0 {
		t.Fatalf("touching rects should report no gap, got %v", gaps)
	}
}
