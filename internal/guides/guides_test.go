package guides

import (
	"testing"

	"dimensio/internal/geometry"
)

func TestComputeNoNeighbors(t *testing.T) {
	if gs := Compute(geometry.R(0, 0, 100, 100), nil); gs != nil {
		t.Fatalf("expected no guides, got %v", gs)
	}
	// A neighbor with no aligned coordinate also yields nil, not an empty slice.
	if gs := Compute(geometry.R(0, 0, 100, 100), []geometry.Rect{geometry.R(500, 503, 30, 30)}); gs != nil {
		t.Fatalf("expected nil for unaligned neighbor, got %v", gs)
	}
}

func TestComputeLeftEdgeMatch(t *testing.T) {
	moving := geometry.R(100, 0, 50, 50)
	other := geometry.R(100, 200, 80, 80)

	gs := Compute(moving, []geometry.Rect{other})
	if len(gs) != 1 {
		t.Fatalf("expected one guide, got %d: %v", len(gs), gs)
	}
	g := gs[0]
	if !g.Vertical() || g.X1 != 100 {
		t.Fatalf("expected vertical guide at x=100, got %+v", g)
	}
	// Extent spans both rects.
	if g.Y1 != 0 || g.Y2 != 280 {
		t.Fatalf("guide span should union both rects, got %+v", g)
	}
}

func TestComputeWithinTolerance(t *testing.T) {
	moving := geometry.R(100, 0, 50, 50)
	near := geometry.R(101, 200, 80, 80) // 1px off, inside tolerance
	far := geometry.R(102, 200, 80, 80)  // 2px off, outside

	if gs := Compute(moving, []geometry.Rect{near}); len(gs) != 1 {
		t.Fatalf("1px offset should match, got %v", gs)
	}
	if gs := Compute(moving, []geometry.Rect{far}); len(gs) != 0 {
		t.Fatalf("2px offset should not match, got %v", gs)
	}
}

func TestComputeCenterMatch(t *testing.T) {
	// Centers align horizontally: moving center y = 25, other center y = 25.
	moving := geometry.R(0, 0, 50, 50)
	other := geometry.R(200, 0, 80, 50)

	gs := Compute(moving, []geometry.Rect{other})
	var horizontal []Guide
	for _, g := range gs {
		if !g.Vertical() {
			horizontal = append(horizontal, g)
		}
	}
	found := false
	for _, g := range horizontal {
		if g.Y1 == 25 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected horizontal center guide at y=25, got %v", gs)
	}
}

func TestComputeConsolidatesPerCoordinate(t *testing.T) {
	// Two others share the moving rect's left edge; one guide, one line.
	moving := geometry.R(100, 100, 50, 50)
	others := []geometry.Rect{
		geometry.R(100, 0, 40, 40),
		geometry.R(100, 300, 40, 40),
	}
	gs := Compute(moving, others)
	vertical := 0
	for _, g := range gs {
		if g.Vertical() && g.X1 == 100 {
			vertical++
			if g.Y1 != 0 || g.Y2 != 340 {
				t.Fatalf("consolidated span wrong: %+v", g)
			}
		}
	}
	if vertical != 1 {
		t.Fatalf("expected exactly one consolidated vertical guide at x=100, got %d (%v)", vertical, gs)
	}
}

func TestComputeSymmetric(t *testing.T) {
	a := geometry.R(0, 0, 100, 100)
	b := geometry.R(0, 300, 100, 100)

	ab := Compute(a, []geometry.Rect{b})
	ba := Compute(b, []geometry.Rect{a})
	if len(ab) != len(ba) {
		t.Fatalf("guide count asymmetric: %d vs %d", len(ab), len(ba))
	}
	for i := range ab {
		if ab[i] != ba[i] {
			t.Fatalf("guides differ: %+v vs %+v", ab[i], ba[i])
		}
	}
}

func TestComputeSkipsSelf(t *testing.T) {
	r := geometry.R(50, 50, 100, 100)
	if gs := Compute(r, []geometry.Rect{r}); len(gs) != 0 {
		t.Fatalf("self-comparison must not produce guides, got %v", gs)
	}
}

func TestComputeDeterministicOrder(t *testing.T) {
	moving := geometry.R(100, 100, 50, 50)
	others := []geometry.Rect{
		geometry.R(100, 300, 50, 40),
		geometry.R(150, 300, 60, 50),
		geometry.R(0, 100, 40, 50),
	}
	first := Compute(moving, others)
	for i := 0; i < 20; i++ {
		again := Compute(moving, others)
		if len(again) != len(first) {
			t.Fatalf("nondeterministic count: %d vs %d", len(again), len(first))
		}
		for j := range again {
			if again[j] != first[j] {
				t.Fatalf("nondeterministic order at %d: %+v vs %+v", j, again[j], first[j])
			}
		}
	}
}

func TestTrackerUpdateAndClear(t *testing.T) {
	var last []Guide
	calls := 0
	tr := NewTracker(func(gs []Guide) {
		last = gs
		calls++
	})

	moving := geometry.R(100, 100, 50, 50)
	others := []geometry.Rect{geometry.R(100, 300, 50, 50)}

	tr.Update(moving, others, false)
	if len(tr.Guides()) == 0 || len(last) == 0 || calls != 1 {
		t.Fatalf("update did not publish guides (calls=%d)", calls)
	}

	tr.Clear()
	if tr.Guides() != nil || last != nil || calls != 2 {
		t.Fatalf("clear did not publish empty set (calls=%d)", calls)
	}
}

func TestTrackerGuidesReturnsCopy(t *testing.T) {
	tr := NewTracker(nil)
	tr.Update(geometry.R(0, 0, 50, 50), []geometry.Rect{geometry.R(0, 100, 50, 50)}, false)

	snap := tr.Guides()
	if len(snap) == 0 {
		t.Fatal("expected guides")
	}
	snap[0].X1 = -999
	if tr.Guides()[0].X1 == -999 {
		t.Fatal("Guides must return a copy, not the internal slice")
	}
}
