package infill

import "testing"

func TestGenerateZeroDensityIsEmpty(t *testing.T) {
	rect := Rect{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}
	if got := Generate(Lines, rect, 0, 0.4, 0); got != nil {
		t.Fatalf("expected nil for zero density, got %d paths", len(got))
	}
}

func TestGenerateHighDensityForcesLines(t *testing.T) {
	rect := Rect{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}
	grid := Generate(Grid, rect, 0, 0.4, 0.5)
	forced := Generate(Grid, rect, 0, 0.4, 0.995)
	lines := Generate(Lines, rect, 0, 0.4, 0.995)
	if len(grid) == len(forced) {
		t.Fatalf("expected high density to change line count vs normal grid density")
	}
	if len(forced) != len(lines) {
		t.Fatalf("expected forced-lines output to match Lines pattern at same density: %d vs %d", len(forced), len(lines))
	}
}

func TestGenerateLinesCoversRect(t *testing.T) {
	rect := Rect{MinX: 0, MinY: 0, MaxX: 20, MaxY: 20}
	paths := Generate(Lines, rect, 0, 0.4, 1.0)
	if len(paths) == 0 {
		t.Fatalf("expected at least one infill line")
	}
	for _, p := range paths {
		if len(p) != 2 {
			t.Fatalf("expected straight-line pattern to emit 2-point segments, got %d points", len(p))
		}
	}
}

func TestGenerateHexagonsProducesMultiPointColumns(t *testing.T) {
	rect := Rect{MinX: 0, MinY: 0, MaxX: 20, MaxY: 20}
	paths := Generate(Hexagons, rect, 0, 0.4, 0.3)
	if len(paths) == 0 {
		t.Fatalf("expected hexagon columns")
	}
	for _, p := range paths {
		if len(p) < 4 {
			t.Fatalf("expected each hexagon column to have multiple zigzag points, got %d", len(p))
		}
	}
}
