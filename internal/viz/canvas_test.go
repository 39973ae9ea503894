package viz

import (
	"strings"
	"testing"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(4, 2)

	c.Set(0, 0)
	c.Set(3, 7)
	c.Set(-1, 0)
	c.Set(100, 100)

	if c.Grid[0][0] != 0x2801 {
		t.Errorf("expected dot 1 set, got %U", c.Grid[0][0])
	}
	if c.Grid[1][1] != 0x2880 {
		t.Errorf("expected dot 8 set, got %U", c.Grid[1][1])
	}
	if !c.IsSet(0, 0) || c.IsSet(1, 0) || c.IsSet(-1, 0) {
		t.Error("IsSet disagrees with Set")
	}

	c.Clear()
	if c.IsSet(0, 0) {
		t.Error("expected canvas cleared")
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(10, 5)
	c.DrawLine(0, 0, 9, 0)
	for x := 0; x <= 9; x++ {
		if !c.IsSet(x, 0) {
			t.Errorf("expected (%d, 0) set", x)
		}
	}

	c.Clear()
	c.DrawLine(5, 5, 0, 0)
	if !c.IsSet(0, 0) || !c.IsSet(5, 5) || !c.IsSet(3, 3) {
		t.Error("expected diagonal endpoints and midpoint set")
	}
}

func TestCanvasDrawArrow(t *testing.T) {
	c := NewCanvas(20, 10)
	c.DrawArrow(10, 10, 30, 10, 3)

	if !c.IsSet(30, 10) {
		t.Error("expected arrow tip set")
	}
	// barbs trail back from the tip on both sides
	if !c.IsSet(27, 8) && !c.IsSet(27, 9) {
		t.Error("expected upper barb")
	}
	if !c.IsSet(27, 12) && !c.IsSet(27, 11) {
		t.Error("expected lower barb")
	}
}

func TestCanvasString(t *testing.T) {
	c := NewCanvas(3, 2)
	lines := strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(lines))
	}
	if len([]rune(lines[0])) != 3 {
		t.Errorf("expected 3 cells per row, got %d", len([]rune(lines[0])))
	}
}
