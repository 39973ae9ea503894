package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/swingsim/internal/dynamo"
	"github.com/san-kum/swingsim/internal/sim"
)

// TrajectoryToSVG draws points as a single polyline scaled into a
// width×height viewport with 10% padding. Physical y points up, so it is
// flipped for SVG.
func TrajectoryToSVG(points []dynamo.Vec2, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	v := newViewport(points, width, height)

	var sb strings.Builder
	writeHeader(&sb, width, height)
	writePath(&sb, v, points, strokeColor)
	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesToSVG draws the seat trajectory of a run, plus the arm and seat at
// frame. The pivot is always inside the view.
func SeriesToSVG(ts *sim.TimeSeries, frame, width, height int) (string, error) {
	f, err := ts.Frame(frame)
	if err != nil {
		return "", err
	}
	if ts.Len() < 2 {
		return "", fmt.Errorf("need at least 2 samples, got %d", ts.Len())
	}

	pivot := dynamo.Vec2{}
	v := newViewport(append([]dynamo.Vec2{pivot}, ts.Positions...), width, height)

	var sb strings.Builder
	writeHeader(&sb, width, height)
	writePath(&sb, v, ts.Positions, "#3a7bd5")

	px, py := v.project(pivot)
	sx, sy := v.project(f.Position)
	sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#cccccc" stroke-width="2"/>
`, px, py, sx, sy))
	sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3" fill="#cccccc"/>
`, px, py))
	sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="6" fill="#ff6b6b"/>
`, sx, sy))
	sb.WriteString(fmt.Sprintf(`<text x="8" y="16" fill="#cccccc" font-family="monospace" font-size="12">t=%.2fs angle=%.3frad</text>
`, f.Time, f.Angle))
	sb.WriteString("</svg>")
	return sb.String(), nil
}

type viewport struct {
	minX, minY     float64
	rangeX, rangeY float64
	width, height  float64
}

func newViewport(points []dynamo.Vec2, width, height int) viewport {
	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1

	return viewport{
		minX: minX, minY: minY,
		rangeX: maxX - minX, rangeY: maxY - minY,
		width: float64(width), height: float64(height),
	}
}

func (v viewport) project(p dynamo.Vec2) (float64, float64) {
	x := (p.X - v.minX) / v.rangeX * v.width
	y := v.height - (p.Y-v.minY)/v.rangeY*v.height
	return x, y
}

func writeHeader(sb *strings.Builder, width, height int) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))
}

func writePath(sb *strings.Builder, v viewport, points []dynamo.Vec2, strokeColor string) {
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor))
	for i, p := range points {
		x, y := v.project(p)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
	sb.WriteString("\"/>\n")
}
