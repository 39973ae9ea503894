package analysis

import (
	"strings"

	"github.com/san-kum/swingsim/internal/dynamo"
	"github.com/san-kum/swingsim/internal/sim"
)

// PhasePoints pairs each angle with its angular velocity.
func PhasePoints(ts *sim.TimeSeries) []dynamo.Vec2 {
	if ts == nil {
		return nil
	}
	pts := make([]dynamo.Vec2, ts.Len())
	for i := range pts {
		pts[i] = dynamo.Vec2{X: ts.Angles[i], Y: ts.Velocities[i]}
	}
	return pts
}

// PhasePortraitToASCII plots points on a width×height character grid with
// 10% padding around the data. Early, middle and late thirds of the series
// use '.', 'o' and '●'.
func PhasePortraitToASCII(points []dynamo.Vec2, width, height int) string {
	if len(points) == 0 || width < 2 || height < 2 {
		return ""
	}

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
	rangeX = maxX - minX
	rangeY = maxY - minY

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}

	toCell := func(x, y float64) (int, int) {
		col := int((x - minX) / rangeX * float64(width-1))
		row := height - 1 - int((y-minY)/rangeY*float64(height-1))
		return row, col
	}

	// axes first so trajectory marks overwrite them
	if minX <= 0 && maxX >= 0 {
		_, col := toCell(0, minY)
		for row := range grid {
			grid[row][col] = '│'
		}
	}
	if minY <= 0 && maxY >= 0 {
		row, _ := toCell(minX, 0)
		for col := range grid[row] {
			if grid[row][col] == '│' {
				grid[row][col] = '┼'
			} else {
				grid[row][col] = '─'
			}
		}
	}

	for i, p := range points {
		row, col := toCell(p.X, p.Y)
		if row < 0 || row >= height || col < 0 || col >= width {
			continue
		}
		switch {
		case i < len(points)/3:
			grid[row][col] = '.'
		case i < 2*len(points)/3:
			grid[row][col] = 'o'
		default:
			grid[row][col] = '●'
		}
	}

	var sb strings.Builder
	for _, row := range grid {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
