package mapview

import (
	"github.com/UnownHash/Flyover/locations"
)

type Cell struct {
	// Polygon is the topmost polygon under the cell center, or nil.
	Polygon *PolygonLayer
	// Edge is set when a neighbouring cell is not covered by the same
	// polygon.
	Edge    bool
	Marker  *locations.Location
	Pointer bool
}

// Cells samples the map at every cell center. The result is indexed
// [row][col].
func (m *Map) Cells() [][]Cell {
	grid := make([][]Cell, m.rows)
	for row := range grid {
		grid[row] = make([]Cell, m.cols)
		for col := range grid[row] {
			grid[row][col].Polygon = m.PolygonAt(m.CellToPoint(col, row))
		}
	}

	for row := 0; row < m.rows; row++ {
		for col := 0; col < m.cols; col++ {
			polygon := grid[row][col].Polygon
			if polygon == nil {
				continue
			}
			grid[row][col].Edge = row == 0 || row == m.rows-1 || col == 0 || col == m.cols-1 ||
				grid[row-1][col].Polygon != polygon ||
				grid[row+1][col].Polygon != polygon ||
				grid[row][col-1].Polygon != polygon ||
				grid[row][col+1].Polygon != polygon
		}
	}

	for idx := range m.markers {
		col, row, ok := m.PointToCell(m.markers[idx].Point())
		if ok {
			grid[row][col].Marker = &m.markers[idx]
		}
	}

	if m.pointer != nil {
		if col, row, ok := m.PointToCell(*m.pointer); ok {
			grid[row][col].Pointer = true
		}
	}

	return grid
}
