// Package spatial provides broad-phase structures for contact detection and
// probes on the arena floor plane (X/Z).
//
// Structures store integer ids (not pointers) in preallocated slices.
package spatial

import "math"

// Box is an axis-aligned rectangle on the X/Z plane.
type Box struct {
	MinX, MinZ, MaxX, MaxZ float64
}

// Overlaps reports whether two boxes intersect (touching counts).
func (b Box) Overlaps(o Box) bool {
	return b.MinX <= o.MaxX && o.MinX <= b.MaxX && b.MinZ <= o.MaxZ && o.MinZ <= b.MaxZ
}

// Grid buckets boxes into fixed-size cells over a bounded region.
// A box is stored in every cell it covers; queries deduplicate.
//
// Memory layout: cells are stored in row-major order (cells[row*cols+col])
type Grid struct {
	originX, originZ float64
	cellSize         float64
	invCellSize      float64
	cols, rows       int
	cells            [][]uint32
	scratch          []uint32
	seen             map[uint32]struct{}
}

// NewGrid creates a grid covering bounds with square cells of cellSize.
func NewGrid(bounds Box, cellSize float64) *Grid {
	if cellSize <= 0 {
		cellSize = 1
	}
	cols := int(math.Ceil((bounds.MaxX - bounds.MinX) / cellSize))
	rows := int(math.Ceil((bounds.MaxZ - bounds.MinZ) / cellSize))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	cells := make([][]uint32, cols*rows)
	for i := range cells {
		cells[i] = make([]uint32, 0, 4)
	}
	return &Grid{
		originX:     bounds.MinX,
		originZ:     bounds.MinZ,
		cellSize:    cellSize,
		invCellSize: 1 / cellSize,
		cols:        cols,
		rows:        rows,
		cells:       cells,
		scratch:     make([]uint32, 0, 64),
		seen:        make(map[uint32]struct{}),
	}
}

// Clear resets all cells without deallocating underlying memory.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// span converts a box to the clamped cell range it covers.
func (g *Grid) span(b Box) (minCol, minRow, maxCol, maxRow int) {
	clamp := func(v, hi int) int {
		if v < 0 {
			return 0
		}
		if v > hi {
			return hi
		}
		return v
	}
	minCol = clamp(int(math.Floor((b.MinX-g.originX)*g.invCellSize)), g.cols-1)
	maxCol = clamp(int(math.Floor((b.MaxX-g.originX)*g.invCellSize)), g.cols-1)
	minRow = clamp(int(math.Floor((b.MinZ-g.originZ)*g.invCellSize)), g.rows-1)
	maxRow = clamp(int(math.Floor((b.MaxZ-g.originZ)*g.invCellSize)), g.rows-1)
	return
}

// Insert stores id in every cell b covers. Out-of-bounds boxes land in the
// edge cells.
func (g *Grid) Insert(id uint32, b Box) {
	minCol, minRow, maxCol, maxRow := g.span(b)
	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			idx := row*g.cols + col
			g.cells[idx] = append(g.cells[idx], id)
		}
	}
}

// Query returns the ids stored in cells overlapping b, each once.
// The candidates may lie outside b; callers run the narrow phase.
//
// IMPORTANT: The returned slice is reused on subsequent calls.
func (g *Grid) Query(b Box) []uint32 {
	g.scratch = g.scratch[:0]
	for k := range g.seen {
		delete(g.seen, k)
	}
	minCol, minRow, maxCol, maxRow := g.span(b)
	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			for _, id := range g.cells[row*g.cols+col] {
				if _, dup := g.seen[id]; dup {
					continue
				}
				g.seen[id] = struct{}{}
				g.scratch = append(g.scratch, id)
			}
		}
	}
	return g.scratch
}

// QueryRadius returns candidates within radius of (x, z).
func (g *Grid) QueryRadius(x, z, radius float64) []uint32 {
	return g.Query(Box{x - radius, z - radius, x + radius, z + radius})
}

// Stats returns grid statistics for debugging/profiling.
func (g *Grid) Stats() GridStats {
	var total, maxInCell, nonEmpty int
	for _, cell := range g.cells {
		n := len(cell)
		total += n
		if n > maxInCell {
			maxInCell = n
		}
		if n > 0 {
			nonEmpty++
		}
	}
	avg := 0.0
	if nonEmpty > 0 {
		avg = float64(total) / float64(nonEmpty)
	}
	return GridStats{
		TotalCells:     len(g.cells),
		NonEmptyCells:  nonEmpty,
		TotalEntries:   total,
		MaxInCell:      maxInCell,
		AvgPerNonEmpty: avg,
	}
}

// GridStats contains grid statistics for debugging.
type GridStats struct {
	TotalCells     int
	NonEmptyCells  int
	TotalEntries   int
	MaxInCell      int
	AvgPerNonEmpty float64
}

// Dimensions returns the grid dimensions.
func (g *Grid) Dimensions() (cols, rows int, cellSize float64) {
	return g.cols, g.rows, g.cellSize
}
