package verlet

import (
	"fmt"
	"math"
	"sync"

	"github.com/akmonengine/verlet/actor"
	"github.com/akmonengine/verlet/vmath"
	"github.com/go-gl/mathgl/mgl64"
)

// ============================================================================
// Types
// ============================================================================

// CellKey is the integer coordinate of a cell, relative to the grid origin
type CellKey struct {
	X, Y, Z int
}

// Cell holds the indices of the bodies overlapping it this tick
type Cell struct {
	bodyIndices []int
}

// Pair is a candidate collision. L is always an active (dynamic) body.
type Pair struct {
	L int
	R int
}

const initialCellCapacity = 8

// maxGridCells bounds the allocation made by NewSpatialGrid
const maxGridCells = 1 << 24

// SpatialGrid is a fixed 3D array of cell buckets anchored at origin.
// Bodies are deposited in every cell their box overlaps.
type SpatialGrid struct {
	gridSize [3]int
	cellSize [3]int
	origin   mgl64.Vec3
	cells    []Cell
}

// ============================================================================
// Constructor
// ============================================================================

// NewSpatialGrid allocates gridSize[0]*gridSize[1]*gridSize[2] cells of
// cellSize world units each, the minimum corner being at origin.
func NewSpatialGrid(gridSize, cellSize [3]int, origin mgl64.Vec3) (*SpatialGrid, error) {
	numCells := 1
	for i := 0; i < 3; i++ {
		if gridSize[i] <= 0 {
			return nil, fmt.Errorf("%w: grid size %v must be positive on every axis", ErrInvalidConfig, gridSize)
		}
		if cellSize[i] <= 0 {
			return nil, fmt.Errorf("%w: cell size %v must be positive on every axis", ErrInvalidConfig, cellSize)
		}
		if numCells > maxGridCells/gridSize[i] {
			return nil, fmt.Errorf("%w: grid size %v exceeds %d cells", ErrInvalidConfig, gridSize, maxGridCells)
		}
		numCells *= gridSize[i]
	}
	if !vmath.IsFinite(origin) {
		return nil, fmt.Errorf("%w: grid origin %v is not finite", ErrInvalidConfig, origin)
	}

	cells := make([]Cell, numCells)
	for i := range cells {
		cells[i].bodyIndices = make([]int, 0, initialCellCapacity)
	}

	return &SpatialGrid{
		gridSize: gridSize,
		cellSize: cellSize,
		origin:   origin,
		cells:    cells,
	}, nil
}

func (sg *SpatialGrid) GridSize() [3]int {
	return sg.gridSize
}

func (sg *SpatialGrid) CellSize() [3]int {
	return sg.cellSize
}

func (sg *SpatialGrid) Origin() mgl64.Vec3 {
	return sg.origin
}

// Extents returns the world-space box covered by the grid
func (sg *SpatialGrid) Extents() actor.AABB {
	var size mgl64.Vec3
	for i := 0; i < 3; i++ {
		size[i] = float64(sg.gridSize[i]) * float64(sg.cellSize[i])
	}
	return actor.AABB{Min: sg.origin, Max: sg.origin.Add(size)}
}

// Contains reports whether a world position lies in the grid. The maximum
// faces are excluded.
func (sg *SpatialGrid) Contains(position mgl64.Vec3) bool {
	key := sg.worldToCell(position)
	return key.X >= 0 && key.X < sg.gridSize[0] &&
		key.Y >= 0 && key.Y < sg.gridSize[1] &&
		key.Z >= 0 && key.Z < sg.gridSize[2]
}

// ClampInside returns the closest position to position that Contains
// accepts. The upper bound is stepped down until it maps to the last cell,
// as origin+size rounds back onto the excluded maximum face.
func (sg *SpatialGrid) ClampInside(position mgl64.Vec3) mgl64.Vec3 {
	extents := sg.Extents()
	clamped := vmath.ClampVec(position, extents.Min, extents.Max)
	for i := 0; i < 3; i++ {
		for vmath.CellOf(clamped[i]-sg.origin[i], sg.cellSize[i]) >= sg.gridSize[i] {
			clamped[i] = math.Nextafter(clamped[i], math.Inf(-1))
		}
	}
	return clamped
}

// Insert deposits a body in every cell its box overlaps, clamped to the grid
func (sg *SpatialGrid) Insert(bodyIndex int, aabb actor.CenteredAABB) {
	minCell := sg.clampCell(sg.worldToCell(aabb.Position.Sub(aabb.HalfSize)))
	maxCell := sg.clampCell(sg.worldToCell(aabb.Position.Add(aabb.HalfSize)))

	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			for z := minCell.Z; z <= maxCell.Z; z++ {
				cellIdx := sg.cellIndex(CellKey{x, y, z})

				sg.cells[cellIdx].bodyIndices = append(
					sg.cells[cellIdx].bodyIndices,
					bodyIndex,
				)
			}
		}
	}
}

// Clear empties every bucket. A bucket using at most half of its capacity
// is shrunk by half, down to its initial capacity.
func (sg *SpatialGrid) Clear() {
	for i := range sg.cells {
		indices := sg.cells[i].bodyIndices
		if c := cap(indices); c > initialCellCapacity && len(indices) <= c/2 {
			sg.cells[i].bodyIndices = make([]int, 0, max(c/2, initialCellCapacity))
			continue
		}
		sg.cells[i].bodyIndices = indices[:0]
	}
}

// Cell returns the body indices deposited in a cell, nil outside the grid
func (sg *SpatialGrid) Cell(key CellKey) []int {
	if key != sg.clampCell(key) {
		return nil
	}
	return sg.cells[sg.cellIndex(key)].bodyIndices
}

// FindPairs - sequential version
func (sg *SpatialGrid) FindPairs(bodies []actor.Body) []Pair {
	pairs := make([]Pair, 0, len(bodies)/2)
	for i := range sg.cells {
		pairs = appendCellPairs(pairs, sg.cells[i].bodyIndices, bodies)
	}
	return pairs
}

// FindPairsParallel splits the cells across workers and streams every
// overlapping pair. A pair spanning several cells is emitted once per cell.
func (sg *SpatialGrid) FindPairsParallel(bodies []actor.Body, numWorkers int) <-chan Pair {
	var wg sync.WaitGroup
	pairsChan := make(chan Pair, numWorkers*10)

	cellsPerWorker := (len(sg.cells) + numWorkers - 1) / numWorkers

	for w := 0; w < numWorkers; w++ {
		startIdx := w * cellsPerWorker
		endIdx := min(startIdx+cellsPerWorker, len(sg.cells))
		if startIdx >= endIdx {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()

			pairs := make([]Pair, 0, 16)
			for c := start; c < end; c++ {
				pairs = appendCellPairs(pairs[:0], sg.cells[c].bodyIndices, bodies)
				for _, pair := range pairs {
					pairsChan <- pair
				}
			}
		}(startIdx, endIdx)
	}

	go func() {
		wg.Wait()
		close(pairsChan)
	}()

	return pairsChan
}

// appendCellPairs tests every ordered pair of a bucket. Only active bodies
// lead a pair, and two active bodies are paired once with L < R.
func appendCellPairs(pairs []Pair, indices []int, bodies []actor.Body) []Pair {
	if len(indices) < 2 {
		return pairs
	}

	for _, l := range indices {
		bodyL := &bodies[l]
		if !bodyL.IsActive() {
			continue
		}

		for _, r := range indices {
			if r == l {
				continue
			}
			bodyR := &bodies[r]
			if bodyR.IsNone() || (bodyR.IsActive() && r < l) {
				continue
			}

			if bodyL.Detect(bodyR) {
				pairs = append(pairs, Pair{L: l, R: r})
			}
		}
	}

	return pairs
}

// worldToCell converts a world position to unclamped cell coordinates
func (sg *SpatialGrid) worldToCell(pos mgl64.Vec3) CellKey {
	local := pos.Sub(sg.origin)
	return CellKey{
		X: vmath.CellOf(local.X(), sg.cellSize[0]),
		Y: vmath.CellOf(local.Y(), sg.cellSize[1]),
		Z: vmath.CellOf(local.Z(), sg.cellSize[2]),
	}
}

func (sg *SpatialGrid) clampCell(key CellKey) CellKey {
	return CellKey{
		X: vmath.Clamp(key.X, 0, sg.gridSize[0]-1),
		Y: vmath.Clamp(key.Y, 0, sg.gridSize[1]-1),
		Z: vmath.Clamp(key.Z, 0, sg.gridSize[2]-1),
	}
}

// cellIndex flattens an in-grid key into the cells slice
func (sg *SpatialGrid) cellIndex(key CellKey) int {
	return vmath.PositionToIndex3D(key.X, key.Y, key.Z, sg.gridSize)
}
