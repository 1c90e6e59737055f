// Package systems provides ECS systems for the simulation.
package systems

import (
	"slices"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ooze/components"
)

// Overlap holds an entity found by a box query with its bounding box at query time.
type Overlap struct {
	E   ecs.Entity
	Box Box
}

// SpatialQuery returns the live entities whose boxes overlap a volume.
// Results are appended to dst in a stable order and reflect world state at call time.
type SpatialQuery interface {
	OverlappingInto(dst []Overlap, box Box, exclude ecs.Entity) []Overlap
}

// Refitter is implemented by spatial indexes that must learn about an entity
// whose extents changed since it was inserted.
type Refitter interface {
	Refit(e ecs.Entity)
}

// SpatialGrid buckets entities by the X/Z cell of their position.
// Queries read current position and body from the world, so results stay exact
// while entities resize between rebuilds.
type SpatialGrid struct {
	cellSize float64
	cols     int
	rows     int
	reach    float64 // largest half-width of any tracked entity
	cells    [][]ecs.Entity

	filter  *ecs.Filter3[components.Position, components.Body, components.Life]
	posMap  *ecs.Map[components.Position]
	bodyMap *ecs.Map[components.Body]
	lifeMap *ecs.Map[components.Life]
}

// NewSpatialGrid creates a spatial grid covering a width x depth world.
func NewSpatialGrid(w *ecs.World, width, depth, cellSize float64) *SpatialGrid {
	cols := int(width/cellSize) + 1
	rows := int(depth/cellSize) + 1

	cells := make([][]ecs.Entity, cols*rows)
	for i := range cells {
		cells[i] = make([]ecs.Entity, 0, 4)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		cells:    cells,
		filter:   ecs.NewFilter3[components.Position, components.Body, components.Life](w),
		posMap:   ecs.NewMap[components.Position](w),
		bodyMap:  ecs.NewMap[components.Body](w),
		lifeMap:  ecs.NewMap[components.Life](w),
	}
}

// Clear removes all entities from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
	g.reach = 0
}

// Rebuild clears the grid and inserts every live entity.
func (g *SpatialGrid) Rebuild() {
	g.Clear()
	query := g.filter.Query()
	for query.Next() {
		pos, body, life := query.Get()
		if life.Removed {
			continue
		}
		g.insert(query.Entity(), pos, body)
	}
}

// Insert adds an entity to the grid at its current position.
func (g *SpatialGrid) Insert(e ecs.Entity) {
	g.insert(e, g.posMap.Get(e), g.bodyMap.Get(e))
}

func (g *SpatialGrid) insert(e ecs.Entity, pos *components.Position, body *components.Body) {
	idx := g.cellIndex(pos.X, pos.Z)
	g.cells[idx] = append(g.cells[idx], e)
	if hw := body.Width / 2; hw > g.reach {
		g.reach = hw
	}
}

// Refit widens the query reach after an entity grew.
func (g *SpatialGrid) Refit(e ecs.Entity) {
	if !g.bodyMap.Has(e) {
		return
	}
	if hw := g.bodyMap.Get(e).Width / 2; hw > g.reach {
		g.reach = hw
	}
}

// OverlappingInto appends every live entity whose box overlaps box, except exclude.
// Results are ordered by entity ID. Reuse dst across calls to avoid allocations.
func (g *SpatialGrid) OverlappingInto(dst []Overlap, box Box, exclude ecs.Entity) []Overlap {
	start := len(dst)

	minCol := g.clampCol(int((box.Min[0] - g.reach) / g.cellSize))
	maxCol := g.clampCol(int((box.Max[0] + g.reach) / g.cellSize))
	minRow := g.clampRow(int((box.Min[2] - g.reach) / g.cellSize))
	maxRow := g.clampRow(int((box.Max[2] + g.reach) / g.cellSize))

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			for _, e := range g.cells[row*g.cols+col] {
				if e == exclude || g.lifeMap.Get(e).Removed {
					continue
				}
				other := BoxOf(*g.posMap.Get(e), *g.bodyMap.Get(e))
				if box.Intersects(other) {
					dst = append(dst, Overlap{E: e, Box: other})
				}
			}
		}
	}

	found := dst[start:]
	slices.SortFunc(found, func(a, b Overlap) int {
		return int(a.E.ID()) - int(b.E.ID())
	})
	return dst
}

// cellIndex returns the flat index for a world position.
func (g *SpatialGrid) cellIndex(x, z float64) int {
	col := g.clampCol(int(x / g.cellSize))
	row := g.clampRow(int(z / g.cellSize))
	return row*g.cols + col
}

func (g *SpatialGrid) clampCol(c int) int {
	if c < 0 {
		return 0
	}
	if c >= g.cols {
		return g.cols - 1
	}
	return c
}

func (g *SpatialGrid) clampRow(r int) int {
	if r < 0 {
		return 0
	}
	if r >= g.rows {
		return g.rows - 1
	}
	return r
}
