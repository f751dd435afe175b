package loop

import (
	"math"
	"sort"

	"github.com/marcward/glidetrack/geo"
	"github.com/marcward/glidetrack/track"
)

// cellSizeMeters is the spatial index bucket size. All proximity thresholds
// used by the tracker are smaller than one cell, so a 3x3 block around the
// query point covers every relevant neighbor.
const cellSizeMeters = 50.0

type cellKey struct {
	x, y int32
}

// spatialIndex buckets sequence indices of a growing fix list into a uniform
// grid over planar meters. It stores indices, not fixes; the tracker owns
// the point list.
type spatialIndex struct {
	cells map[cellKey][]int
}

func newSpatialIndex() *spatialIndex {
	return &spatialIndex{cells: make(map[cellKey][]int)}
}

func keyFor(f track.Fix) cellKey {
	x, y := geo.PlanarMeters(f.Latitude, f.Longitude)
	return cellKey{
		x: int32(math.Floor(x / cellSizeMeters)),
		y: int32(math.Floor(y / cellSizeMeters)),
	}
}

func (g *spatialIndex) insert(f track.Fix, seq int) {
	k := keyFor(f)
	g.cells[k] = append(g.cells[k], seq)
}

// nearby returns the sequence indices stored in the query point's cell and
// its 8 neighbors, in ascending order. This is an approximate fixed-radius
// query: a point slightly outside the 3x3 block is missed, which is
// acceptable because callers re-check exact distances and their thresholds
// never exceed the cell size.
func (g *spatialIndex) nearby(f track.Fix) []int {
	center := keyFor(f)
	var out []int
	for dx := int32(-1); dx <= 1; dx++ {
		for dy := int32(-1); dy <= 1; dy++ {
			out = append(out, g.cells[cellKey{center.x + dx, center.y + dy}]...)
		}
	}
	sort.Ints(out)
	return out
}
