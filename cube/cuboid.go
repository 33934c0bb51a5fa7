// Package cube describes precomputed aggregates and the realizations that store them.
package cube

import (
	"math/bits"
	"strconv"
	"strings"
)

// Cuboid is one precomputed group-by combination of a cube.
// Bit i of ID selects Columns[i] of the base cuboid.
type Cuboid struct {
	ID      uint64
	Columns []string
}

func NewCuboid(id uint64, baseColumns []string) *Cuboid {
	return &Cuboid{ID: id, Columns: baseColumns}
}

// Dimensions returns names of the columns the cuboid groups by.
func (c *Cuboid) Dimensions() []string {
	dims := make([]string, 0, c.DimensionCount())
	for i, col := range c.Columns {
		if i < 64 && c.ID&(1<<uint(i)) != 0 {
			dims = append(dims, col)
		}
	}
	return dims
}

func (c *Cuboid) DimensionCount() int {
	return bits.OnesCount64(c.ID)
}

// IsBase reports whether the cuboid keeps every column of the cube.
func (c *Cuboid) IsBase() bool {
	n := len(c.Columns)
	if n >= 64 {
		return c.ID == ^uint64(0)
	}
	return c.ID == (uint64(1)<<uint(n))-1
}

// IsAncestorOf reports whether other can be computed by rolling c up.
func (c *Cuboid) IsAncestorOf(other *Cuboid) bool {
	return c.ID != other.ID && c.ID&other.ID == other.ID
}

func (c *Cuboid) String() string {
	return strconv.FormatUint(c.ID, 10) + "[" + strings.Join(c.Dimensions(), ",") + "]"
}
