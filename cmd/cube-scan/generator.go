package main

import (
	"fmt"
	"strings"

	"github.com/valyala/fastrand"

	"github.com/ozontech/cube-storage/cube"
	"github.com/ozontech/cube-storage/segment"
)

const segmentSpan = 1_000_000

var (
	baseColumns    = []string{"country", "city", "device", "channel", "campaign"}
	baseColumnsStr = "[" + strings.Join(baseColumns, ",") + "]"
)

// generateSegments builds n segments of the cuboid, one per shard.
// Segment i holds timestamps from [i*segmentSpan, (i+1)*segmentSpan).
func generateSegments(cuboid *cube.Cuboid, n, rows int, cardinality, seed uint32, cfg segment.Conf) []*segment.Segment {
	dims := cuboid.Dimensions()
	segs := make([]*segment.Segment, 0, n)

	for i := 0; i < n; i++ {
		var rng fastrand.RNG
		rng.Seed(seed + uint32(i))

		b := segment.NewBuilder(fmt.Sprintf("%s-shard-%d", cuboid, i), i, cuboid.ID, cfg)
		ts := int64(i) * segmentSpan
		step := max(segmentSpan/int64(max(rows, 1)), 1)
		for j := 0; j < rows; j++ {
			row := segment.Row{
				Timestamp: ts,
				Dims:      make([]string, len(dims)),
				Metrics:   []int64{1, int64(rng.Uint32n(1000))},
			}
			for k, d := range dims {
				row.Dims[k] = fmt.Sprintf("%s-%d", d, rng.Uint32n(cardinality))
			}
			b.Append(row)
			ts += step
		}
		segs = append(segs, b.Build())
	}
	return segs
}
