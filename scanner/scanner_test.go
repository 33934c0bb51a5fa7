package scanner

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ozontech/cube-storage/consts"
	"github.com/ozontech/cube-storage/cube"
	"github.com/ozontech/cube-storage/segment"
	"github.com/ozontech/cube-storage/storage"
)

var (
	testColumns = []string{"country", "device"}
	testCuboid  = cube.NewCuboid(0b11, testColumns)
	sharded     = cube.NewInstance("sharded", cube.StorageTypeSharded)
	legacy      = cube.NewInstance("legacy", cube.StorageTypeLegacy)
)

// makeSegments returns n segments of testCuboid; segment i covers timestamps [i*1000, i*1000+rowsPerSegment).
func makeSegments(n, rowsPerSegment int) []*segment.Segment {
	segs := make([]*segment.Segment, 0, n)
	for i := 0; i < n; i++ {
		b := segment.NewBuilder(fmt.Sprintf("seg-%d", i), i, testCuboid.ID, segment.Conf{BlockSize: 256, Codec: segment.CodecLZ4})
		for j := 0; j < rowsPerSegment; j++ {
			b.Append(segment.Row{
				Timestamp: int64(i*1000 + j),
				Dims:      []string{fmt.Sprintf("c%d", j%4), fmt.Sprintf("d%d", j%2)},
				Metrics:   []int64{1, int64(j)},
			})
		}
		segs = append(segs, b.Build())
	}
	return segs
}

func newContext(threshold int) *storage.Context {
	sctx := storage.NewContext(threshold, storage.WithLogger(zap.NewNop()))
	sctx.SetCuboid(testCuboid)
	return sctx
}

func newScanner(workers int) *Scanner {
	return New(workers, Conf{Logger: zap.NewNop()})
}

func TestScanAll(t *testing.T) {
	r := require.New(t)
	segs := makeSegments(4, 100)
	sctx := newContext(consts.DefaultScanThreshold)

	res, err := newScanner(2).Scan(context.Background(), sctx, segs)
	r.NoError(err)

	r.Len(res.Rows, 400)
	r.False(res.Partial)
	r.Equal(uint64(400), res.ScannedRows)
	r.Equal(uint64(400), sctx.TotalScanCount())
	r.Equal(4, res.ScannedSegments)
	r.Zero(res.ReusedSegments)
	r.False(sctx.PartialResultReturned())
}

func TestScanSkipsOtherCuboids(t *testing.T) {
	segs := makeSegments(2, 10)
	other := segment.NewBuilder("other", 0, 0b01, segment.Conf{})
	other.Append(segment.Row{Timestamp: 1, Dims: []string{"x"}})
	segs = append(segs, other.Build())

	res, err := newScanner(4).Scan(context.Background(), newContext(1000), segs)
	require.NoError(t, err)
	assert.Len(t, res.Rows, 20)
	assert.Equal(t, 2, res.ScannedSegments)
}

func TestScanLimitPushDown(t *testing.T) {
	r := require.New(t)
	segs := makeSegments(4, 100)

	sctx := newContext(consts.DefaultScanThreshold)
	sctx.SetOffset(2)
	sctx.SetLimit(5)
	r.True(sctx.ComputePushDownLimit(sharded))
	r.Equal(7, sctx.FinalPushDownLimit())

	res, err := newScanner(4).Scan(context.Background(), sctx, segs)
	r.NoError(err)

	r.Len(res.Rows, 5)
	// every segment stops after offset+limit rows
	r.Equal(uint64(4*7), res.ScannedRows)
}

func TestScanLimitWithoutPushDown(t *testing.T) {
	r := require.New(t)
	segs := makeSegments(4, 100)

	sctx := newContext(consts.DefaultScanThreshold)
	sctx.SetOffset(2)
	sctx.SetLimit(5)
	r.False(sctx.ComputePushDownLimit(legacy))

	res, err := newScanner(4).Scan(context.Background(), sctx, segs)
	r.NoError(err)

	r.Len(res.Rows, 5)
	r.Equal(uint64(400), res.ScannedRows)
}

func TestScanSortDisablesPushDown(t *testing.T) {
	r := require.New(t)
	segs := makeSegments(3, 50)

	sctx := newContext(consts.DefaultScanThreshold)
	sctx.SetLimit(3)
	sctx.MarkSort()
	r.True(sctx.ComputePushDownLimit(sharded))

	res, err := newScanner(3).Scan(context.Background(), sctx, segs)
	r.NoError(err)

	r.Equal(uint64(150), res.ScannedRows)
	r.Len(res.Rows, 3)
	for _, row := range res.Rows {
		r.Equal([]string{"c0", "d0"}, row.Dims)
	}
	r.Equal(int64(0), res.Rows[0].Timestamp)
	r.Equal(int64(4), res.Rows[1].Timestamp)
	r.Equal(int64(8), res.Rows[2].Timestamp)
}

func TestScanThresholdExceededFails(t *testing.T) {
	r := require.New(t)
	segs := makeSegments(4, 100)

	sctx := newContext(150)

	res, err := newScanner(4).Scan(context.Background(), sctx, segs)
	r.Nil(res)
	r.ErrorIs(err, consts.ErrScanThresholdExceeded)
	r.False(sctx.PartialResultReturned())
	r.Greater(sctx.TotalScanCount(), uint64(150))
}

func TestScanThresholdExceededPartial(t *testing.T) {
	r := require.New(t)
	segs := makeSegments(4, 100)

	sctx := newContext(150)
	sctx.SetAcceptPartialResult(true)

	res, err := newScanner(1).Scan(context.Background(), sctx, segs)
	r.NoError(err)
	r.True(res.Partial)
	r.True(sctx.PartialResultReturned())
	r.Less(len(res.Rows), 400)
	r.Greater(res.ScannedRows, uint64(150))
}

func TestScanPartialResultNeverWithoutAcceptance(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	segs := makeSegments(8, 64)

	for i := 0; i < 200; i++ {
		sctx := newContext(rnd.Intn(600) + 1)
		sctx.SetAcceptPartialResult(rnd.Intn(2) == 0)
		if rnd.Intn(2) == 0 {
			sctx.SetLimit(rnd.Intn(50))
			sctx.ComputePushDownLimit(sharded)
		}

		res, err := newScanner(rnd.Intn(8)+1).Scan(context.Background(), sctx, segs)

		if sctx.PartialResultReturned() {
			require.True(t, sctx.AcceptPartialResult())
		}
		if err != nil {
			require.ErrorIs(t, err, consts.ErrScanThresholdExceeded)
			require.False(t, sctx.AcceptPartialResult())
			continue
		}
		require.Equal(t, res.Partial, sctx.PartialResultReturned())
	}
}

func TestScanAggregation(t *testing.T) {
	for _, coprocessor := range []bool{false, true} {
		t.Run(fmt.Sprintf("coprocessor=%v", coprocessor), func(t *testing.T) {
			r := require.New(t)
			segs := makeSegments(3, 40)

			sctx := newContext(consts.DefaultScanThreshold)
			sctx.SetNeedStorageAggregation(true)
			sctx.MarkSort()
			if coprocessor {
				sctx.EnableCoprocessor()
			}

			res, err := newScanner(2).Scan(context.Background(), sctx, segs)
			r.NoError(err)

			// j%4 and j%2 give 4 distinct groups
			r.Len(res.Rows, 4)
			r.Equal([]string{"c0", "d0"}, res.Rows[0].Dims)
			r.Equal(int64(0), res.Rows[0].Timestamp)

			var count int64
			for _, row := range res.Rows {
				count += row.Metrics[0]
			}
			r.Equal(int64(120), count)
		})
	}
}

func TestScanAggregationGroupsSpreadOverSegments(t *testing.T) {
	build := func(name string, shard int, groups ...string) *segment.Segment {
		b := segment.NewBuilder(name, shard, testCuboid.ID, segment.Conf{Codec: segment.CodecNo})
		for i, g := range groups {
			b.Append(segment.Row{Timestamp: int64(shard*10 + i), Dims: []string{g, "x"}, Metrics: []int64{1}})
		}
		return b.Build()
	}

	for _, exact := range []bool{false, true} {
		t.Run(fmt.Sprintf("exact=%v", exact), func(t *testing.T) {
			r := require.New(t)
			segs := []*segment.Segment{
				build("a", 0, "g1", "g2"),
				build("b", 1, "g2", "g1"),
			}

			sctx := newContext(consts.DefaultScanThreshold)
			sctx.SetNeedStorageAggregation(true)
			sctx.SetExactAggregation(exact)
			sctx.SetLimit(1)
			r.True(sctx.ComputePushDownLimit(sharded))
			r.Equal(storage.Unbounded, effectivePushDownLimit(sctx))

			res, err := newScanner(2).Scan(context.Background(), sctx, segs)
			r.NoError(err)
			r.False(res.Partial)
			r.Equal(uint64(4), res.ScannedRows)
			r.Len(res.Rows, 1)
			r.Equal(int64(2), res.Rows[0].Metrics[0])
		})
	}
}

func TestScanReusedPeriod(t *testing.T) {
	segs := makeSegments(4, 100)

	sctx := newContext(consts.DefaultScanThreshold)
	sctx.SetReusedPeriod(storage.ClosedOpen(0, 2000))

	res, err := newScanner(2).Scan(context.Background(), sctx, segs)
	require.NoError(t, err)
	assert.Equal(t, 2, res.ReusedSegments)
	assert.Equal(t, 2, res.ScannedSegments)
	assert.Len(t, res.Rows, 200)
	for _, row := range res.Rows {
		assert.GreaterOrEqual(t, row.Timestamp, int64(2000))
	}
}

func TestScanCorruptedSegment(t *testing.T) {
	segs := makeSegments(3, 100)
	segs[1].Blocks()[0].Data = nil

	_, err := newScanner(3).Scan(context.Background(), newContext(consts.DefaultScanThreshold), segs)
	require.ErrorIs(t, err, consts.ErrCorruptedBlock)
}

func TestScanCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newScanner(1).Scan(ctx, newContext(consts.DefaultScanThreshold), makeSegments(2, 10))
	require.True(t, errors.Is(err, context.Canceled))
}

func TestWindow(t *testing.T) {
	rows := make([]segment.Row, 10)
	for i := range rows {
		rows[i].Timestamp = int64(i)
	}

	tests := []struct {
		offset, limit int
		from, to      int
	}{
		{0, storage.Unbounded, 0, 10},
		{3, storage.Unbounded, 3, 10},
		{3, 4, 3, 7},
		{8, 4, 8, 10},
		{10, 1, 10, 10},
		{20, 1, 10, 10},
		{0, 0, 0, 0},
	}
	for _, tc := range tests {
		got := window(rows, tc.offset, tc.limit)
		assert.Equal(t, rows[tc.from:tc.to], got, "offset=%d limit=%d", tc.offset, tc.limit)
	}
}

func TestEffectivePushDownLimit(t *testing.T) {
	sctx := newContext(1000)
	assert.Equal(t, storage.Unbounded, effectivePushDownLimit(sctx))

	sctx.SetOffset(5)
	sctx.SetLimit(10)
	sctx.ComputePushDownLimit(sharded)
	assert.Equal(t, 15, effectivePushDownLimit(sctx))

	negative := newContext(1000)
	negative.SetLimit(-20)
	negative.ComputePushDownLimit(sharded)
	assert.Equal(t, -20, negative.FinalPushDownLimit())
	assert.Equal(t, storage.Unbounded, effectivePushDownLimit(negative))

	res, err := newScanner(2).Scan(context.Background(), negative, makeSegments(2, 10))
	require.NoError(t, err)
	assert.Len(t, res.Rows, 20)
}
