package scanner

import (
	"cmp"
	"slices"
	"strings"

	"github.com/ozontech/cube-storage/segment"
)

const keySeparator = "\x00"

// aggregate merges rows with equal dimensions: metrics are summed and the
// earliest timestamp is kept. Order of first appearance is preserved.
func aggregate(rows []segment.Row) []segment.Row {
	groups := make(map[string]int, len(rows))
	res := make([]segment.Row, 0, len(rows))

	for _, row := range rows {
		key := strings.Join(row.Dims, keySeparator)
		idx, ok := groups[key]
		if !ok {
			groups[key] = len(res)
			res = append(res, segment.Row{
				Timestamp: row.Timestamp,
				Dims:      row.Dims,
				Metrics:   slices.Clone(row.Metrics),
			})
			continue
		}

		acc := &res[idx]
		acc.Timestamp = min(acc.Timestamp, row.Timestamp)
		if len(row.Metrics) > len(acc.Metrics) {
			acc.Metrics = append(acc.Metrics, make([]int64, len(row.Metrics)-len(acc.Metrics))...)
		}
		for i, m := range row.Metrics {
			acc.Metrics[i] += m
		}
	}
	return res
}

// compareRows orders rows by dimensions, then by timestamp.
func compareRows(a, b segment.Row) int {
	if c := slices.Compare(a.Dims, b.Dims); c != 0 {
		return c
	}
	return cmp.Compare(a.Timestamp, b.Timestamp)
}
