//go:build cgo

package zstd

import (
	"github.com/valyala/gozstd"
)

// Decompress appends decompressed src to dst and returns the result.
func Decompress(src, dst []byte) ([]byte, error) {
	return gozstd.Decompress(dst, src)
}

// CompressLevel appends src compressed with the given level to dst and returns the result.
func CompressLevel(src, dst []byte, level int) []byte {
	return gozstd.CompressLevel(dst, src, level)
}
