//go:build !cgo

package zstd

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

var (
	decoder *zstd.Decoder

	// encoders keeps one *zstd.Encoder per compression level.
	encoders sync.Map
)

func init() {
	var err error
	decoder, err = zstd.NewReader(nil)
	if err != nil {
		panic(fmt.Errorf("BUG: failed to create ZSTD reader: %s", err))
	}
}

// Decompress appends decompressed src to dst and returns the result.
func Decompress(src, dst []byte) ([]byte, error) {
	return decoder.DecodeAll(src, dst)
}

// CompressLevel appends src compressed with the given level to dst and returns the result.
func CompressLevel(src, dst []byte, level int) []byte {
	return getEncoder(level).EncodeAll(src, dst)
}

func getEncoder(level int) *zstd.Encoder {
	if e, ok := encoders.Load(level); ok {
		return e.(*zstd.Encoder)
	}
	e, err := zstd.NewWriter(nil,
		zstd.WithEncoderCRC(false),
		zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
	if err != nil {
		panic(fmt.Errorf("BUG: failed to create ZSTD writer: %s", err))
	}
	actual, loaded := encoders.LoadOrStore(level, e)
	if loaded {
		_ = e.Close()
	}
	return actual.(*zstd.Encoder)
}
