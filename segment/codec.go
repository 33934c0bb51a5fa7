package segment

import (
	"fmt"

	"github.com/pierrec/lz4/v4"

	"github.com/ozontech/cube-storage/util"
	"github.com/ozontech/cube-storage/zstd"
)

const (
	CodecNo Codec = iota
	CodecLZ4
	CodecZSTD
)

type Codec byte

func ParseCodec(s string) (Codec, error) {
	switch s {
	case "none":
		return CodecNo, nil
	case "lz4":
		return CodecLZ4, nil
	case "zstd":
		return CodecZSTD, nil
	default:
		return 0, fmt.Errorf("unknown codec %q", s)
	}
}

func (codec Codec) String() string {
	switch codec {
	case CodecNo:
		return "none"
	case CodecLZ4:
		return "lz4"
	case CodecZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("codec(%d)", byte(codec))
	}
}

// compressBlock returns the compressed block and the codec actually used:
// data lz4 can't shrink is stored as is.
func (codec Codec) compressBlock(src []byte, zstdLevel int) ([]byte, Codec) {
	switch codec {
	case CodecLZ4:
		var c lz4.Compressor
		dst := make([]byte, lz4.CompressBlockBound(len(src)))
		n, err := c.CompressBlock(src, dst)
		if err != nil || n == 0 || n >= len(src) {
			return append([]byte(nil), src...), CodecNo
		}
		return dst[:n], CodecLZ4
	case CodecZSTD:
		return zstd.CompressLevel(src, nil, zstdLevel), CodecZSTD
	default:
		return append([]byte(nil), src...), CodecNo
	}
}

func (codec Codec) decompressBlock(rawLen int, src, dst []byte) ([]byte, error) {
	var err error
	dst = util.EnsureSliceSize(dst, rawLen)
	switch codec {
	case CodecNo:
		if len(src) != rawLen {
			return nil, fmt.Errorf("raw block has %d bytes, want %d", len(src), rawLen)
		}
		copy(dst, src)
	case CodecLZ4:
		var n int
		n, err = lz4.UncompressBlock(src, dst)
		dst = dst[:n]
	case CodecZSTD:
		dst, err = zstd.Decompress(src, dst[:0])
	default:
		return nil, fmt.Errorf("unimplemented codec %d", codec)
	}

	return dst, err
}
