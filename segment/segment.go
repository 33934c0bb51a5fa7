// Package segment stores the rows of one cuboid on one shard as a list of compressed blocks.
package segment

import (
	"fmt"
	"math"

	"github.com/ozontech/cube-storage/bytespool"
	"github.com/ozontech/cube-storage/consts"
	"github.com/ozontech/cube-storage/metric"
	"github.com/ozontech/cube-storage/packer"
)

// Row is one pre-aggregated record of a cuboid.
type Row struct {
	Timestamp int64
	Dims      []string
	Metrics   []int64
}

type Block struct {
	Codec  Codec
	RawLen int
	Data   []byte

	RowsCount int
	MinTS     int64
	MaxTS     int64
}

// Rows appends rows of the block to dst.
func (b *Block) Rows(dst []Row) ([]Row, error) {
	buf := bytespool.Acquire(b.RawLen)
	defer bytespool.Release(buf)

	raw, err := b.Codec.decompressBlock(b.RawLen, b.Data, buf.B)
	if err != nil {
		return dst, fmt.Errorf("%w: %s", consts.ErrCorruptedBlock, err)
	}
	if len(raw) != b.RawLen {
		return dst, fmt.Errorf("%w: unpacked %d bytes, want %d", consts.ErrCorruptedBlock, len(raw), b.RawLen)
	}
	buf.B = raw

	u := packer.NewBytesUnpacker(raw)
	for i := 0; i < b.RowsCount; i++ {
		row, err := unpackRow(u)
		if err != nil {
			return dst, fmt.Errorf("%w: row %d: %s", consts.ErrCorruptedBlock, i, err)
		}
		dst = append(dst, row)
	}
	return dst, nil
}

func packRow(p *packer.BytesPacker, row Row) {
	p.PutVarint(row.Timestamp)
	p.PutUvarint(uint64(len(row.Dims)))
	for _, d := range row.Dims {
		p.PutStringWithSize(d)
	}
	p.PutUvarint(uint64(len(row.Metrics)))
	for _, m := range row.Metrics {
		p.PutVarint(m)
	}
}

func unpackRow(u *packer.BytesUnpacker) (Row, error) {
	var (
		row Row
		err error
	)
	if row.Timestamp, err = u.GetVarint(); err != nil {
		return row, err
	}

	n, err := u.GetUvarint()
	if err != nil {
		return row, err
	}
	if n > uint64(u.Len()) {
		return row, packer.ErrShortBuffer
	}
	row.Dims = make([]string, n)
	for i := range row.Dims {
		if row.Dims[i], err = u.GetStringWithSize(); err != nil {
			return row, err
		}
	}

	if n, err = u.GetUvarint(); err != nil {
		return row, err
	}
	if n > uint64(u.Len()) {
		return row, packer.ErrShortBuffer
	}
	row.Metrics = make([]int64, n)
	for i := range row.Metrics {
		if row.Metrics[i], err = u.GetVarint(); err != nil {
			return row, err
		}
	}
	return row, nil
}

// Segment is an immutable part of a cuboid stored on one shard.
type Segment struct {
	Name     string
	Shard    int
	CuboidID uint64

	From int64
	To   int64

	blocks    []Block
	rowsCount int
	size      uint64
}

func (s *Segment) Blocks() []Block {
	return s.blocks
}

func (s *Segment) RowsCount() int {
	return s.rowsCount
}

// Size is the number of compressed bytes.
func (s *Segment) Size() uint64 {
	return s.size
}

type Conf struct {
	BlockSize int
	Codec     Codec
	ZstdLevel int
}

// Builder accumulates rows and seals them into blocks of about Conf.BlockSize packed bytes.
type Builder struct {
	cfg    Conf
	seg    *Segment
	packer *packer.BytesPacker

	rows  int
	minTS int64
	maxTS int64
}

func NewBuilder(name string, shard int, cuboidID uint64, cfg Conf) *Builder {
	if cfg.BlockSize <= 0 {
		cfg.BlockSize = consts.DefaultBlockSize
	}
	if cfg.ZstdLevel == 0 {
		cfg.ZstdLevel = consts.DefaultZstdCompressLvl
	}
	b := &Builder{
		cfg: cfg,
		seg: &Segment{
			Name:     name,
			Shard:    shard,
			CuboidID: cuboidID,
			From:     math.MaxInt64,
			To:       math.MinInt64,
		},
		packer: packer.NewBytesPacker(make([]byte, 0, cfg.BlockSize)),
	}
	b.resetBlock()
	return b
}

func (b *Builder) resetBlock() {
	b.packer.Reset()
	b.rows = 0
	b.minTS = math.MaxInt64
	b.maxTS = math.MinInt64
}

func (b *Builder) Append(row Row) {
	packRow(b.packer, row)
	b.rows++
	b.minTS = min(b.minTS, row.Timestamp)
	b.maxTS = max(b.maxTS, row.Timestamp)

	if b.packer.Len() >= b.cfg.BlockSize {
		b.seal()
	}
}

func (b *Builder) seal() {
	if b.rows == 0 {
		return
	}
	data, codec := b.cfg.Codec.compressBlock(b.packer.Data, b.cfg.ZstdLevel)
	b.seg.blocks = append(b.seg.blocks, Block{
		Codec:     codec,
		RawLen:    b.packer.Len(),
		Data:      data,
		RowsCount: b.rows,
		MinTS:     b.minTS,
		MaxTS:     b.maxTS,
	})
	b.seg.rowsCount += b.rows
	b.seg.size += uint64(len(data))
	b.seg.From = min(b.seg.From, b.minTS)
	b.seg.To = max(b.seg.To, b.maxTS)
	metric.SegmentBlocksSealed.WithLabelValues(codec.String()).Inc()

	b.resetBlock()
}

// Build seals pending rows and returns the segment. The builder must not be used afterwards.
func (b *Builder) Build() *Segment {
	b.seal()
	if b.seg.rowsCount == 0 {
		b.seg.From, b.seg.To = 0, 0
	}
	return b.seg
}
