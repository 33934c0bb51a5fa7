// Package packer implements packaging of various types into bytes
package packer

import (
	"encoding/binary"
)

type BytesPacker struct {
	buf  [binary.MaxVarintLen64]byte
	Data []byte
}

func NewBytesPacker(block []byte) *BytesPacker {
	return &BytesPacker{Data: block}
}

func (p *BytesPacker) Len() int {
	return len(p.Data)
}

func (p *BytesPacker) Reset() {
	p.Data = p.Data[:0]
}

func (p *BytesPacker) PutVarint(num int64) {
	n := binary.PutVarint(p.buf[:], num)
	p.Data = append(p.Data, p.buf[:n]...)
}

func (p *BytesPacker) PutUvarint(num uint64) {
	n := binary.PutUvarint(p.buf[:], num)
	p.Data = append(p.Data, p.buf[:n]...)
}

func (p *BytesPacker) PutUint32(num uint32) {
	p.Data = binary.LittleEndian.AppendUint32(p.Data, num)
}

func (p *BytesPacker) PutStringWithSize(s string) {
	p.PutUvarint(uint64(len(s)))
	p.Data = append(p.Data, s...)
}
