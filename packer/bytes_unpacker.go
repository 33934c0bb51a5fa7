// Package packer implements packaging of various types into bytes
package packer

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var ErrShortBuffer = errors.New("short buffer")

type BytesUnpacker struct {
	buf []byte
}

func NewBytesUnpacker(data []byte) *BytesUnpacker {
	return &BytesUnpacker{buf: data}
}

func (u *BytesUnpacker) Len() int {
	return len(u.buf)
}

func (u *BytesUnpacker) GetVarint() (int64, error) {
	val, n := binary.Varint(u.buf)
	if n <= 0 {
		return 0, fmt.Errorf("varint returned invalid bytes read: %d", n)
	}
	u.buf = u.buf[n:]
	return val, nil
}

func (u *BytesUnpacker) GetUvarint() (uint64, error) {
	val, n := binary.Uvarint(u.buf)
	if n <= 0 {
		return 0, fmt.Errorf("uvarint returned invalid bytes read: %d", n)
	}
	u.buf = u.buf[n:]
	return val, nil
}

func (u *BytesUnpacker) GetUint32() (uint32, error) {
	if len(u.buf) < 4 {
		return 0, ErrShortBuffer
	}
	val := binary.LittleEndian.Uint32(u.buf)
	u.buf = u.buf[4:]
	return val, nil
}

// GetStringWithSize reads a string written by BytesPacker.PutStringWithSize.
// The result is a copy and stays valid after the underlying buffer is reused.
func (u *BytesUnpacker) GetStringWithSize() (string, error) {
	l, err := u.GetUvarint()
	if err != nil {
		return "", err
	}
	if uint64(len(u.buf)) < l {
		return "", ErrShortBuffer
	}
	val := string(u.buf[:l])
	u.buf = u.buf[l:]
	return val, nil
}
