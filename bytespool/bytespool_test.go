package bytespool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAcquireRelease(t *testing.T) {
	p := New()

	for _, length := range []int{0, 1, 2, 3, 100, 1024, 1025, 70000} {
		buf := p.Acquire(length)
		assert.Len(t, buf.B, length)
		assert.GreaterOrEqual(t, cap(buf.B), length)
		p.Release(buf)

		again := p.Acquire(length)
		assert.Len(t, again.B, length)
		p.Release(again)
	}
}

func TestReleaseForeignCapacity(t *testing.T) {
	p := New()
	// capacity 100 lands in the [64, 128) pool and only serves lengths up to 64
	p.Release(&Buffer{B: make([]byte, 0, 100)})

	buf := p.Acquire(64)
	assert.Len(t, buf.B, 64)
	buf = p.Acquire(100)
	assert.Len(t, buf.B, 100)
}
