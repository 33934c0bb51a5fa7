// Package bytespool pools byte buffers by power of two capacity.
package bytespool

import (
	"math/bits"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const pools = 32

var (
	hitCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cube_storage",
		Subsystem: "common",
		Name:      "bytes_pool_get_hits_total",
		Help:      "",
	}, []string{"capacity_log2"})
	missCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cube_storage",
		Subsystem: "common",
		Name:      "bytes_pool_get_misses_total",
		Help:      "",
	}, []string{"capacity_log2"})
)

var bytesPool = New()

type Buffer struct {
	B []byte
}

func (b *Buffer) Reset() {
	b.B = b.B[:0]
}

// Pool keeps buffers with capacity in [2^i, 2^(i+1)) in pools[i].
type Pool struct {
	pools [pools]sync.Pool
	hits  [pools]prometheus.Counter
	miss  [pools]prometheus.Counter
}

func New() *Pool {
	p := &Pool{}
	for i := range p.pools {
		label := strconv.Itoa(i)
		p.hits[i] = hitCounter.WithLabelValues(label)
		p.miss[i] = missCounter.WithLabelValues(label)
	}
	return p
}

// Acquire returns a buffer of the given length.
func (p *Pool) Acquire(length int) *Buffer {
	if length <= 0 || length > 1<<(pools-1) {
		return &Buffer{B: make([]byte, length)}
	}
	idx := bits.Len(uint(length - 1)) // capacity 1<<idx fits length
	if v := p.pools[idx].Get(); v != nil {
		p.hits[idx].Inc()
		buf := v.(*Buffer)
		buf.B = buf.B[:length]
		return buf
	}
	p.miss[idx].Inc()
	return &Buffer{B: make([]byte, length, 1<<idx)}
}

func (p *Pool) Release(buf *Buffer) {
	c := cap(buf.B)
	if c == 0 || c > 1<<(pools-1) {
		return
	}
	// buffer of capacity c serves any length up to 1<<idx
	idx := bits.Len(uint(c)) - 1
	p.pools[idx].Put(buf)
}

// Acquire gets a byte buffer with given length from the global pool.
func Acquire(length int) *Buffer {
	return bytesPool.Acquire(length)
}

// Release puts the byte buffer to the global pool.
func Release(buf *Buffer) {
	bytesPool.Release(buf)
}
