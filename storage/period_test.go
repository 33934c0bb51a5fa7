package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPeriodContains(t *testing.T) {
	open := ClosedOpen(10, 20)
	assert.False(t, open.Contains(9))
	assert.True(t, open.Contains(10))
	assert.True(t, open.Contains(19))
	assert.False(t, open.Contains(20))

	closed := Closed(10, 20)
	assert.True(t, closed.Contains(20))
	assert.False(t, closed.Contains(21))
}

func TestPeriodCovers(t *testing.T) {
	p := ClosedOpen(100, 200)
	assert.True(t, p.Covers(100, 199))
	assert.False(t, p.Covers(100, 200))
	assert.False(t, p.Covers(99, 150))
	assert.False(t, p.Covers(150, 120))
	assert.True(t, Closed(100, 200).Covers(100, 200))
}

func TestPeriodString(t *testing.T) {
	assert.Equal(t, "[1, 2)", ClosedOpen(1, 2).String())
	assert.Equal(t, "[1, 2]", Closed(1, 2).String())
}

func TestPeriodBound(t *testing.T) {
	assert.Equal(t, BoundOpen, ClosedOpen(1, 2).Bound)
	assert.Equal(t, BoundClosed, Closed(1, 2).Bound)

	// zero value is a closed-open range
	p := Period{From: 5, To: 10}
	assert.Equal(t, ClosedOpen(5, 10), p)
	assert.False(t, p.Contains(10))
	assert.Equal(t, "closed", BoundClosed.String())
}
