package storage

import "fmt"

// Bound tells whether the upper end of a Period belongs to it.
type Bound uint8

const (
	BoundOpen Bound = iota
	BoundClosed
)

func (b Bound) String() string {
	switch b {
	case BoundOpen:
		return "open"
	case BoundClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Period is a range over the time axis of the cube.
// From is always included, To only with BoundClosed.
type Period struct {
	From  int64
	To    int64
	Bound Bound
}

// ClosedOpen returns [from, to).
func ClosedOpen(from, to int64) Period {
	return Period{From: from, To: to, Bound: BoundOpen}
}

// Closed returns [from, to].
func Closed(from, to int64) Period {
	return Period{From: from, To: to, Bound: BoundClosed}
}

func (p Period) Contains(ts int64) bool {
	if ts < p.From {
		return false
	}
	if p.Bound == BoundClosed {
		return ts <= p.To
	}
	return ts < p.To
}

// Covers reports whether every timestamp of the closed range [from, to] belongs to p.
func (p Period) Covers(from, to int64) bool {
	return from <= to && p.Contains(from) && p.Contains(to)
}

func (p Period) String() string {
	if p.Bound == BoundClosed {
		return fmt.Sprintf("[%d, %d]", p.From, p.To)
	}
	return fmt.Sprintf("[%d, %d)", p.From, p.To)
}
