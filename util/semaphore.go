package util

import "context"

type Semaphore struct {
	c chan struct{}
}

func NewSemaphore(size int) Semaphore {
	return Semaphore{
		c: make(chan struct{}, size),
	}
}

// Acquire blocks until a slot is free or ctx is done.
func (s Semaphore) Acquire(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case s.c <- struct{}{}:
		return nil
	}
}

func (s Semaphore) Release() {
	<-s.c
}
