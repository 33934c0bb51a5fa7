package util

import (
	"context"

	"github.com/c2h5oh/datasize"
)

func SizeStr(bytes uint64) string {
	return datasize.ByteSize(bytes).HR()
}

// IsCancelled is a faster way to check if the context has been canceled, compared to ctx.Err() != nil
func IsCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

func EnsureSliceSize[T any](src []T, size int) []T {
	if cap(src) < size {
		return make([]T, size, max(2*cap(src), size))
	}
	return src[:size]
}
