package consts

import (
	"errors"
	"time"
)

const (
	KB = 1024
	MB = 1024 * 1024
	GB = 1024 * 1024 * 1024

	// scan
	DefaultScanThreshold = 10_000_000
	DefaultScanTimeout   = 30 * time.Second

	// segments
	DefaultBlockSize        = 64 * KB
	DefaultZstdCompressLvl  = 3
	DefaultRowsPerSegment   = 10_000
	DefaultSegmentsPerQuery = 16

	GracefulShutdownTimeout = 200 * time.Millisecond
)

var (
	ErrUnexpectedInterruption = errors.New("unexpected interruption")
	ErrScanThresholdExceeded  = errors.New("scan threshold exceeded, partial results not permitted")
	ErrInvalidArgument        = errors.New("invalid argument")
	ErrCorruptedBlock         = errors.New("corrupted block")
)

const (
	JaegerDebugKey = "jaeger-debug-id"
)
