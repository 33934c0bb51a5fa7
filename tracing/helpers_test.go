package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStartSpanDebugIsSampled(t *testing.T) {
	_, span := StartSpan(WithDebug(context.Background()), "test")
	defer span.End()
	assert.True(t, span.SpanContext().IsSampled())
}

func TestHostIP(t *testing.T) {
	assert.NotEmpty(t, hostIP())
}
