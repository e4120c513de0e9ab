package ctxlog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tfcanvas/canvas/internal/logger"
)

func TestFromContext(t *testing.T) {
	assert.Same(t, logger.Default, FromContext(context.Background()))

	l := logger.Discard()
	ctx := WithLogger(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))
}
