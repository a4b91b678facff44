package logger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/cover-generator/internal/logger"
)

func TestWithContext_FromContext_RoundTrip(t *testing.T) {
	t.Parallel()

	nop := logger.NewNop()
	ctx := logger.WithContext(context.Background(), nop)

	assert.Same(t, nop, logger.FromContext(ctx))
}

func TestFromContext_FallbackIsSingleton(t *testing.T) {
	t.Parallel()

	a := logger.FromContext(context.Background())
	b := logger.FromContext(context.Background())

	require.NotNil(t, a)
	assert.Same(t, a, b)

	// warn-level fallback filters these but must not panic
	a.Debug("debug message")
	a.Warn("message with field", logger.String("key", "value"))
}

func TestNew_ConsoleFormat(t *testing.T) {
	t.Parallel()

	l, err := logger.New(logger.Config{Level: "debug", Format: "console"})
	require.NoError(t, err)

	enriched := l.With(logger.String("run_id", "abc"))
	assert.NotSame(t, l, enriched)
	enriched.Info("console logger works")
}

func TestFromContextOr(t *testing.T) {
	t.Parallel()

	def := logger.NewNop()
	assert.Same(t, def, logger.FromContextOr(context.Background(), def))

	stored := &logger.NoOpLogger{}
	ctx := logger.WithContext(context.Background(), stored)
	assert.Same(t, stored, logger.FromContextOr(ctx, def))
}
