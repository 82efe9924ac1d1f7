package logger_test

import (
	"context"
	"testing"

	"github.com/Ruchi0214/Regexia/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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
	a.Info("info message", logger.String("key", "value"))
}

func TestWith_ReturnsDistinctLogger(t *testing.T) {
	t.Parallel()

	base, err := logger.New(logger.Config{Level: "warn", OutputPaths: []string{"stderr"}})
	require.NoError(t, err)

	enriched := base.With(logger.String("service", "regexia"))
	assert.NotSame(t, base, enriched)
}

func TestOrNop(t *testing.T) {
	t.Parallel()

	assert.NotNil(t, logger.OrNop(nil))

	l := logger.NewNop()
	assert.Same(t, l, logger.OrNop(l))
}

func TestFromContextOr(t *testing.T) {
	t.Parallel()

	stored := logger.NewNop()
	fallback, err := logger.New(logger.Config{Level: "error", OutputPaths: []string{"stderr"}})
	require.NoError(t, err)

	assert.Same(t, fallback, logger.FromContextOr(context.Background(), fallback))
	assert.Same(t, stored, logger.FromContextOr(logger.WithContext(context.Background(), stored), fallback))
	assert.NotNil(t, logger.FromContextOr(context.Background(), nil))
}
