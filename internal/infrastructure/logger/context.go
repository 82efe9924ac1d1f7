package logger

import (
	"context"
	"fmt"
	"os"
	"sync"
)

type ctxKey struct{}

// WithContext stores l in ctx.
func WithContext(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContextOr returns the logger stored in ctx, or fallback.
func FromContextOr(ctx context.Context, fallback Logger) Logger {
	if l, ok := ctx.Value(ctxKey{}).(Logger); ok {
		return l
	}
	return OrNop(fallback)
}

// FromContext is FromContextOr with a shared warn-level stderr logger as the
// fallback.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(ctxKey{}).(Logger); ok {
		return l
	}
	return stderrLogger()
}

var stderrLogger = sync.OnceValue(func() Logger {
	l, err := New(Config{Level: "warn", OutputPaths: []string{"stderr"}})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: stderr fallback unavailable: %v\n", err)
		return NewNop()
	}
	return l
})
