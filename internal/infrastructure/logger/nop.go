package logger

// NoOpLogger discards everything. Tests and optional components use it.
type NoOpLogger struct{}

// NewNop returns a logger that discards all entries.
func NewNop() Logger {
	return &NoOpLogger{}
}

func (l *NoOpLogger) Debug(string, ...Field) {}
func (l *NoOpLogger) Info(string, ...Field)  {}
func (l *NoOpLogger) Warn(string, ...Field)  {}
func (l *NoOpLogger) Error(string, ...Field) {}

// Fatal does not exit.
func (l *NoOpLogger) Fatal(string, ...Field) {}

func (l *NoOpLogger) With(...Field) Logger { return l }

func (l *NoOpLogger) Sync() error { return nil }

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return NewNop()
	}
	return l
}
