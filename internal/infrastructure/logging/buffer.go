package logging

import (
	"context"
	"sync"

	"github.com/alexisbeaulieu97/pprunner/internal/ports"
)

const defaultBufferLimit = 1000

// Entry is one log call captured by a Buffer.
type Entry struct {
	Level  string
	Msg    string
	Fields []interface{}
	ctx    context.Context
}

// Buffer holds log entries while the terminal is owned by the progress view.
// The oldest entries are dropped once the limit is reached.
type Buffer struct {
	mu      sync.Mutex
	limit   int
	entries []Entry
}

// NewBuffer creates a buffer with the provided capacity (defaults to 1000).
func NewBuffer(limit int) *Buffer {
	if limit <= 0 {
		limit = defaultBufferLimit
	}
	return &Buffer{limit: limit}
}

// Logger returns a ports.Logger writing into the buffer.
func (b *Buffer) Logger() ports.Logger {
	return &bufferedLogger{buffer: b}
}

// Entries returns a copy of the captured entries.
func (b *Buffer) Entries() []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Entry(nil), b.entries...)
}

// Flush replays captured entries into delegate in order and empties the buffer.
func (b *Buffer) Flush(delegate ports.Logger) {
	if delegate == nil {
		return
	}
	b.mu.Lock()
	entries := b.entries
	b.entries = nil
	b.mu.Unlock()

	for _, entry := range entries {
		switch entry.Level {
		case "debug":
			delegate.Debug(entry.ctx, entry.Msg, entry.Fields...)
		case "warn":
			delegate.Warn(entry.ctx, entry.Msg, entry.Fields...)
		case "error":
			delegate.Error(entry.ctx, entry.Msg, entry.Fields...)
		default:
			delegate.Info(entry.ctx, entry.Msg, entry.Fields...)
		}
	}
}

func (b *Buffer) add(entry Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.entries) == b.limit {
		b.entries = append(b.entries[:0], b.entries[1:]...)
	}
	b.entries = append(b.entries, entry)
}

type bufferedLogger struct {
	buffer *Buffer
	fields []interface{}
}

func (l *bufferedLogger) Debug(ctx context.Context, msg string, fields ...interface{}) {
	l.log(ctx, "debug", msg, fields)
}

func (l *bufferedLogger) Info(ctx context.Context, msg string, fields ...interface{}) {
	l.log(ctx, "info", msg, fields)
}

func (l *bufferedLogger) Warn(ctx context.Context, msg string, fields ...interface{}) {
	l.log(ctx, "warn", msg, fields)
}

func (l *bufferedLogger) Error(ctx context.Context, msg string, fields ...interface{}) {
	l.log(ctx, "error", msg, fields)
}

func (l *bufferedLogger) With(fields ...interface{}) ports.Logger {
	next := append(append([]interface{}{}, l.fields...), fields...)
	return &bufferedLogger{buffer: l.buffer, fields: next}
}

func (l *bufferedLogger) log(ctx context.Context, level, msg string, fields []interface{}) {
	if l == nil || l.buffer == nil {
		return
	}
	l.buffer.add(Entry{
		Level:  level,
		Msg:    msg,
		Fields: append(append([]interface{}{}, l.fields...), fields...),
		ctx:    ctx,
	})
}
