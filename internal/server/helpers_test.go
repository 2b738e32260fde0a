//go:build unit || integration

package server_test

import (
	"context"
	"sync"

	"github.com/raqolbi/hello-api/internal/log"
)

type logRecord struct {
	level  log.Level
	msg    string
	fields map[string]any
}

// recordingLogger is a Logger that records messages and can return a Sync error.
type recordingLogger struct {
	mu      sync.Mutex
	records []logRecord
	syncErr error
}

func (l *recordingLogger) Log(_ context.Context, level log.Level, msg string, fields ...log.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()

	m := make(map[string]any, len(fields))
	for _, f := range fields {
		m[f.Key] = f.Value
	}

	l.records = append(l.records, logRecord{level: level, msg: msg, fields: m})
}

//nolint:ireturn
func (l *recordingLogger) With(_ ...log.Field) log.Logger { return l }

//nolint:ireturn
func (l *recordingLogger) WithGroup(_ string) log.Logger { return l }
func (l *recordingLogger) Enabled(_ log.Level) bool      { return true }
func (l *recordingLogger) Sync(_ context.Context) error  { return l.syncErr }

func (l *recordingLogger) messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]string, 0, len(l.records))
	for _, r := range l.records {
		out = append(out, r.msg)
	}

	return out
}

func (l *recordingLogger) find(msg string) (logRecord, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, r := range l.records {
		if r.msg == msg {
			return r, true
		}
	}

	return logRecord{}, false
}
