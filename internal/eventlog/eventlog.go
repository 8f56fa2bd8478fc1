// Package eventlog keeps an append-only, timestamped audit trail of pin
// operations.
package eventlog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/edaniels/golog"
)

// Logger appends one timestamped line per event to a file.  It is safe for
// concurrent use.
type Logger struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
	diag golog.Logger
}

// New returns a Logger writing to path.  Missing parent directories are
// created on the first write.
func New(path string, diag golog.Logger) *Logger {
	return &Logger{path: path, now: time.Now, diag: diag}
}

// Log writes a single event.  Write errors are reported on the diagnostic
// logger and otherwise ignored.
func (l *Logger) Log(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	line := fmt.Sprintf("%s - %s\n", l.now().Format(time.RFC3339), fmt.Sprintf(format, args...))
	if err := l.append(line); err != nil {
		l.diag.Errorw("event log write failed", "path", l.path, "error", err)
	}
}

func (l *Logger) append(line string) error {
	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(line)
	return err
}

// Tail returns at most n of the most recent lines, oldest first.
func (l *Logger) Tail(n int) ([]string, error) {
	l.mu.Lock()
	data, err := os.ReadFile(l.path)
	l.mu.Unlock()
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(data), "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if n >= 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines, nil
}
