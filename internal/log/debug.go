// Package log provides the codemedic debug log. Messages are buffered in
// memory until a destination is configured, so lines emitted while the config
// is still loading are not lost.
package log

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// maxBufferedBytes caps the pre-configuration buffer; oldest bytes are dropped.
const maxBufferedBytes = 256 * 1024

// DebugLogger handles debug logging to a writer and/or buffering.
// It implements io.Writer so it can back a standard log.Logger.
type DebugLogger struct {
	mu      sync.Mutex
	out     io.Writer
	file    *os.File
	buffer  []byte
	discard bool
}

var (
	globalDebugLogger = &DebugLogger{}
	stdLogger         = log.New(globalDebugLogger, "", log.LstdFlags|log.Lmicroseconds)
)

// Write implements io.Writer.
func (l *DebugLogger) Write(p []byte) (n int, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.discard {
		return len(p), nil
	}

	if l.out != nil {
		n, err = l.out.Write(p)
		if l.file != nil {
			_ = l.file.Sync()
		}
		return n, err
	}

	// p may be reused by the caller
	l.buffer = append(l.buffer, p...)
	if over := len(l.buffer) - maxBufferedBytes; over > 0 {
		l.buffer = append([]byte(nil), l.buffer[over:]...)
	}
	return len(p), nil
}

func (l *DebugLogger) closeFileLocked() {
	if l.file != nil {
		_ = l.file.Close()
		l.file = nil
	}
	l.out = nil
}

func (l *DebugLogger) attachLocked(w io.Writer) {
	l.out = w
	l.discard = false
	if len(l.buffer) > 0 {
		_, _ = w.Write(l.buffer)
		l.buffer = nil
	}
}

// SetFile sets the debug log file path, creating it if needed.
// An empty path discards all buffered and future messages.
func SetFile(path string) error {
	globalDebugLogger.mu.Lock()
	defer globalDebugLogger.mu.Unlock()

	globalDebugLogger.closeFileLocked()

	if path == "" {
		globalDebugLogger.discard = true
		globalDebugLogger.buffer = nil
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec
	if err != nil {
		globalDebugLogger.discard = true
		globalDebugLogger.buffer = nil
		return err
	}

	globalDebugLogger.file = f
	globalDebugLogger.attachLocked(f)
	_ = f.Sync()
	return nil
}

// SetOutput routes debug messages to w, flushing anything buffered so far.
// A nil writer goes back to buffering.
func SetOutput(w io.Writer) {
	globalDebugLogger.mu.Lock()
	defer globalDebugLogger.mu.Unlock()

	globalDebugLogger.closeFileLocked()
	if w == nil {
		globalDebugLogger.discard = false
		return
	}
	globalDebugLogger.attachLocked(w)
}

// Printf writes a formatted debug message via the standard logger.
func Printf(format string, args ...any) {
	stdLogger.Printf(format, args...)
}

// Println writes a debug message via the standard logger.
func Println(v ...any) {
	stdLogger.Println(v...)
}

// Component returns a printf-style function that prefixes every message with
// the component name. Services receive it as their logf.
func Component(name string) func(string, ...any) {
	return func(format string, args ...any) {
		stdLogger.Printf("[%s] %s", name, fmt.Sprintf(format, args...))
	}
}

// Close closes the debug log file if open.
func Close() error {
	globalDebugLogger.mu.Lock()
	defer globalDebugLogger.mu.Unlock()

	if globalDebugLogger.file == nil {
		return nil
	}

	err := globalDebugLogger.file.Close()
	globalDebugLogger.file = nil
	globalDebugLogger.out = nil
	return err
}
