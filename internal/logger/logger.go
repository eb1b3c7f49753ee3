// Package logger prints pipeline diagnostics to stderr when verbose
// mode is on. The CLI flips it with --verbose so users can watch what
// ingestion and retrieval are doing; everything is silent otherwise.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
)

var (
	verbose atomic.Bool

	mu   sync.Mutex
	sink io.Writer = os.Stderr
)

// SetVerbose switches verbose logging on or off.
func SetVerbose(on bool) {
	verbose.Store(on)
}

// IsVerbose reports whether verbose logging is on.
func IsVerbose() bool {
	return verbose.Load()
}

// SetOutput redirects log output, mainly so tests can capture it.
// The default is os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	sink = w
}

// Debug logs fine-grained pipeline steps.
func Debug(format string, args ...any) {
	emit("[DEBUG] ", format, args...)
}

// Info logs notable progress events.
func Info(format string, args ...any) {
	emit("[INFO] ", format, args...)
}

// Warn logs recoverable problems.
func Warn(format string, args ...any) {
	emit("[WARN] ", format, args...)
}

// Section marks the start of a pipeline phase in the log.
func Section(name string) {
	if !verbose.Load() {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(sink, "\n=== %s ===\n", name)
}

func emit(tag, format string, args ...any) {
	if !verbose.Load() {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(sink, tag+format+"\n", args...)
}
