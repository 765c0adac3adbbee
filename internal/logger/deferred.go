package logger

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// Deferred is a writer that holds log output until its destination is
// known. Logging can start before the config naming the log file is read.
type Deferred struct {
	mu  sync.Mutex
	buf bytes.Buffer
	out io.Writer
}

// NewDeferred creates a writer that buffers until Attach
func NewDeferred() *Deferred {
	return &Deferred{}
}

// Write implements io.Writer
func (d *Deferred) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.out != nil {
		return d.out.Write(p)
	}
	return d.buf.Write(p)
}

// Attach flushes the buffered output to w and writes through from then on.
// Attaching io.Discard drops what was buffered.
func (d *Deferred) Attach(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.out = w
	_, err := d.buf.WriteTo(w)
	d.buf.Reset()
	return err
}

// OpenFile opens path for appending, creating its directory. An empty path
// yields io.Discard.
func OpenFile(path string) (io.Writer, io.Closer, error) {
	if path == "" {
		return io.Discard, io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, f, nil
}
