// Package utils holds small io helpers shared by the commands.
package utils

import (
	"bytes"
	"io"
	"sync"
)

// DeferredWriter collects log output while the terminal board owns the
// screen and replays it on Flush. With Limit set, only the newest Limit bytes
// are kept; older output is discarded a whole line at a time.
type DeferredWriter struct {
	Limit int

	mu      sync.Mutex
	buf     bytes.Buffer
	dropped int
}

func (d *DeferredWriter) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n, err := d.buf.Write(p)
	d.trim()
	return n, err
}

// trim discards leading lines until the buffer fits Limit. A partial line
// with no newline left is dropped entirely.
func (d *DeferredWriter) trim() {
	over := d.buf.Len() - d.Limit
	if d.Limit <= 0 || over <= 0 {
		return
	}

	data := d.buf.Bytes()
	cut := len(data)
	if i := bytes.IndexByte(data[over-1:], '\n'); i >= 0 {
		cut = over + i
	}

	d.dropped += cut
	d.buf.Next(cut)
}

// Len returns the number of held bytes.
func (d *DeferredWriter) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buf.Len()
}

// Dropped returns how many bytes were discarded to stay under Limit.
func (d *DeferredWriter) Dropped() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dropped
}

// Flush replays held output to w and empties the buffer.
func (d *DeferredWriter) Flush(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.buf.Len() == 0 {
		return nil
	}

	_, err := d.buf.WriteTo(w)
	return err
}
