package stream

import (
	"io"
	"log/slog"
)

var _ SinkCloser = (*BufferedSink)(nil)

// BufferedSink wraps a Sink and coalesces writes into a fixed-capacity
// buffer. The buffer is written downstream when it fills up or when Flush is
// called. It never grows: a write larger than the capacity is passed through
// in capacity-sized flush cycles.
//
// Close must be called (usually deferred) to push out whatever is still
// buffered. Close is the teardown path and never reports an error; call
// Flush first when the error matters.
type BufferedSink struct {
	sink   Sink
	buf    []byte // len(buf) is filled, cap(buf) is the capacity
	closed bool
}

// NewBufferedSink returns a BufferedSink writing to sink with a buffer of
// size bytes. If size <= 0, DefaultBufferSize is used.
//
// The BufferedSink borrows sink; sink must outlive it.
func NewBufferedSink(sink Sink, size int) *BufferedSink {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &BufferedSink{
		sink: sink,
		buf:  make([]byte, 0, size),
	}
}

// Write buffers p, flushing each time the buffer becomes full before all of
// p has been accepted.
//
// On success it returns len(p). If a flush fails it returns the number of
// bytes of p accepted so far and the error; no accepted byte is dropped.
func (b *BufferedSink) Write(p []byte) (int, error) {
	if b.closed {
		return 0, ErrClosed
	}
	total := 0
	available := cap(b.buf) - len(b.buf)
	for len(p) > available {
		b.buf = append(b.buf, p[:available]...)
		total += available
		p = p[available:]
		if err := b.flush(); err != nil {
			return total, err
		}
		available = cap(b.buf) - len(b.buf)
	}
	b.buf = append(b.buf, p...)
	return total + len(p), nil
}

// Flush writes the buffered bytes to the wrapped sink, empties the buffer
// and flushes the wrapped sink.
func (b *BufferedSink) Flush() error {
	if b.closed {
		return ErrClosed
	}
	return b.flush()
}

func (b *BufferedSink) flush() error {
	if len(b.buf) > 0 {
		n, err := b.sink.Write(b.buf)
		if n < len(b.buf) && err == nil {
			err = io.ErrShortWrite
		}
		// Keep whatever the sink did not take at the front of the buffer.
		b.buf = b.buf[:copy(b.buf, b.buf[n:])]
		if err != nil {
			return err
		}
	}
	return b.sink.Flush()
}

// Close flushes best-effort and releases the buffer. A flush failure is
// logged and swallowed. Close does not close the wrapped sink. Calling Close
// more than once is a no-op.
func (b *BufferedSink) Close() error {
	if b.closed {
		return nil
	}
	if err := b.flush(); err != nil {
		slog.Warn("stream: flush on close failed", "error", err, "dropped", len(b.buf))
	}
	b.closed = true
	b.buf = nil
	return nil
}

// Buffered returns the number of bytes waiting in the buffer.
func (b *BufferedSink) Buffered() int { return len(b.buf) }

// Available returns the free space left in the buffer.
func (b *BufferedSink) Available() int { return cap(b.buf) - len(b.buf) }

// Size returns the capacity of the buffer.
func (b *BufferedSink) Size() int { return cap(b.buf) }
