package stream

var _ Source = (*BufferedSource)(nil)

// BufferedSource wraps a Source and reads from it in fixed-capacity chunks,
// serving callers from the buffer.
//
// When a refill returns fewer bytes than the buffer holds, the source latches
// end-of-data: the bytes from that refill are still delivered, but the
// wrapped source is never asked again. This makes BufferedSource unsuitable
// for interactive sources that produce data in bursts, since one short burst
// ends the stream.
type BufferedSource struct {
	src    Source
	buf    []byte
	window []byte // unread part of buf
	eof    bool
}

// NewBufferedSource returns a BufferedSource reading from src with a buffer
// of size bytes. If size <= 0, DefaultBufferSize is used.
//
// The BufferedSource borrows src; src must outlive it.
func NewBufferedSource(src Source, size int) *BufferedSource {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &BufferedSource{
		src: src,
		buf: make([]byte, size),
	}
}

// Read fills p from the buffer, refilling it from the wrapped source as
// needed. It returns fewer than len(p) bytes only once end-of-data has been
// latched and the buffer is drained.
//
// A refill error is returned together with the bytes already copied into p.
func (b *BufferedSource) Read(p []byte) (int, error) {
	if b.eof && len(b.window) == 0 {
		return 0, nil
	}
	total := 0
	for len(p) > 0 {
		if len(b.window) == 0 {
			if b.eof {
				break
			}
			n, err := b.src.Read(b.buf)
			b.window = b.buf[:n]
			if err != nil {
				total += b.take(p)
				return total, err
			}
			if n < len(b.buf) {
				b.eof = true
			}
		}
		n := b.take(p)
		p = p[n:]
		total += n
		if b.eof {
			break
		}
	}
	return total, nil
}

// take copies from the window into p and advances the window.
func (b *BufferedSource) take(p []byte) int {
	n := copy(p, b.window)
	b.window = b.window[n:]
	return n
}

// Buffered returns the number of bytes that can be read without touching
// the wrapped source.
func (b *BufferedSource) Buffered() int { return len(b.window) }

// EOF reports whether end-of-data has been latched. Buffered bytes may still
// be pending.
func (b *BufferedSource) EOF() bool { return b.eof }

// Size returns the capacity of the buffer.
func (b *BufferedSource) Size() int { return len(b.buf) }
