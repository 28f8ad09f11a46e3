// Package record reads and writes self-delimiting msgpack records over
// stream sinks and sources.
//
// Records are written back to back with no framing; each msgpack value
// carries its own length. The Decoder reads through a
// stream.PushbackSource, which is an io.ByteScanner, so the msgpack decoder
// never consumes bytes past the end of the record it is decoding. Bytes
// after the last record are left for the caller.
package record

import (
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/fisherro/streams/pkg/stream"
)

// ErrTruncated is returned by Decoder.Decode when the stream ends inside a
// record.
var ErrTruncated = errors.New("record: truncated record")

// Encode marshals v and writes it to sink.
func Encode(sink stream.Sink, v any) error {
	b, err := msgpack.Marshal(v)
	if err != nil {
		return fmt.Errorf("record: encode %T: %w", v, err)
	}
	n, err := sink.Write(b)
	if err == nil && n < len(b) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return fmt.Errorf("record: write %T: %w", v, err)
	}
	return nil
}

// Decoder reads consecutive records from a PushbackSource.
type Decoder struct {
	src *stream.PushbackSource
	dec *msgpack.Decoder
}

// NewDecoder returns a Decoder reading from src. The Decoder borrows src;
// bytes it has not consumed can still be read from src directly.
func NewDecoder(src *stream.PushbackSource) *Decoder {
	return &Decoder{
		src: src,
		dec: msgpack.NewDecoder(scanner{src}),
	}
}

// Decode reads the next record into v, which must be a pointer.
//
// ok is false with a nil error when the stream ended cleanly before a new
// record. If the stream ends partway through a record, Decode returns
// ErrTruncated.
func (d *Decoder) Decode(v any) (ok bool, err error) {
	// Peek one byte to tell a clean end from a truncated record.
	if _, err := d.src.ReadByte(); err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}
	if err := d.src.UnreadByte(); err != nil {
		return false, err
	}

	if err := d.dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return false, ErrTruncated
		}
		return false, fmt.Errorf("record: decode %T: %w", v, err)
	}
	return true, nil
}

// scanner gives the msgpack decoder io.Reader semantics (io.EOF at the end)
// while keeping the byte-at-a-time access that stops it from buffering
// ahead of the record.
type scanner struct {
	src *stream.PushbackSource
}

func (s scanner) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n, err := s.src.Read(p)
	if err == nil && n == 0 {
		return 0, io.EOF
	}
	return n, err
}

func (s scanner) ReadByte() (byte, error) { return s.src.ReadByte() }

func (s scanner) UnreadByte() error { return s.src.UnreadByte() }
