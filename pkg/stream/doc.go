// Package stream provides a small byte-stream abstraction: a Sink that
// accepts bytes, a Source that supplies them, and decorators that add
// buffering and pushback without changing either interface.
//
// The package offers these building blocks:
//
//   - SpanSink, BytesSink and BytesSource: memory-backed streams for
//     in-process composition and tests.
//
//   - BufferedSink: coalesces small writes into a fixed-capacity buffer and
//     flushes it downstream when full or on demand.
//
//   - BufferedSource: over-reads from the wrapped source into a
//     fixed-capacity buffer and latches end-of-data once a refill comes up
//     short.
//
//   - PushbackSource: lets callers push arbitrary bytes back in front of
//     the wrapped source.
//
// End-of-data is never an error. A Read that returns fewer bytes than
// requested, with a nil error, means the source has no more data for that
// call. Errors are reserved for genuine I/O failures and are reported as
// *ReadError, *WriteError or *FlushError.
//
// Streams are not safe for concurrent use. A decorator borrows the stream it
// wraps for its whole lifetime; the wrapped stream must outlive it and must
// not be used directly while the decorator is in use.
//
// Example usage:
//
//	var out stream.BytesSink
//	bs := stream.NewBufferedSink(&out, 64)
//	defer bs.Close()
//
//	stream.PutLine(bs, "hello")
//	stream.PutFixed(bs, uint32(42))
//	if err := bs.Flush(); err != nil {
//		return err
//	}
package stream
