package stream

import (
	"fmt"
	"io"
	"strings"
)

// DefaultTerminator ends a line for ReadLine and PutLine.
const DefaultTerminator byte = '\n'

// ReadLine reads bytes one at a time until term or end-of-data. The
// terminator is consumed but not included in line.
//
// If end-of-data is reached after at least one byte, the partial line is
// returned with ok set. ok is false only when no byte could be read at all,
// which lets callers tell a clean end between records from one that ends
// mid-record.
func ReadLine(src Source, term byte) (line string, ok bool, err error) {
	c, ok, err := GetByte(src)
	if err != nil || !ok {
		return "", false, err
	}
	var sb strings.Builder
	for {
		if c == term {
			return sb.String(), true, nil
		}
		sb.WriteByte(c)
		c, ok, err = GetByte(src)
		if err != nil {
			return sb.String(), true, err
		}
		if !ok {
			return sb.String(), true, nil
		}
	}
}

// ReadUntil reads bytes until sentinel or end-of-data. Unlike ReadLine, the
// sentinel is included in the result when it was found.
func ReadUntil(src Source, sentinel byte) ([]byte, error) {
	var out []byte
	for {
		c, ok, err := GetByte(src)
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, c)
		if c == sentinel {
			return out, nil
		}
	}
}

// PutString writes the bytes of s.
func PutString(sink Sink, s string) error {
	return writeAll(sink, []byte(s))
}

// PutLine writes s followed by DefaultTerminator.
func PutLine(sink Sink, s string) error {
	buf := make([]byte, 0, len(s)+1)
	buf = append(buf, s...)
	buf = append(buf, DefaultTerminator)
	return writeAll(sink, buf)
}

// Printf formats according to a format specifier and writes the result.
func Printf(sink Sink, format string, args ...any) error {
	return writeAll(sink, fmt.Appendf(nil, format, args...))
}

func writeAll(sink Sink, p []byte) error {
	n, err := sink.Write(p)
	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}
	return err
}
