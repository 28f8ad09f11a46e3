package stream

import (
	"encoding/binary"
	"fmt"
	"reflect"
)

// PutFixed writes the raw bit pattern of v in host byte order.
//
// T must have a fixed binary size: a fixed-width number, bool, or an array
// or struct made only of those. Anything else returns ErrNotFixedSize.
func PutFixed[T any](sink Sink, v T) error {
	size := fixedSize(v)
	if size <= 0 {
		return fmt.Errorf("stream: put %T: %w", v, ErrNotFixedSize)
	}
	buf := make([]byte, 0, size)
	buf, err := binary.Append(buf, binary.NativeEndian, v)
	if err != nil {
		return fmt.Errorf("stream: put %T: %w", v, err)
	}
	return writeAll(sink, buf)
}

// GetFixed reads a value of type T written by PutFixed.
//
// It reads exactly binary.Size(T) bytes. If the source has fewer, ok is false
// and the bytes that were read are discarded; a partial value is never
// returned.
func GetFixed[T any](src Source) (v T, ok bool, err error) {
	size := fixedSize(v)
	if size <= 0 {
		return v, false, fmt.Errorf("stream: get %T: %w", v, ErrNotFixedSize)
	}
	var small [8]byte
	var buf []byte
	if size <= len(small) {
		buf = small[:size]
	} else {
		buf = make([]byte, size)
	}
	n, err := src.Read(buf)
	if err != nil {
		return v, false, err
	}
	if n < size {
		return v, false, nil
	}
	if _, err := binary.Decode(buf, binary.NativeEndian, &v); err != nil {
		return v, false, fmt.Errorf("stream: get %T: %w", v, err)
	}
	return v, true, nil
}

// fixedSize returns the encoded size of v, or -1 if T is not a fixed-size
// type. binary.Size accepts slices of fixed-size values and pointers to
// numbers; those carry indirection and are rejected here.
func fixedSize[T any](v T) int {
	switch reflect.TypeFor[T]().Kind() {
	case reflect.Slice, reflect.Pointer:
		return -1
	}
	return binary.Size(v)
}

// PutByte writes a single byte.
func PutByte(sink Sink, c byte) error {
	return PutFixed(sink, c)
}

// GetByte reads a single byte. ok is false at end-of-data.
func GetByte(src Source) (c byte, ok bool, err error) {
	return GetFixed[byte](src)
}

// Skip reads and discards up to n bytes, returning how many were discarded.
// It returns fewer than n only at end-of-data or on error.
func Skip(src Source, n int) (int, error) {
	var scratch [512]byte
	skipped := 0
	for skipped < n {
		chunk := scratch[:min(n-skipped, len(scratch))]
		m, err := src.Read(chunk)
		skipped += m
		if err != nil {
			return skipped, err
		}
		if m < len(chunk) {
			break
		}
	}
	return skipped, nil
}
