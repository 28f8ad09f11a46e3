package stream

import (
	"bytes"
	"errors"
	"testing"
	"testing/iotest"
)

// countingSource counts how often it is asked for data.
type countingSource struct {
	BytesSource
	reads int
}

func (s *countingSource) Read(p []byte) (int, error) {
	s.reads++
	return s.BytesSource.Read(p)
}

// errSource fails after handing out its data.
type errSource struct {
	data []byte
	err  error
}

func (s *errSource) Read(p []byte) (int, error) {
	n := copy(p, s.data)
	s.data = s.data[n:]
	return n, s.err
}

func control() []byte {
	return []byte{
		0x01,
		0x02, 0x02,
		0x03, 0x03, 0x03, 0x03,
		0x04, 0x04, 0x04, 0x04, 0x04, 0x04, 0x04, 0x04,
	}
}

func TestBufferedSource_TypedReads(t *testing.T) {
	bs := NewBufferedSource(NewBytesSource(control()), 3)

	n8, _, _ := GetFixed[int8](bs)
	n16, _, _ := GetFixed[int16](bs)
	n32, _, _ := GetFixed[int32](bs)
	n64, ok, err := GetFixed[int64](bs)
	if err != nil || !ok {
		t.Fatalf("GetFixed[int64]: ok=%v err=%v", ok, err)
	}
	if n8 != 0x01 || n16 != 0x0202 || n32 != 0x03030303 || n64 != 0x0404040404040404 {
		t.Fatalf("got %#x %#x %#x %#x", n8, n16, n32, n64)
	}
}

func TestBufferedSource_ChunkedReaderTransparency(t *testing.T) {
	data := make([]byte, 1000)
	for i := range data {
		data[i] = byte(i % 251)
	}

	for _, size := range []int{1, 3, 16, 64, 999, 1000, 4096} {
		src := FromReader(iotest.HalfReader(iotest.OneByteReader(bytes.NewReader(data))))
		bs := NewBufferedSource(src, size)

		var got []byte
		chunk := make([]byte, 37)
		short := 0
		for i := 0; i < 1000; i++ {
			n, err := bs.Read(chunk)
			if err != nil {
				t.Fatalf("size=%d: Read error: %v", size, err)
			}
			got = append(got, chunk[:n]...)
			if n < len(chunk) {
				short++
				if n == 0 {
					break
				}
			}
		}
		if !bytes.Equal(got, data) {
			t.Fatalf("size=%d: got %d bytes, want %d", size, len(got), len(data))
		}
		if short != 2 {
			t.Fatalf("size=%d: short reads = %d, want 2 (one partial, one empty)", size, short)
		}
		for i := 0; i < 3; i++ {
			if n, _ := bs.Read(chunk); n != 0 {
				t.Fatalf("size=%d: read after end returned %d", size, n)
			}
		}
	}
}

func TestBufferedSource_LatchStopsRefill(t *testing.T) {
	src := &countingSource{BytesSource: *NewStringSource("abc")}
	bs := NewBufferedSource(src, 8)

	p := make([]byte, 2)
	n, _ := bs.Read(p)
	if n != 2 || string(p) != "ab" {
		t.Fatalf("first Read = %d %q", n, p[:n])
	}
	if !bs.EOF() {
		t.Fatal("expected end-of-data to be latched after short refill")
	}
	if bs.Buffered() != 1 {
		t.Fatalf("Buffered() = %d, want 1", bs.Buffered())
	}

	n, _ = bs.Read(p)
	if n != 1 || p[0] != 'c' {
		t.Fatalf("second Read = %d %q", n, p[:n])
	}

	// Refill the underlying source; the latch must ignore it.
	src.BytesSource = *NewStringSource("more")
	for i := 0; i < 3; i++ {
		if n, _ := bs.Read(p); n != 0 {
			t.Fatalf("Read after latch returned %d", n)
		}
	}
	if src.reads != 1 {
		t.Fatalf("underlying reads = %d, want 1", src.reads)
	}
}

func TestBufferedSource_SmallReadDoesNotOverfetch(t *testing.T) {
	src := &countingSource{BytesSource: *NewBytesSource(make([]byte, 100))}
	bs := NewBufferedSource(src, 10)

	p := make([]byte, 4)
	bs.Read(p)
	bs.Read(p)
	if src.reads != 1 {
		t.Fatalf("underlying reads = %d, want 1", src.reads)
	}
	bs.Read(p)
	if src.reads != 2 {
		t.Fatalf("underlying reads = %d, want 2", src.reads)
	}
}

func TestBufferedSource_ReadError(t *testing.T) {
	errIO := errors.New("device error")
	bs := NewBufferedSource(&errSource{data: []byte("xy"), err: errIO}, 8)

	p := make([]byte, 8)
	n, err := bs.Read(p)
	if !errors.Is(err, errIO) {
		t.Fatalf("expected device error, got %v", err)
	}
	if n != 2 || string(p[:n]) != "xy" {
		t.Fatalf("Read = %d %q, want 2 \"xy\"", n, p[:n])
	}
}

func TestBufferedSource_DefaultSize(t *testing.T) {
	bs := NewBufferedSource(NewBytesSource(nil), -1)
	if bs.Size() != DefaultBufferSize {
		t.Fatalf("Size() = %d, want %d", bs.Size(), DefaultBufferSize)
	}
}

func TestBufferedSource_EmptySource(t *testing.T) {
	bs := NewBufferedSource(NewBytesSource(nil), 4)
	p := make([]byte, 4)
	if n, err := bs.Read(p); n != 0 || err != nil {
		t.Fatalf("Read = %d, %v", n, err)
	}
	if !bs.EOF() {
		t.Fatal("expected EOF latched")
	}
}
