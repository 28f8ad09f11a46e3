package stream

import "io"

// Copy reads src to end-of-data and writes everything to dst. It returns
// the number of bytes dst accepted. dst is not flushed.
func Copy(dst Sink, src Source) (int64, error) {
	buf := make([]byte, DefaultBufferSize)
	var total int64
	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			w, err := dst.Write(buf[:n])
			total += int64(w)
			if err == nil && w < n {
				err = io.ErrShortWrite
			}
			if err != nil {
				return total, err
			}
		}
		if rerr != nil {
			return total, rerr
		}
		if n < len(buf) {
			return total, nil
		}
	}
}
