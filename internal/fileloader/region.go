package fileloader

import (
	"errors"
	"fmt"
	"io"
)

// ErrUnsupported is returned for write operations on read-only game files.
var ErrUnsupported = errors.New("operation not supported")

// Region restricts all operations on an underlying file handle to the byte
// window [offset, offset+size). It is used to read one game file embedded in
// a shared dat blob: reads and seeks are clamped to the window instead of
// failing.
//
// A Region repositions the underlying handle on every operation, so two
// Regions over the same handle must not be used interleaved. CatLoader opens
// a fresh dat handle per Region for this reason.
type Region struct {
	h     io.ReadSeekCloser
	start int64
	end   int64
	// cur is the absolute position in the underlying handle.
	cur int64
}

// NewRegion creates a region over h covering [offset, offset+size) and
// positions the handle at the start of the window.
func NewRegion(h io.ReadSeekCloser, offset, size int64) (*Region, error) {
	if _, err := h.Seek(offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek to region start: %w", err)
	}

	return &Region{h: h, start: offset, end: offset + size, cur: offset}, nil
}

// Size returns the length of the region in bytes.
func (r *Region) Size() int64 {
	return r.end - r.start
}

// Read reads up to len(p) bytes, clamped to the region window. Reaching the
// end of the window reports io.EOF even if the underlying file continues.
func (r *Region) Read(p []byte) (int, error) {
	remain := r.end - r.cur
	if remain <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > remain {
		p = p[:remain]
	}

	n, err := r.h.Read(p)
	r.cur += int64(n)
	return n, err
}

// Seek repositions the region. The target is clamped to the window, never an
// error: seeking past the end lands on the end, seeking before the start
// lands on the start. The returned position is relative to the window start.
func (r *Region) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = r.start + offset
	case io.SeekCurrent:
		abs = r.cur + offset
	case io.SeekEnd:
		abs = r.end + offset
	default:
		return 0, fmt.Errorf("invalid seek whence: %d", whence)
	}

	if abs < r.start {
		abs = r.start
	}
	if abs > r.end {
		abs = r.end
	}

	if _, err := r.h.Seek(abs, io.SeekStart); err != nil {
		return 0, fmt.Errorf("seek region: %w", err)
	}

	r.cur = abs
	return abs - r.start, nil
}

// Write always fails: game files are read-only.
func (r *Region) Write([]byte) (int, error) {
	return 0, ErrUnsupported
}

// ReadAll reads the remaining bytes of the region, looping over short reads
// until the window is exhausted or the underlying file runs out of data.
func (r *Region) ReadAll() ([]byte, error) {
	buf := make([]byte, 0, r.end-r.cur)
	for {
		remain := r.end - r.cur
		if remain <= 0 {
			return buf, nil
		}

		chunk := make([]byte, remain)
		n, err := r.h.Read(chunk)
		r.cur += int64(n)
		buf = append(buf, chunk[:n]...)

		if err == io.EOF {
			return buf, nil
		}
		if err != nil {
			return buf, err
		}
		if n == 0 {
			return buf, nil
		}
	}
}

// Close closes the underlying handle.
func (r *Region) Close() error {
	return r.h.Close()
}
