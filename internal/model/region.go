package model

import (
	"fmt"
	"io"
	"os"

	"github.com/turtacn/textselect/pkg/errors"
)

// Region is a single-owner handle to the bytes backing a model image.  The
// container construction forms — path, open file, file range, in-memory
// buffer — all converge on a Region, and the container releases it exactly
// once on Close.  After Close the byte slice must not be touched; the
// container guarantees this by never handing the slice out past load time.
type Region struct {
	data   []byte
	closed bool
	source string
}

// Bytes returns the region's content.  Valid only until Close.
func (r *Region) Bytes() []byte {
	if r == nil || r.closed {
		return nil
	}
	return r.data
}

// Len returns the region size in bytes.
func (r *Region) Len() int {
	if r == nil || r.closed {
		return 0
	}
	return len(r.data)
}

// Source describes where the region came from, for logs.
func (r *Region) Source() string {
	if r == nil {
		return ""
	}
	return r.source
}

// Close releases the region.  Idempotent.
func (r *Region) Close() {
	if r == nil {
		return
	}
	r.data = nil
	r.closed = true
}

// RegionFromBuffer wraps caller-owned memory.  The caller must keep the
// buffer alive for the container's lifetime; the engine copies nothing.
func RegionFromBuffer(data []byte) *Region {
	return &Region{data: data, source: fmt.Sprintf("buffer(%d bytes)", len(data))}
}

// RegionFromPath reads the whole file at path.
func RegionFromPath(path string) (*Region, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeIO, "failed to read model image").
			WithDetail("path=" + path)
	}
	return &Region{data: data, source: "path=" + path}, nil
}

// RegionFromFile reads the whole open file from offset 0.  The file's seek
// position is not consulted or disturbed (reads go through ReadAt).
func RegionFromFile(f *os.File) (*Region, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeIO, "failed to stat model file")
	}
	return RegionFromFileRange(f, 0, info.Size())
}

// RegionFromFileRange reads size bytes starting at offset from an open file.
// This backs the (fd, offset, size) construction form used when the model
// image is embedded inside a larger asset file.
func RegionFromFileRange(f *os.File, offset, size int64) (*Region, error) {
	if offset < 0 || size <= 0 {
		return nil, errors.New(errors.CodeInvalidInput, "invalid file range").
			WithDetail(fmt.Sprintf("offset=%d size=%d", offset, size))
	}
	data := make([]byte, size)
	n, err := f.ReadAt(data, offset)
	if int64(n) != size {
		if err == nil || err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, errors.Wrap(err, errors.CodeIO, "failed to read model image range").
			WithDetail(fmt.Sprintf("offset=%d size=%d read=%d", offset, size, n))
	}
	return &Region{
		data:   data,
		source: fmt.Sprintf("fd=%d offset=%d size=%d", f.Fd(), offset, size),
	}, nil
}
