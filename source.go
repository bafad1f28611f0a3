package cupx

import (
	"fmt"
	"os"

	"github.com/meigma/cupx/internal/stream"
)

// Source provides random access to container bytes.
//
// *bytes.Reader satisfies it directly; OpenReader wraps *os.File, and
// the http subpackage provides a Source over HTTP range requests.
type Source = stream.Source

// fileSource wraps *os.File to implement Source. os.File has ReadAt
// but not Size, so the size is cached at construction.
type fileSource struct {
	file *os.File
	size int64
}

func newFileSource(f *os.File) (*fileSource, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("cupx: stat container: %w", err)
	}
	return &fileSource{file: f, size: info.Size()}, nil
}

// ReadAt implements io.ReaderAt.
func (fs *fileSource) ReadAt(p []byte, off int64) (int, error) {
	return fs.file.ReadAt(p, off)
}

// Size returns the total size of the file.
func (fs *fileSource) Size() int64 {
	return fs.size
}
