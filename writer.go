package cupx

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"

	"github.com/meigma/cupx/cup"
)

// pictureSource is the two-variant source of picture bytes: in-memory
// data, or a file path resolved only when the container is written.
type pictureSource struct {
	data []byte
	path string
}

// Writer builds a CUPX container from waypoint data and named
// pictures.
//
// Pictures are written under "pics/" in the leading archive; the
// trailing archive holds the waypoint data as POINTS.CUP. A Writer
// with no pictures still emits a valid empty pictures archive, so the
// container always ends with two end-of-central-directory records.
type Writer struct {
	cupFile  *cup.File
	pictures map[string]pictureSource
	modTime  time.Time
	logger   *slog.Logger
}

var _ io.WriterTo = (*Writer)(nil)

// NewWriter creates a Writer for the given waypoint data.
func NewWriter(f *cup.File, opts ...WriterOption) *Writer {
	w := &Writer{
		cupFile:  f,
		pictures: make(map[string]pictureSource),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	return w
}

// log returns the logger, falling back to a discard logger if nil.
func (w *Writer) log() *slog.Logger {
	if w.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return w.logger
}

// AddPicture registers in-memory picture bytes under name (without the
// "pics/" prefix), replacing any prior source with the same name.
// Returns w for chaining.
func (w *Writer) AddPicture(name string, data []byte) *Writer {
	w.pictures[name] = pictureSource{data: data}
	return w
}

// AddPictureFile registers a picture whose bytes are read from path
// when the container is written, replacing any prior source with the
// same name. A missing or unreadable file surfaces from WriteTo, not
// here. Returns w for chaining.
func (w *Writer) AddPictureFile(name, path string) *Writer {
	w.pictures[name] = pictureSource{path: path}
	return w
}

// WriteTo writes the container to dst and returns the number of bytes
// written.
//
// All picture names are validated before any output is produced, so an
// ErrInvalidFilename never leaves partial data behind.
func (w *Writer) WriteTo(dst io.Writer) (int64, error) {
	for name := range w.pictures {
		if name == "" || strings.ContainsAny(name, `/\`) {
			return 0, fmt.Errorf("%w: %q", ErrInvalidFilename, name)
		}
	}

	cw := &countingWriter{w: dst}
	if err := w.writePictures(cw); err != nil {
		return cw.n, err
	}
	picturesSize := cw.n

	// The points archive is framed in memory first; its bytes are
	// appended verbatim after the pictures archive.
	var points bytes.Buffer
	if err := w.writePoints(&points); err != nil {
		return cw.n, err
	}
	if _, err := cw.Write(points.Bytes()); err != nil {
		return cw.n, err
	}

	w.log().Debug("wrote container",
		"pictures", len(w.pictures), "picturesBytes", picturesSize, "pointsBytes", points.Len())
	return cw.n, nil
}

func (w *Writer) writePictures(dst io.Writer) error {
	zw := zip.NewWriter(dst)
	for _, name := range slices.Sorted(maps.Keys(w.pictures)) {
		sink, err := zw.CreateHeader(&zip.FileHeader{
			Name:     picsPrefix + name,
			Method:   zip.Deflate,
			Modified: w.modTime,
		})
		if err != nil {
			return fmt.Errorf("cupx: create picture %q: %w", name, err)
		}
		if err := w.copyPicture(sink, w.pictures[name]); err != nil {
			return fmt.Errorf("cupx: write picture %q: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("cupx: finish pictures archive: %w", err)
	}
	return nil
}

func (w *Writer) copyPicture(sink io.Writer, src pictureSource) error {
	if src.data != nil {
		_, err := sink.Write(src.data)
		return err
	}
	f, err := os.Open(src.path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(sink, f)
	return err
}

func (w *Writer) writePoints(dst io.Writer) error {
	zw := zip.NewWriter(dst)
	sink, err := zw.CreateHeader(&zip.FileHeader{
		Name:     pointsName,
		Method:   zip.Deflate,
		Modified: w.modTime,
	})
	if err != nil {
		return fmt.Errorf("cupx: create %s: %w", pointsName, err)
	}
	if err := w.cupFile.Encode(sink); err != nil {
		return fmt.Errorf("cupx: encode %s: %w", pointsName, err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("cupx: finish points archive: %w", err)
	}
	return nil
}

// Bytes writes the container to an in-memory buffer.
func (w *Writer) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile writes the container to a file at path.
func (w *Writer) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := w.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
