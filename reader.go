package cupx

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/meigma/cupx/cup"
	"github.com/meigma/cupx/internal/eocd"
	"github.com/meigma/cupx/internal/stream"
)

const (
	// picsPrefix is the directory all picture entries live under in
	// the pictures archive. Matching is case-insensitive.
	picsPrefix = "pics/"

	// pointsName is the single entry of the points archive.
	pointsName = "POINTS.CUP"
)

// Reader provides access to the waypoint data and pictures of a CUPX
// container.
type Reader struct {
	cupFile *cup.File
	pics    *zip.Reader // nil when the container has no pictures archive
	openPic *pictureReader

	encoding cup.Encoding
	logger   *slog.Logger
}

// log returns the logger, falling back to a discard logger if nil.
func (r *Reader) log() *slog.Logger {
	if r.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.logger
}

// NewReader parses a CUPX container from src.
//
// The returned warnings are non-fatal diagnostics: a missing pictures
// archive and recoverable POINTS.CUP parse issues. They accompany a
// successful parse and never cause an error.
func NewReader(src Source, opts ...ReaderOption) (*Reader, []Warning, error) {
	r := &Reader{}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	boundary, hasPics, err := eocd.Boundary(src, src.Size())
	if err != nil {
		if errors.Is(err, eocd.ErrNoArchive) {
			return nil, nil, ErrInvalidContainer
		}
		return nil, nil, err
	}

	var warnings []Warning
	pointsStart := int64(0)
	if hasPics {
		pointsStart = boundary
	} else {
		warnings = append(warnings, Warning{
			Kind:    WarningNoPicturesArchive,
			Message: "no pictures archive found",
		})
	}
	r.log().Debug("located archive boundary",
		"size", src.Size(), "boundary", pointsStart, "pictures", hasPics)

	// The points archive is read first to bootstrap the waypoint data,
	// then the physical handle is released and rebound to the pictures
	// region.
	points := stream.NewSection(src, pointsStart, stream.Unbounded())
	pointsZip, err := zip.NewReader(points, points.Size())
	if err != nil {
		return nil, nil, fmt.Errorf("cupx: open points archive: %w", err)
	}

	entry, err := pointsZip.Open(pointsName)
	if err != nil {
		return nil, nil, fmt.Errorf("cupx: open %s: %w", pointsName, err)
	}
	cupFile, issues, err := cup.Parse(entry, cup.WithEncoding(r.encoding))
	entry.Close()
	if err != nil {
		return nil, nil, fmt.Errorf("cupx: parse %s: %w", pointsName, err)
	}
	r.cupFile = cupFile
	for _, issue := range issues {
		warnings = append(warnings, Warning{
			Kind:    WarningCupParseIssue,
			Message: issue.Message,
			Line:    issue.Line,
		})
	}

	if hasPics {
		pics := stream.NewSection(points.Release(), 0, stream.BoundAt(boundary))
		picsZip, err := zip.NewReader(pics, pics.Size())
		if err != nil {
			return nil, nil, fmt.Errorf("cupx: open pictures archive: %w", err)
		}
		r.pics = picsZip
	}
	return r, warnings, nil
}

// ReadCloser wraps a Reader with its underlying file handle. Close
// must be called to release it.
type ReadCloser struct {
	Reader
	file *os.File
}

// Close closes the underlying container file.
func (rc *ReadCloser) Close() error {
	if rc.file == nil {
		return nil
	}
	err := rc.file.Close()
	rc.file = nil
	return err
}

// OpenReader opens and parses the CUPX container at path.
func OpenReader(path string, opts ...ReaderOption) (*ReadCloser, []Warning, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	src, err := newFileSource(f)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	r, warnings, err := NewReader(src, opts...)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return &ReadCloser{Reader: *r, file: f}, warnings, nil
}

// CupFile returns the parsed waypoint data.
func (r *Reader) CupFile() *cup.File {
	return r.cupFile
}

// Waypoints returns all waypoints in the container.
func (r *Reader) Waypoints() []cup.Waypoint {
	return r.cupFile.Waypoints
}

// Tasks returns all tasks in the container.
func (r *Reader) Tasks() []cup.Task {
	return r.cupFile.Tasks
}

// PictureNames returns an iterator over the picture names in the
// container, with the "pics/" prefix stripped. The iterator is
// restartable and yields nothing when the container has no pictures
// archive.
func (r *Reader) PictureNames() iter.Seq[string] {
	return func(yield func(string) bool) {
		if r.pics == nil {
			return
		}
		for _, f := range r.pics.File {
			name, ok := stripPicsPrefix(f.Name)
			if !ok {
				continue
			}
			if !yield(name) {
				return
			}
		}
	}
}

// ReadPicture returns a reader over the decompressed content of the
// named picture. The name must not include the "pics/" prefix;
// matching is case-insensitive.
//
// Entry decompression is sequential, so at most one picture is open at
// a time: opening the next picture closes any previously returned
// reader.
func (r *Reader) ReadPicture(name string) (io.ReadCloser, error) {
	if r.pics == nil {
		return nil, fmt.Errorf("%w: %q", ErrPictureNotFound, name)
	}
	if r.openPic != nil {
		r.openPic.Close()
	}
	for _, f := range r.pics.File {
		stripped, ok := stripPicsPrefix(f.Name)
		if !ok || !strings.EqualFold(stripped, name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("cupx: open picture %q: %w", name, err)
		}
		pr := &pictureReader{ReadCloser: rc, owner: r}
		r.openPic = pr
		return pr, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrPictureNotFound, name)
}

func stripPicsPrefix(name string) (string, bool) {
	if len(name) < len(picsPrefix) || !strings.EqualFold(name[:len(picsPrefix)], picsPrefix) {
		return "", false
	}
	return name[len(picsPrefix):], true
}

// pictureReader tracks the single open picture entry so the Reader can
// release it before opening the next one.
type pictureReader struct {
	io.ReadCloser
	owner  *Reader
	closed bool
}

func (p *pictureReader) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	if p.owner.openPic == p {
		p.owner.openPic = nil
	}
	return p.ReadCloser.Close()
}
