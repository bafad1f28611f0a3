package cupx

import "errors"

// Sentinel errors for container operations. I/O errors, ZIP structure
// errors and fatal CUP errors propagate wrapped from the underlying
// layers instead.
var (
	// ErrInvalidContainer is returned when the input holds no ZIP
	// end-of-central-directory record at all and therefore cannot be
	// a CUPX container.
	ErrInvalidContainer = errors.New("cupx: not a CUPX container")

	// ErrInvalidFilename is returned when a picture name is empty or
	// contains a path separator.
	ErrInvalidFilename = errors.New("cupx: invalid picture filename")

	// ErrPictureNotFound is returned when a picture lookup fails,
	// including when the container has no pictures archive.
	ErrPictureNotFound = errors.New("cupx: picture not found")
)
