package cupx

import (
	"log/slog"
	"time"
)

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WriteWithModTime sets the modification time recorded on archive
// entries. If not set, entries carry the zero time, keeping output
// byte-for-byte reproducible across runs.
func WriteWithModTime(t time.Time) WriterOption {
	return func(w *Writer) {
		w.modTime = t
	}
}

// WriteWithLogger sets the logger used while writing the container.
// If not set, logging is discarded.
func WriteWithLogger(logger *slog.Logger) WriterOption {
	return func(w *Writer) {
		w.logger = logger
	}
}
