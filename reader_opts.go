package cupx

import (
	"log/slog"

	"github.com/meigma/cupx/cup"
)

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithEncoding sets the text encoding of the POINTS.CUP entry,
// bypassing automatic detection.
func WithEncoding(enc cup.Encoding) ReaderOption {
	return func(r *Reader) {
		r.encoding = enc
	}
}

// WithLogger sets the logger used while opening the container.
// If not set, logging is discarded.
func WithLogger(logger *slog.Logger) ReaderOption {
	return func(r *Reader) {
		r.logger = logger
	}
}
