// Package eocd locates the boundary between two concatenated ZIP
// archives by scanning for end-of-central-directory records.
package eocd

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// signature is the EOCD marker 0x06054b50 in file byte order.
var signature = []byte{0x50, 0x4b, 0x05, 0x06}

const (
	sigLen = 4

	// recordSize is the fixed portion of an EOCD record. A trailing
	// comment of up to 65535 bytes may follow it.
	recordSize = 22

	// commentLenOff is the offset of the little-endian comment-length
	// field within the record.
	commentLenOff = 20

	// chunkSize is the backward scan granularity. It must comfortably
	// exceed recordSize plus a typical comment so the trailing
	// archive's central directory can span multiple chunks without
	// the scan giving up early.
	chunkSize = 64 * 1024
)

// ErrNoArchive reports that the source contains no EOCD record at all.
var ErrNoArchive = errors.New("eocd: no end of central directory record")

// Boundary reports the byte offset separating two concatenated ZIP
// archives in src: the first byte past the leading archive's EOCD
// record, comment included. ok is false when only one archive is
// present, in which case that archive spans the whole source.
//
// Signature bytes can legally occur inside compressed data or archive
// comments, so only the last two occurrences scanning backward from
// the end are trusted. A consequence is that any extra archive
// prepended before the two meaningful ones is silently excluded.
func Boundary(src io.ReaderAt, size int64) (boundary int64, ok bool, err error) {
	last, secondLast, err := findLastTwo(src, size)
	if err != nil {
		return 0, false, err
	}
	if last < 0 {
		return 0, false, ErrNoArchive
	}
	if secondLast < 0 {
		return 0, false, nil
	}

	var field [2]byte
	if _, err := src.ReadAt(field[:], secondLast+commentLenOff); err != nil {
		return 0, false, fmt.Errorf("eocd: read comment length at %d: %w", secondLast, err)
	}
	commentLen := int64(binary.LittleEndian.Uint16(field[:]))
	return secondLast + recordSize + commentLen, true, nil
}

// findLastTwo scans backward in chunks for the two highest signature
// offsets. Each chunk is extended with the first sigLen-1 bytes of the
// previously scanned (higher) chunk so a signature straddling a chunk
// edge is still seen; occurrences starting inside that carry were
// already counted by the previous chunk and are skipped.
func findLastTwo(src io.ReaderAt, size int64) (last, secondLast int64, err error) {
	last, secondLast = -1, -1

	buf := make([]byte, chunkSize+sigLen-1)
	var carry [sigLen - 1]byte
	carryLen := 0

	searchEnd := size
	for secondLast < 0 && searchEnd > 0 {
		n := min(int64(chunkSize), searchEnd)
		start := searchEnd - n

		if _, err := src.ReadAt(buf[:n], start); err != nil {
			return -1, -1, fmt.Errorf("eocd: read chunk at %d: %w", start, err)
		}
		window := buf[:n+int64(copy(buf[n:], carry[:carryLen]))]

		// Forward scan within the chunk: later hits are higher, so the
		// final pair is the chunk's last and second-to-last occurrence.
		chunkLast, chunkSecond := int64(-1), int64(-1)
		for off := 0; ; {
			i := bytes.Index(window[off:], signature)
			if i < 0 {
				break
			}
			p := off + i
			if int64(p) < n {
				chunkSecond = chunkLast
				chunkLast = start + int64(p)
			}
			off = p + 1
		}

		switch {
		case last < 0:
			last, secondLast = chunkLast, chunkSecond
		case chunkLast >= 0:
			secondLast = chunkLast
		}

		carryLen = copy(carry[:], buf[:min(n, sigLen-1)])
		searchEnd = start
	}
	return last, secondLast, nil
}
