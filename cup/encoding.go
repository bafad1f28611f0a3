package cup

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Encoding selects how CUP bytes are decoded to text.
type Encoding uint8

const (
	// EncodingAuto detects the encoding from a byte-order mark, falls
	// back to UTF-8 when the input is valid UTF-8, and to Windows-1252
	// otherwise.
	EncodingAuto Encoding = iota
	EncodingUTF8
	EncodingWindows1252
	EncodingUTF16LE
	EncodingUTF16BE
)

var (
	bomUTF8    = []byte{0xef, 0xbb, 0xbf}
	bomUTF16LE = []byte{0xff, 0xfe}
	bomUTF16BE = []byte{0xfe, 0xff}
)

// decodeText converts raw CUP bytes to a UTF-8 string per the
// requested encoding.
func decodeText(data []byte, enc Encoding) (string, error) {
	if enc == EncodingAuto {
		enc = detectEncoding(data)
	}

	switch enc {
	case EncodingUTF8:
		return string(bytes.TrimPrefix(data, bomUTF8)), nil
	case EncodingWindows1252:
		out, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("decode windows-1252: %w", err)
		}
		return string(out), nil
	case EncodingUTF16LE:
		dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		out, err := dec.Bytes(data)
		if err != nil {
			return "", fmt.Errorf("decode utf-16le: %w", err)
		}
		return string(out), nil
	case EncodingUTF16BE:
		dec := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
		out, err := dec.Bytes(data)
		if err != nil {
			return "", fmt.Errorf("decode utf-16be: %w", err)
		}
		return string(out), nil
	default:
		return "", fmt.Errorf("unknown encoding %d", enc)
	}
}

func detectEncoding(data []byte) Encoding {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return EncodingUTF8
	case bytes.HasPrefix(data, bomUTF16LE):
		return EncodingUTF16LE
	case bytes.HasPrefix(data, bomUTF16BE):
		return EncodingUTF16BE
	case utf8.Valid(data):
		return EncodingUTF8
	default:
		// Legacy files from Windows tooling.
		return EncodingWindows1252
	}
}
