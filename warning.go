package cupx

import "fmt"

// WarningKind identifies the category of a Warning.
type WarningKind uint8

const (
	// WarningNoPicturesArchive reports that the container holds a
	// single archive; the picture set is empty.
	WarningNoPicturesArchive WarningKind = iota + 1

	// WarningCupParseIssue reports a recoverable problem on one line
	// of the POINTS.CUP entry.
	WarningCupParseIssue
)

// Warning is a non-fatal diagnostic collected while opening a
// container. Warnings never abort a parse; they are returned in order
// beside the Reader.
type Warning struct {
	Kind    WarningKind
	Message string

	// Line is the 1-based POINTS.CUP line the warning refers to, or 0
	// when it does not apply.
	Line int
}

func (w Warning) String() string {
	if w.Line > 0 {
		return fmt.Sprintf("%s (line %d)", w.Message, w.Line)
	}
	return w.Message
}
