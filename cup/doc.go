// Package cup reads and writes SeeYou CUP waypoint files.
//
// A CUP file is a CSV-like text file holding waypoints and, after a
// "-----Related Tasks-----" separator, tasks referencing those
// waypoints by name. Parse collects recoverable per-line problems as
// ParseIssue diagnostics instead of failing, so a file with a few bad
// lines still yields every waypoint that could be read.
//
// Input text may be UTF-8, UTF-16 (with BOM) or Windows-1252; the
// encoding is detected automatically unless overridden with
// WithEncoding.
package cup
