package cup

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// encodeColumns is the column layout Encode emits. It is the full
// modern layout; absent values encode as empty fields.
var encodeColumns = []string{
	"name", "code", "country", "lat", "lon", "elev",
	"style", "rwdir", "rwlen", "rwwidth", "freq", "desc", "userdata", "pics",
}

// Encode writes the file in CUP format. Output is UTF-8 with CRLF
// line endings.
func (f *File) Encode(w io.Writer) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(encodeColumns); err != nil {
		return fmt.Errorf("cup: write header: %w", err)
	}
	for i := range f.Waypoints {
		if err := cw.Write(waypointRecord(&f.Waypoints[i])); err != nil {
			return fmt.Errorf("cup: write waypoint: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("cup: write: %w", err)
	}

	if len(f.Tasks) == 0 {
		return nil
	}
	if _, err := io.WriteString(w, taskSeparator+"\r\n"); err != nil {
		return fmt.Errorf("cup: write task separator: %w", err)
	}
	for _, task := range f.Tasks {
		record := append([]string{task.Description}, task.Waypoints...)
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("cup: write task: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("cup: write: %w", err)
	}
	return nil
}

func waypointRecord(wp *Waypoint) []string {
	rwdir := ""
	if wp.RunwayDirection >= 0 {
		rwdir = strconv.Itoa(wp.RunwayDirection)
	}
	return []string{
		wp.Name,
		wp.Code,
		wp.Country,
		formatAngle(wp.Latitude, 2, 'N', 'S'),
		formatAngle(wp.Longitude, 3, 'E', 'W'),
		formatMeasure(wp.Elevation.Value, wp.Elevation.Unit),
		strconv.Itoa(int(wp.Style)),
		rwdir,
		formatMeasure(wp.RunwayLength.Value, wp.RunwayLength.Unit),
		formatMeasure(wp.RunwayWidth.Value, wp.RunwayWidth.Unit),
		wp.Frequency,
		wp.Description,
		wp.Userdata,
		strings.Join(wp.Pictures, ";"),
	}
}

// formatAngle renders decimal degrees as CUP degrees-and-minutes with
// the hemisphere letter, e.g. 51.1305 -> "5107.830N".
func formatAngle(v float64, degDigits int, pos, neg byte) string {
	hemi := pos
	if v < 0 {
		hemi = neg
		v = -v
	}
	deg := math.Floor(v)
	minutes := (v - deg) * 60
	// Rounding minutes to three decimals can carry into the degrees.
	if minutes >= 59.9995 {
		deg++
		minutes = 0
	}
	return fmt.Sprintf("%0*d%06.3f%c", degDigits, int(deg), minutes, hemi)
}

func formatMeasure(v float64, unit Unit) string {
	if unit == UnitNone {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 1, 64) + unit.String()
}
