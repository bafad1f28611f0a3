package cup

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// parseLatitude parses "DDMM.mmmH" (H = N or S) into decimal degrees.
func parseLatitude(s string) (float64, error) {
	v, hemi, err := parseAngle(s)
	if err != nil {
		return 0, fmt.Errorf("latitude %q: %w", s, err)
	}
	switch hemi {
	case 'N':
	case 'S':
		v = -v
	default:
		return 0, fmt.Errorf("latitude %q: bad hemisphere %q", s, string(hemi))
	}
	if v < -90 || v > 90 {
		return 0, fmt.Errorf("latitude %q: out of range", s)
	}
	return v, nil
}

// parseLongitude parses "DDDMM.mmmH" (H = E or W) into decimal degrees.
func parseLongitude(s string) (float64, error) {
	v, hemi, err := parseAngle(s)
	if err != nil {
		return 0, fmt.Errorf("longitude %q: %w", s, err)
	}
	switch hemi {
	case 'E':
	case 'W':
		v = -v
	default:
		return 0, fmt.Errorf("longitude %q: bad hemisphere %q", s, string(hemi))
	}
	if v < -180 || v > 180 {
		return 0, fmt.Errorf("longitude %q: out of range", s)
	}
	return v, nil
}

// parseAngle splits a CUP coordinate into decimal degrees and its
// hemisphere letter. The numeric part is degrees*100 + minutes.
func parseAngle(s string) (float64, byte, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return 0, 0, fmt.Errorf("too short")
	}
	hemi := s[len(s)-1]
	raw, err := strconv.ParseFloat(s[:len(s)-1], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("not a number")
	}
	deg := math.Floor(raw / 100)
	minutes := raw - deg*100
	if minutes >= 60 {
		return 0, 0, fmt.Errorf("minutes out of range")
	}
	return deg + minutes/60, hemi, nil
}

// parseElevation parses a value with an "m" or "ft" suffix. An empty
// field is a valid absent elevation.
func parseElevation(s string) (Elevation, error) {
	v, unit, err := parseMeasure(s)
	if err != nil {
		return Elevation{}, fmt.Errorf("elevation %q: %w", s, err)
	}
	switch unit {
	case UnitNone, UnitMeters, UnitFeet:
		return Elevation{Value: v, Unit: unit}, nil
	default:
		return Elevation{}, fmt.Errorf("elevation %q: bad unit", s)
	}
}

// parseDistance parses a runway length or width with an "m", "ft",
// "nm" or "ml" suffix. An empty field is a valid absent distance.
func parseDistance(s string) (Distance, error) {
	v, unit, err := parseMeasure(s)
	if err != nil {
		return Distance{}, fmt.Errorf("distance %q: %w", s, err)
	}
	return Distance{Value: v, Unit: unit}, nil
}

func parseMeasure(s string) (float64, Unit, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, UnitNone, nil
	}
	unit := UnitNone
	lower := strings.ToLower(s)
	switch {
	case strings.HasSuffix(lower, "ft"):
		unit, s = UnitFeet, s[:len(s)-2]
	case strings.HasSuffix(lower, "nm"):
		unit, s = UnitNauticalMiles, s[:len(s)-2]
	case strings.HasSuffix(lower, "ml"):
		unit, s = UnitStatuteMiles, s[:len(s)-2]
	case strings.HasSuffix(lower, "m"):
		unit, s = UnitMeters, s[:len(s)-1]
	default:
		return 0, UnitNone, fmt.Errorf("missing unit")
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, UnitNone, fmt.Errorf("not a number")
	}
	return v, unit, nil
}

// parseStyle parses the numeric style code. Codes beyond the known
// range map to StyleUnknown without an error so newer files stay
// readable.
func parseStyle(s string) (Style, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return StyleUnknown, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return StyleUnknown, fmt.Errorf("style %q: not a number", s)
	}
	if n > int(maxStyle) {
		return StyleUnknown, nil
	}
	return Style(n), nil
}
