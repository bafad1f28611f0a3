package cup

import "fmt"

// File is a parsed CUP file: waypoints plus the tasks that reference
// them.
type File struct {
	Waypoints []Waypoint
	Tasks     []Task
}

// Waypoint is a single CUP waypoint record.
type Waypoint struct {
	Name    string
	Code    string
	Country string

	// Latitude and Longitude are decimal degrees, positive north and
	// east.
	Latitude  float64
	Longitude float64

	Elevation Elevation
	Style     Style

	// RunwayDirection is in degrees; -1 when the field is absent.
	RunwayDirection int
	RunwayLength    Distance
	RunwayWidth     Distance

	Frequency   string
	Description string
	Userdata    string

	// Pictures holds picture file names attached to the waypoint.
	Pictures []string
}

// Task is a declared task: an ordered list of waypoint names.
type Task struct {
	Description string
	Waypoints   []string
}

// Unit is the measurement unit of an Elevation or Distance value.
// UnitNone marks an absent value.
type Unit uint8

const (
	UnitNone Unit = iota
	UnitMeters
	UnitFeet
	UnitNauticalMiles
	UnitStatuteMiles
)

// String returns the CUP suffix for the unit.
func (u Unit) String() string {
	switch u {
	case UnitMeters:
		return "m"
	case UnitFeet:
		return "ft"
	case UnitNauticalMiles:
		return "nm"
	case UnitStatuteMiles:
		return "ml"
	default:
		return ""
	}
}

// Elevation is a waypoint elevation. The zero value means "not set".
type Elevation struct {
	Value float64
	Unit  Unit
}

// Meters returns an elevation in meters.
func Meters(v float64) Elevation {
	return Elevation{Value: v, Unit: UnitMeters}
}

// Feet returns an elevation in feet.
func Feet(v float64) Elevation {
	return Elevation{Value: v, Unit: UnitFeet}
}

// Distance is a runway length or width. The zero value means "not set".
type Distance struct {
	Value float64
	Unit  Unit
}

// Style classifies a waypoint, matching the numeric CUP style codes.
type Style uint8

const (
	StyleUnknown Style = iota
	StyleWaypoint
	StyleGrassAirfield
	StyleOutlanding
	StyleGliderSite
	StylePavedAirfield
	StyleMountainPass
	StyleMountainTop
	StyleTransmitterMast
	StyleVOR
	StyleNDB
	StyleCoolingTower
	StyleDam
	StyleTunnel
	StyleBridge
	StylePowerPlant
	StyleCastle
	StyleIntersection
)

// maxStyle is the highest style code understood by this package.
const maxStyle = StyleIntersection

// ParseIssue is a recoverable problem found while parsing. Issues
// never abort a parse; they are collected and returned beside the
// result.
type ParseIssue struct {
	// Line is the 1-based line number the issue refers to, or 0 when
	// it is not tied to a line.
	Line    int
	Message string
}

func (i ParseIssue) String() string {
	if i.Line > 0 {
		return fmt.Sprintf("line %d: %s", i.Line, i.Message)
	}
	return i.Message
}
