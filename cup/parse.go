package cup

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// taskSeparator divides the waypoint section from the task section.
const taskSeparator = "-----Related Tasks-----"

// defaultColumns is the classic CUP column layout, used when a file
// has no header line.
var defaultColumns = []string{
	"name", "code", "country", "lat", "lon", "elev",
	"style", "rwdir", "rwlen", "freq", "desc",
}

// ParseOption configures Parse.
type ParseOption func(*parser)

// WithEncoding overrides automatic text-encoding detection.
func WithEncoding(enc Encoding) ParseOption {
	return func(p *parser) {
		p.encoding = enc
	}
}

type parser struct {
	encoding Encoding
	columns  map[string]int
	file     File
	issues   []ParseIssue
}

// Parse reads a CUP file. Recoverable per-line problems are returned
// as ParseIssue diagnostics; only I/O and encoding failures are fatal.
func Parse(r io.Reader, opts ...ParseOption) (*File, []ParseIssue, error) {
	p := &parser{}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("cup: read: %w", err)
	}
	text, err := decodeText(data, p.encoding)
	if err != nil {
		return nil, nil, fmt.Errorf("cup: %w", err)
	}

	p.run(text)
	return &p.file, p.issues, nil
}

func (p *parser) run(text string) {
	inTasks := false
	sawLine := false

	for i, raw := range strings.Split(text, "\n") {
		lineNo := i + 1
		line := strings.TrimSuffix(raw, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.TrimSpace(line) == taskSeparator {
			inTasks = true
			continue
		}
		if inTasks {
			p.parseTaskLine(line, lineNo)
			continue
		}

		fields, err := splitFields(line)
		if err != nil {
			p.issue(lineNo, err.Error())
			continue
		}
		if !sawLine {
			sawLine = true
			if isHeader(fields) {
				p.setColumns(fields)
				continue
			}
			p.setColumns(defaultColumns)
		}
		p.parseWaypoint(fields, lineNo)
	}
}

// splitFields parses one CSV line. CUP quotes name and description
// fields but leaves the rest bare.
func splitFields(line string) ([]string, error) {
	cr := csv.NewReader(strings.NewReader(line))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	fields, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("malformed line: %v", err)
	}
	return fields, nil
}

func isHeader(fields []string) bool {
	return len(fields) > 0 && strings.EqualFold(strings.TrimSpace(fields[0]), "name")
}

func (p *parser) setColumns(fields []string) {
	p.columns = make(map[string]int, len(fields))
	for i, name := range fields {
		p.columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
}

// field returns the named column's value for the current record, or
// "" when the column is absent from the layout or the record.
func field(columns map[string]int, fields []string, name string) string {
	i, ok := columns[name]
	if !ok || i >= len(fields) {
		return ""
	}
	return fields[i]
}

func (p *parser) parseWaypoint(fields []string, lineNo int) {
	get := func(name string) string { return field(p.columns, fields, name) }

	wp := Waypoint{RunwayDirection: -1}

	wp.Name = strings.TrimSpace(get("name"))
	if wp.Name == "" {
		p.issue(lineNo, "waypoint has no name")
		return
	}

	var err error
	if wp.Latitude, err = parseLatitude(get("lat")); err != nil {
		p.issue(lineNo, err.Error())
		return
	}
	if wp.Longitude, err = parseLongitude(get("lon")); err != nil {
		p.issue(lineNo, err.Error())
		return
	}

	// Failures past this point degrade single fields instead of
	// dropping the waypoint.
	wp.Code = strings.TrimSpace(get("code"))
	wp.Country = strings.TrimSpace(get("country"))
	wp.Frequency = strings.TrimSpace(get("freq"))
	wp.Description = get("desc")
	wp.Userdata = get("userdata")

	if wp.Elevation, err = parseElevation(get("elev")); err != nil {
		p.issue(lineNo, err.Error())
	}
	if wp.Style, err = parseStyle(get("style")); err != nil {
		p.issue(lineNo, err.Error())
	}
	if dir := strings.TrimSpace(get("rwdir")); dir != "" {
		n, err := strconv.Atoi(dir)
		if err != nil || n < 0 || n > 360 {
			p.issue(lineNo, fmt.Sprintf("runway direction %q: invalid", dir))
		} else {
			wp.RunwayDirection = n
		}
	}
	if wp.RunwayLength, err = parseDistance(get("rwlen")); err != nil {
		p.issue(lineNo, err.Error())
	}
	if wp.RunwayWidth, err = parseDistance(get("rwwidth")); err != nil {
		p.issue(lineNo, err.Error())
	}
	if pics := strings.TrimSpace(get("pics")); pics != "" {
		for _, pic := range strings.Split(pics, ";") {
			if pic = strings.TrimSpace(pic); pic != "" {
				wp.Pictures = append(wp.Pictures, pic)
			}
		}
	}

	p.file.Waypoints = append(p.file.Waypoints, wp)
}

func (p *parser) parseTaskLine(line string, lineNo int) {
	// Task option lines refine the preceding task declaration; they
	// carry no waypoint data and are not modeled here.
	if strings.HasPrefix(line, "Options,") || strings.HasPrefix(line, "ObsZone=") {
		return
	}
	fields, err := splitFields(line)
	if err != nil {
		p.issue(lineNo, err.Error())
		return
	}
	if len(fields) < 2 {
		p.issue(lineNo, "task has no waypoints")
		return
	}
	task := Task{Description: fields[0]}
	for _, name := range fields[1:] {
		task.Waypoints = append(task.Waypoints, strings.TrimSpace(name))
	}
	p.file.Tasks = append(p.file.Tasks, task)
}

func (p *parser) issue(line int, msg string) {
	p.issues = append(p.issues, ParseIssue{Line: line, Message: msg})
}
