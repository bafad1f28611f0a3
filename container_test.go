package cupx

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/cupx/cup"
)

// buildZip assembles a standalone ZIP archive for hand-built containers.
func buildZip(t *testing.T, entries ...[2]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		f, err := zw.Create(e[0])
		require.NoError(t, err)
		_, err = io.WriteString(f, e[1])
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func readAllPicture(t *testing.T, r *Reader, name string) []byte {
	t.Helper()

	pic, err := r.ReadPicture(name)
	require.NoError(t, err)
	data, err := io.ReadAll(pic)
	require.NoError(t, err)
	require.NoError(t, pic.Close())
	return data
}

func testCupFile() *cup.File {
	return &cup.File{
		Waypoints: []cup.Waypoint{
			{
				Name:            "Aachen Merzbruck",
				Code:            "AACHE",
				Country:         "DE",
				Latitude:        50.0 + 49.383/60,
				Longitude:       6.0 + 11.183/60,
				Elevation:       cup.Meters(189.0),
				Style:           cup.StylePavedAirfield,
				RunwayDirection: 250,
				Frequency:       "122.875",
			},
			{
				Name:            "Plain point",
				Country:         "AT",
				Latitude:        47.5,
				Longitude:       11.25,
				Style:           cup.StyleWaypoint,
				RunwayDirection: -1,
			},
		},
		Tasks: []cup.Task{
			{Description: "Out and return", Waypoints: []string{"Aachen Merzbruck", "Plain point"}},
		},
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	pictureA := []byte("first picture bytes")
	pictureB := []byte("second picture bytes")

	data, err := NewWriter(testCupFile()).
		AddPicture("airport.jpg", pictureA).
		AddPicture("tower.png", pictureB).
		Bytes()
	require.NoError(t, err)

	r, warnings, err := NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Empty(t, warnings)

	require.Len(t, r.Waypoints(), 2)
	assert.Equal(t, "Aachen Merzbruck", r.Waypoints()[0].Name)
	assert.InDelta(t, 50.0+49.383/60, r.Waypoints()[0].Latitude, 1e-5)
	require.Len(t, r.Tasks(), 1)
	assert.Equal(t, "Out and return", r.Tasks()[0].Description)

	names := slices.Sorted(r.PictureNames())
	assert.Equal(t, []string{"airport.jpg", "tower.png"}, names)
	assert.Equal(t, pictureA, readAllPicture(t, r, "airport.jpg"))
	assert.Equal(t, pictureB, readAllPicture(t, r, "tower.png"))
}

// Writing with no pictures still emits a valid empty pictures archive,
// so the reader finds two archives and reports no warning.
func TestRoundTripNoPictures(t *testing.T) {
	t.Parallel()

	data, err := NewWriter(testCupFile()).Bytes()
	require.NoError(t, err)

	r, warnings, err := NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, r.Waypoints(), 2)

	assert.Empty(t, slices.Collect(r.PictureNames()))
	_, err = r.ReadPicture("any.jpg")
	assert.ErrorIs(t, err, ErrPictureNotFound)
}

// A single-archive container (produced by other tools) degrades to a
// warning and an empty picture set, never an error.
func TestSingleArchiveWarns(t *testing.T) {
	t.Parallel()

	var points bytes.Buffer
	require.NoError(t, testCupFile().Encode(&points))
	data := buildZip(t, [2]string{"POINTS.CUP", points.String()})

	r, warnings, err := NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, WarningNoPicturesArchive, warnings[0].Kind)
	assert.Zero(t, warnings[0].Line)

	require.Len(t, r.Waypoints(), 2)
	assert.Empty(t, slices.Collect(r.PictureNames()))
}

// A points archive larger than the backward-search chunk must not be
// misread as a container without pictures.
func TestLargePointsArchive(t *testing.T) {
	t.Parallel()

	cupFile := &cup.File{}
	for i := range 2000 {
		cupFile.Waypoints = append(cupFile.Waypoints, variedWaypoint(i))
	}

	data, err := NewWriter(cupFile).
		AddPicture("test.jpg", []byte("small test image data")).
		Bytes()
	require.NoError(t, err)
	require.Greater(t, len(data), 65557, "points archive too small to exercise the chunked search")

	r, warnings, err := NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Len(t, r.Waypoints(), 2000)

	names := slices.Collect(r.PictureNames())
	assert.Equal(t, []string{"test.jpg"}, names)
	assert.Equal(t, []byte("small test image data"), readAllPicture(t, r, "test.jpg"))
}

// variedWaypoint generates description text that resists compression so
// the points archive grows past the scan chunk size.
func variedWaypoint(i int) cup.Waypoint {
	seed := uint64(i) * 2654435761
	return cup.Waypoint{
		Name:            fmt.Sprintf("Waypoint%05d", i),
		Code:            fmt.Sprintf("WP%04d", i%10000),
		Country:         string([]byte{byte('A' + i%26), byte('A' + (i/26)%26)}),
		Latitude:        -89.0 + float64(i%178) + float64(i%997)/1000,
		Longitude:       -179.0 + float64(i%358) + float64(i%499)/1000,
		Elevation:       cup.Meters(float64(i % 3000)),
		Style:           cup.StyleWaypoint,
		RunwayDirection: -1,
		Description: fmt.Sprintf(
			"Waypoint number %05d with unique id %d; filler %08x %08x %08x %08x; noise %d %d %d",
			i, i*12345, seed, seed+1, seed+2, seed+3,
			seed*48271%100000, seed*69621%100000, seed*40014%100000),
	}
}

// An unrelated archive prepended before the two meaningful ones is
// silently excluded: no error, no warning.
func TestExtraLeadingArchiveIgnored(t *testing.T) {
	t.Parallel()

	extra := buildZip(t, [2]string{"extra/data.txt", "extra data"})
	pics := buildZip(t, [2]string{"pics/test.jpg", "fake image data"})
	points := buildZip(t, [2]string{"POINTS.CUP", "name,code,country,lat,lon,elev,style,rwdir,rwlen,freq,desc\r\n"})

	data := slices.Concat(extra, pics, points)

	r, warnings, err := NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Empty(t, r.Waypoints())

	assert.Equal(t, []string{"test.jpg"}, slices.Collect(r.PictureNames()))
	assert.Equal(t, []byte("fake image data"), readAllPicture(t, r, "test.jpg"))
}

func TestCupParseIssuesBecomeWarnings(t *testing.T) {
	t.Parallel()

	content := "name,code,country,lat,lon,elev,style,rwdir,rwlen,freq,desc\r\n" +
		"\"Good\",GD,DE,5049.383N,00611.183E,189.0m,1,,,,\r\n" +
		"\"Bad\",BD,DE,brokenlat,00611.183E,189.0m,1,,,,\r\n"
	pics := buildZip(t, [2]string{"pics/a.jpg", "img"})
	points := buildZip(t, [2]string{"POINTS.CUP", content})
	data := slices.Concat(pics, points)

	r, warnings, err := NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, WarningCupParseIssue, warnings[0].Kind)
	assert.Equal(t, 3, warnings[0].Line)
	assert.Len(t, r.Waypoints(), 1)
}

func TestMissingPointsEntryIsFatal(t *testing.T) {
	t.Parallel()

	pics := buildZip(t, [2]string{"pics/a.jpg", "img"})
	points := buildZip(t, [2]string{"NOTPOINTS.TXT", "nothing"})
	data := slices.Concat(pics, points)

	_, _, err := NewReader(bytes.NewReader(data))
	require.Error(t, err)
}

func TestGarbageInput(t *testing.T) {
	t.Parallel()

	_, _, err := NewReader(bytes.NewReader(bytes.Repeat([]byte("x"), 4096)))
	require.ErrorIs(t, err, ErrInvalidContainer)
}
