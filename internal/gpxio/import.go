package gpxio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/tkrajina/gpxgo/gpx"

	"github.com/briangreenhill/mapty/internal/workout"
)

var ErrNoTrackPoints = errors.New("gpx file has no track points")

// Track is what a recorded GPX track says about a workout.
type Track struct {
	Name  string
	Start workout.Coords
	Time  *time.Time
	// Distance is in km, Duration in minutes and ElevationGain in meters.
	Distance      float64
	Duration      float64
	ElevationGain float64
}

func ReadFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error reading gpx file: %w", err)
	}

	if info.IsDir() {
		return nil, fmt.Errorf("gpx file is a directory")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(file)
}

// ParseTrack summarises the tracks in data. Distance and duration count only
// the time spent moving; a track with no movement falls back to its full
// length and time span.
func ParseTrack(data []byte) (Track, error) {
	g, err := gpx.ParseBytes(data)
	if err != nil {
		return Track{}, err
	}

	start, ok := firstPoint(g)
	if !ok {
		return Track{}, ErrNoTrackPoints
	}

	moving := g.MovingData()
	t := Track{
		Name:          g.Name,
		Start:         workout.Coords{start.Latitude, start.Longitude},
		Time:          g.Time,
		Distance:      moving.MovingDistance / 1000.0,
		Duration:      moving.MovingTime / 60,
		ElevationGain: g.UphillDownhill().Uphill,
	}
	if t.Distance == 0 || t.Duration == 0 {
		t.Distance = g.Length2D() / 1000.0
		t.Duration = g.Duration() / 60
	}
	if t.Time == nil && !start.Timestamp.IsZero() {
		ts := start.Timestamp
		t.Time = &ts
	}
	return t, nil
}

func firstPoint(g *gpx.GPX) (gpx.GPXPoint, bool) {
	for _, track := range g.Tracks {
		for _, segment := range track.Segments {
			if len(segment.Points) > 0 {
				return segment.Points[0], true
			}
		}
	}
	return gpx.GPXPoint{}, false
}
