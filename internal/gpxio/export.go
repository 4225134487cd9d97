// Package gpxio moves workouts in and out of GPX files.
package gpxio

import (
	"io"
	"strings"

	"github.com/tkrajina/gpxgo/gpx"

	"github.com/briangreenhill/mapty/internal/render"
	"github.com/briangreenhill/mapty/internal/workout"
)

// Document returns a GPX document with one waypoint per workout.
func Document(workouts []workout.Workout) *gpx.GPX {
	g := &gpx.GPX{
		Version: "1.1",
		Creator: "mapty",
		Name:    "Workouts",
	}
	for _, w := range workouts {
		b := w.Common()
		g.Waypoints = append(g.Waypoints, gpx.GPXPoint{
			Point: gpx.Point{
				Latitude:  b.Coords.Lat(),
				Longitude: b.Coords.Lng(),
			},
			Timestamp:   b.Date,
			Name:        b.Description,
			Comment:     b.ID,
			Description: Summary(w),
			Type:        string(w.Kind()),
		})
	}
	return g
}

func Write(w io.Writer, workouts []workout.Workout) error {
	data, err := Document(workouts).ToXml(gpx.ToXmlParams{Version: "1.1", Indent: true})
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Summary joins the displayed metrics of w, e.g. "5 km, 25 min, 5.0 min/km, 180 spm".
func Summary(w workout.Workout) string {
	details := render.Details(w)
	parts := make([]string, len(details))
	for i, d := range details {
		parts[i] = d.Value + " " + d.Unit
	}
	return strings.Join(parts, ", ")
}
