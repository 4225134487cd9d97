// Package render turns workouts into list markup and map markers.
package render

import (
	"bytes"
	"html/template"
	"strconv"

	"github.com/briangreenhill/mapty/internal/mapview"
	"github.com/briangreenhill/mapty/internal/workout"
)

var icons = map[workout.Kind]string{
	workout.KindRunning: "👟",
	workout.KindCycling: "🚵",
}

const (
	iconDuration  = "⌛"
	iconMetric    = "⚡️"
	iconCadence   = "🦶🏼"
	iconElevation = "⛰"
)

var itemTmpl = template.Must(template.New("item").Parse(`<li class="workout workout--{{.Kind}}" data-id="{{.ID}}">
  <div class="workout__header">
    <h2 class="workout__title">{{.Description}}</h2>
    <button class="workout__delete">×</button>
  </div>
  {{- range .Details}}
  <div class="workout__details">
    <span class="workout__icon">{{.Icon}}</span>
    <span class="workout__value">{{.Value}}</span>
    <span class="workout__unit">{{.Unit}}</span>
  </div>
  {{- end}}
</li>
`))

type Detail struct {
	Icon  string
	Value string
	Unit  string
}

type itemView struct {
	ID          string
	Kind        workout.Kind
	Description string
	Details     []Detail
}

// Details lists the values shown for w in display order: distance,
// duration, then pace and cadence or speed and elevation gain.
func Details(w workout.Workout) []Detail {
	b := w.Common()
	details := []Detail{
		{icons[w.Kind()], number(b.Distance), "km"},
		{iconDuration, number(b.Duration), "min"},
	}
	switch v := w.(type) {
	case *workout.Running:
		details = append(details,
			Detail{iconMetric, oneDecimal(v.Pace), "min/km"},
			Detail{iconCadence, number(v.Cadence), "spm"},
		)
	case *workout.Cycling:
		details = append(details,
			Detail{iconMetric, oneDecimal(v.Speed), "km/h"},
			Detail{iconElevation, number(v.ElevationGain), "m"},
		)
	}
	return details
}

// Item renders the list entry for w.
func Item(w workout.Workout) (template.HTML, error) {
	b := w.Common()
	var buf bytes.Buffer
	err := itemTmpl.Execute(&buf, itemView{
		ID:          b.ID,
		Kind:        w.Kind(),
		Description: b.Description,
		Details:     Details(w),
	})
	if err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// Marker describes the pin for w: a popup holding the description, styled
// per type, left open and not closed by other popups or map clicks.
func Marker(w workout.Workout) mapview.MarkerSpec {
	b := w.Common()
	return mapview.MarkerSpec{
		Coords:  b.Coords,
		Content: b.Description,
		Open:    true,
		Popup: mapview.PopupOptions{
			MaxWidth:     250,
			MinWidth:     100,
			AutoClose:    false,
			CloseOnClick: false,
			ClassName:    string(w.Kind()) + "-popup",
		},
	}
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func oneDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
