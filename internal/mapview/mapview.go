// Package mapview adapts an interactive map widget and a geolocation source
// to the operations the tracker needs: load, markers, pan.
package mapview

import (
	"context"
	"errors"
	"fmt"

	"github.com/briangreenhill/mapty/internal/workout"
)

const DefaultZoom = 13

var ErrPositionUnavailable = errors.New("position unavailable")

// Locator is a one-shot geolocation source.
type Locator interface {
	Locate(ctx context.Context) (workout.Coords, error)
}

// StaticLocator always answers with Position, or ErrPositionUnavailable
// when it is nil.
type StaticLocator struct {
	Position *workout.Coords
}

func (l StaticLocator) Locate(ctx context.Context) (workout.Coords, error) {
	if err := ctx.Err(); err != nil {
		return workout.Coords{}, err
	}
	if l.Position == nil {
		return workout.Coords{}, ErrPositionUnavailable
	}
	return *l.Position, nil
}

type TileLayer struct {
	URL         string `json:"url"`
	Attribution string `json:"attribution"`
}

type ViewOptions struct {
	Animate bool `json:"animate"`
	// PanDuration is in seconds.
	PanDuration float64 `json:"pan_duration"`
}

type PopupOptions struct {
	MaxWidth     int    `json:"max_width"`
	MinWidth     int    `json:"min_width"`
	AutoClose    bool   `json:"auto_close"`
	CloseOnClick bool   `json:"close_on_click"`
	ClassName    string `json:"class_name"`
}

type MarkerSpec struct {
	Coords  workout.Coords `json:"coords"`
	Popup   PopupOptions   `json:"popup"`
	Content string         `json:"content"`
	Open    bool           `json:"open"`
}

// Marker is an opaque handle returned by Widget.AddMarker.
type Marker int64

// Widget is the interactive map library.
type Widget interface {
	SetView(center workout.Coords, zoom int, opts ViewOptions)
	AddTileLayer(layer TileLayer)
	AddMarker(spec MarkerSpec) Marker
	RemoveMarker(m Marker)
	OnClick(fn func(workout.Coords))
}

type Options struct {
	Zoom  int
	Tiles TileLayer
}

func DefaultOptions() Options {
	return Options{
		Zoom: DefaultZoom,
		Tiles: TileLayer{
			URL:         "https://{s}.tile.openstreetmap.fr/hot/{z}/{x}/{y}.png",
			Attribution: `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`,
		},
	}
}

// Map is a loaded widget centered on the user's position.
type Map struct {
	widget Widget
	zoom   int
}

// Load asks loc for the current position once and, on success, centers w on
// it, adds the tile layer and routes map clicks to onClick. On failure the
// widget is left untouched.
func Load(ctx context.Context, loc Locator, w Widget, opts Options, onClick func(workout.Coords)) (*Map, error) {
	pos, err := loc.Locate(ctx)
	if err != nil {
		return nil, fmt.Errorf("locate: %w", err)
	}
	if opts.Zoom == 0 {
		opts.Zoom = DefaultZoom
	}

	w.SetView(pos, opts.Zoom, ViewOptions{})
	w.AddTileLayer(opts.Tiles)
	if onClick != nil {
		w.OnClick(onClick)
	}
	return &Map{widget: w, zoom: opts.Zoom}, nil
}

func (m *Map) Zoom() int { return m.zoom }

func (m *Map) AddMarker(spec MarkerSpec) Marker {
	return m.widget.AddMarker(spec)
}

func (m *Map) RemoveMarker(marker Marker) {
	m.widget.RemoveMarker(marker)
}

// PanTo recenters the view on c with a one second pan animation.
func (m *Map) PanTo(c workout.Coords) {
	m.widget.SetView(c, m.zoom, ViewOptions{Animate: true, PanDuration: 1})
}
