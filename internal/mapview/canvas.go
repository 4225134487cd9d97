package mapview

import (
	"slices"
	"sort"
	"sync"

	"github.com/briangreenhill/mapty/internal/workout"
)

// Canvas is an in-process Widget. It keeps the view, layers and markers a
// browser map would show so they can be served as JSON or inspected.
type Canvas struct {
	mu       sync.Mutex
	loaded   bool
	center   workout.Coords
	zoom     int
	view     ViewOptions
	tiles    []TileLayer
	markers  map[Marker]MarkerSpec
	next     Marker
	handlers []func(workout.Coords)
}

func NewCanvas() *Canvas {
	return &Canvas{markers: map[Marker]MarkerSpec{}}
}

type PlacedMarker struct {
	ID Marker `json:"id"`
	MarkerSpec
}

type Snapshot struct {
	Loaded  bool           `json:"loaded"`
	Center  workout.Coords `json:"center"`
	Zoom    int            `json:"zoom"`
	View    ViewOptions    `json:"view"`
	Tiles   []TileLayer    `json:"tiles"`
	Markers []PlacedMarker `json:"markers"`
}

func (c *Canvas) SetView(center workout.Coords, zoom int, opts ViewOptions) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = true
	c.center = center
	c.zoom = zoom
	c.view = opts
}

func (c *Canvas) AddTileLayer(layer TileLayer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tiles = append(c.tiles, layer)
}

func (c *Canvas) AddMarker(spec MarkerSpec) Marker {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next++
	c.markers[c.next] = spec
	return c.next
}

func (c *Canvas) RemoveMarker(m Marker) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.markers, m)
}

func (c *Canvas) OnClick(fn func(workout.Coords)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, fn)
}

// Click delivers a map click to every registered listener.
func (c *Canvas) Click(at workout.Coords) {
	c.mu.Lock()
	handlers := slices.Clone(c.handlers)
	c.mu.Unlock()

	for _, fn := range handlers {
		fn(at)
	}
}

func (c *Canvas) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		Loaded:  c.loaded,
		Center:  c.center,
		Zoom:    c.zoom,
		View:    c.view,
		Tiles:   append([]TileLayer(nil), c.tiles...),
		Markers: make([]PlacedMarker, 0, len(c.markers)),
	}
	for id, spec := range c.markers {
		s.Markers = append(s.Markers, PlacedMarker{ID: id, MarkerSpec: spec})
	}
	sort.Slice(s.Markers, func(i, j int) bool { return s.Markers[i].ID < s.Markers[j].ID })
	return s
}
