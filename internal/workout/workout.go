package workout

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Kind string

const (
	KindRunning Kind = "running"
	KindCycling Kind = "cycling"
)

var ErrUnknownKind = errors.New("unknown workout type")

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindRunning, KindCycling:
		return Kind(s), nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownKind, s)
}

// Coords is a [latitude, longitude] pair.
type Coords [2]float64

func (c Coords) Lat() float64 { return c[0] }
func (c Coords) Lng() float64 { return c[1] }

var months = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Workout is implemented by *Running and *Cycling.
type Workout interface {
	Kind() Kind
	Common() *Base
	Click()
}

// Base holds the fields every workout shares. Distance is in kilometers and
// Duration in minutes.
type Base struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	Coords      Coords    `json:"coords"`
	Distance    float64   `json:"distance"`
	Duration    float64   `json:"duration"`
	Description string    `json:"description"`
	Clicks      int       `json:"clicks"`
}

func newBase(now time.Time, coords Coords, distance, duration float64) Base {
	return Base{
		ID:       idFromTime(now),
		Date:     now,
		Coords:   coords,
		Distance: distance,
		Duration: duration,
	}
}

func (b *Base) Common() *Base { return b }

func (b *Base) Click() { b.Clicks++ }

// idFromTime keeps the last 10 digits of the millisecond timestamp.
func idFromTime(t time.Time) string {
	ms := strconv.FormatInt(t.UnixMilli(), 10)
	if len(ms) > 10 {
		ms = ms[len(ms)-10:]
	}
	return ms
}

func describe(kind Kind, date time.Time) string {
	title := cases.Title(language.English).String(string(kind))
	return fmt.Sprintf("%s on %s %d", title, months[date.Month()-1], date.Day())
}

type Running struct {
	Base
	Cadence float64 `json:"cadence"`
	Pace    float64 `json:"pace"`
}

// NewRunning builds a running workout and derives its pace (min/km) and
// description. Inputs are not validated here.
func NewRunning(now time.Time, coords Coords, distance, duration, cadence float64) *Running {
	r := &Running{
		Base:    newBase(now, coords, distance, duration),
		Cadence: cadence,
	}
	r.Pace = r.Duration / r.Distance
	r.Description = describe(KindRunning, r.Date)
	return r
}

func (r *Running) Kind() Kind { return KindRunning }

type Cycling struct {
	Base
	ElevationGain float64 `json:"elevationGain"`
	Speed         float64 `json:"speed"`
}

// NewCycling builds a cycling workout and derives its speed (km/h) and
// description.
func NewCycling(now time.Time, coords Coords, distance, duration, elevationGain float64) *Cycling {
	c := &Cycling{
		Base:          newBase(now, coords, distance, duration),
		ElevationGain: elevationGain,
	}
	c.Speed = c.Distance / (c.Duration / 60)
	c.Description = describe(KindCycling, c.Date)
	return c
}

func (c *Cycling) Kind() Kind { return KindCycling }
