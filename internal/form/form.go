// Package form implements the workout entry form: its visibility, the
// running/cycling field toggle and input validation.
package form

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/briangreenhill/mapty/internal/workout"
)

const DefaultRestyleDelay = time.Second

var (
	ErrNoPendingClick = errors.New("no map click is pending")
	ErrStaleClick     = errors.New("map click is no longer pending")
	ErrInvalidInput   = errors.New("inputs should be positive numbers")
)

type State int

const (
	Hidden State = iota
	Visible
)

func (s State) String() string {
	if s == Visible {
		return "visible"
	}
	return "hidden"
}

type Field string

const (
	FieldDistance  Field = "distance"
	FieldDuration  Field = "duration"
	FieldCadence   Field = "cadence"
	FieldElevation Field = "elevation"
)

// Display is the CSS display value of the form element.
type Display string

const (
	DisplayGrid Display = "grid"
	DisplayNone Display = "none"
)

// Click is a map click waiting to become a workout.
type Click struct {
	ID     string         `json:"id"`
	Coords workout.Coords `json:"coords"`
}

func NewClick(at workout.Coords) Click {
	return Click{ID: uuid.NewString(), Coords: at}
}

// Values are the raw input strings. An empty Type keeps the selected type.
type Values struct {
	Type      workout.Kind `json:"type"`
	Distance  string       `json:"distance"`
	Duration  string       `json:"duration"`
	Cadence   string       `json:"cadence"`
	Elevation string       `json:"elevation"`
}

// Input is a validated submission.
type Input struct {
	Kind          workout.Kind
	Coords        workout.Coords
	Distance      float64
	Duration      float64
	Cadence       float64
	ElevationGain float64
}

// Build constructs the workout variant for in.
func (in Input) Build(now time.Time) workout.Workout {
	if in.Kind == workout.KindCycling {
		return workout.NewCycling(now, in.Coords, in.Distance, in.Duration, in.ElevationGain)
	}
	return workout.NewRunning(now, in.Coords, in.Distance, in.Duration, in.Cadence)
}

type timer interface {
	Stop() bool
}

type scheduleFunc func(d time.Duration, fn func()) timer

func afterFunc(d time.Duration, fn func()) timer {
	return time.AfterFunc(d, fn)
}

type Form struct {
	mu       sync.Mutex
	state    State
	display  Display
	kind     workout.Kind
	focus    Field
	pending  *Click
	values   Values
	delay    time.Duration
	restyle  timer
	gen      uint64
	schedule scheduleFunc
}

// New returns a hidden form with running selected. delay is how long Hide
// waits before restoring the grid layout.
func New(delay time.Duration) *Form {
	if delay <= 0 {
		delay = DefaultRestyleDelay
	}
	return &Form{
		state:    Hidden,
		display:  DisplayGrid,
		kind:     workout.KindRunning,
		delay:    delay,
		schedule: afterFunc,
	}
}

// Show makes the form visible for click, replacing any earlier pending click.
func (f *Form) Show(click Click) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.cancelRestyle()
	f.pending = &click
	f.state = Visible
	f.display = DisplayGrid
	f.focus = FieldDistance
}

func (f *Form) SetType(kind workout.Kind) error {
	if _, err := workout.ParseKind(string(kind)); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.kind = kind
	return nil
}

// Toggle switches the selected type and with it the visible extra field.
func (f *Form) Toggle() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.kind == workout.KindRunning {
		f.kind = workout.KindCycling
	} else {
		f.kind = workout.KindRunning
	}
}

func (f *Form) Kind() workout.Kind {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.kind
}

// VisibleField is the one of cadence and elevation currently shown.
func (f *Form) VisibleField() Field {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.kind == workout.KindCycling {
		return FieldElevation
	}
	return FieldCadence
}

func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Form) Display() Display {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.display
}

func (f *Form) Focus() Field {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.focus
}

func (f *Form) Values() Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

func (f *Form) Pending() (Click, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pending == nil {
		return Click{}, false
	}
	return *f.pending, true
}

// Submit validates v against the pending click clickID. On failure the
// entered values stay in the form.
func (f *Form) Submit(clickID string, v Values) (Input, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.pending == nil {
		return Input{}, ErrNoPendingClick
	}
	if clickID != f.pending.ID {
		return Input{}, ErrStaleClick
	}

	if v.Type != "" {
		kind, err := workout.ParseKind(string(v.Type))
		if err != nil {
			return Input{}, err
		}
		f.kind = kind
	}
	v.Type = f.kind
	f.values = v

	in, err := Validate(f.kind, v)
	if err != nil {
		return Input{}, err
	}
	in.Coords = f.pending.Coords
	return in, nil
}

// Hide clears the inputs, drops the pending click and hides the form. The
// grid layout comes back after the restyle delay; hiding again before then
// restarts the delay.
func (f *Form) Hide() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.values = Values{}
	f.pending = nil
	f.state = Hidden
	f.display = DisplayNone

	f.cancelRestyle()
	gen := f.gen
	f.restyle = f.schedule(f.delay, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.gen != gen {
			return
		}
		f.display = DisplayGrid
		f.restyle = nil
	})
}

// cancelRestyle must be called with f.mu held.
func (f *Form) cancelRestyle() {
	f.gen++
	if f.restyle != nil {
		f.restyle.Stop()
		f.restyle = nil
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
