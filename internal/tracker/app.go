// Package tracker ties the workout model, map, form, list and storage
// together and exposes them through a CLI and a local HTTP surface.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/briangreenhill/mapty/internal/form"
	"github.com/briangreenhill/mapty/internal/mapview"
	"github.com/briangreenhill/mapty/internal/render"
	"github.com/briangreenhill/mapty/internal/storage"
	"github.com/briangreenhill/mapty/internal/workout"
)

var (
	ErrMapNotLoaded    = errors.New("map is not loaded")
	ErrWorkoutNotFound = errors.New("workout not found")
	ErrNoPendingDelete = errors.New("no delete is pending")
)

const (
	AlertPosition = "Could not get your position"
	AlertInput    = "Inputs should be positive numbers"
)

// Notifier shows a blocking message to the user.
type Notifier interface {
	Notify(msg string)
}

type NotifierFunc func(msg string)

func (f NotifierFunc) Notify(msg string) { f(msg) }

// WriterNotifier prints each message on its own line.
type WriterNotifier struct {
	W io.Writer
}

func (n WriterNotifier) Notify(msg string) {
	fmt.Fprintln(n.W, msg)
}

type Options struct {
	Logger     *slog.Logger
	Repository *storage.Repository
	Locator    mapview.Locator
	Widget     mapview.Widget
	Map        mapview.Options
	Form       *form.Form
	Notifier   Notifier
	Now        func() time.Time
}

// App is the application state. Every public method holds mu for its whole
// run, so operations are applied one at a time like UI events.
type App struct {
	mu sync.Mutex

	logger   *slog.Logger
	repo     *storage.Repository
	locator  mapview.Locator
	widget   mapview.Widget
	mapOpts  mapview.Options
	form     *form.Form
	notifier Notifier
	now      func() time.Time

	m            *mapview.Map
	workouts     []workout.Workout
	markers      map[string]mapview.Marker
	list         render.List
	deleteTarget string
}

func New(opts Options) *App {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Repository == nil {
		opts.Repository = storage.NewRepository(storage.NewMemoryStore(), opts.Logger)
	}
	if opts.Locator == nil {
		opts.Locator = mapview.StaticLocator{}
	}
	if opts.Widget == nil {
		opts.Widget = mapview.NewCanvas()
	}
	if opts.Map == (mapview.Options{}) {
		opts.Map = mapview.DefaultOptions()
	}
	if opts.Form == nil {
		opts.Form = form.New(form.DefaultRestyleDelay)
	}
	if opts.Notifier == nil {
		opts.Notifier = NotifierFunc(func(string) {})
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &App{
		logger:   opts.Logger,
		repo:     opts.Repository,
		locator:  opts.Locator,
		widget:   opts.Widget,
		mapOpts:  opts.Map,
		form:     opts.Form,
		notifier: opts.Notifier,
		now:      opts.Now,
		markers:  make(map[string]mapview.Marker),
	}
}

// Start restores the stored workouts, loads the map on the current position
// and places a marker for each restored workout. A failed position lookup is
// reported to the user and leaves the map unloaded; only storage failures are
// returned.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	restored, err := a.repo.Load(ctx)
	if err != nil {
		return err
	}
	a.workouts = restored
	for _, w := range restored {
		if err := a.insertItem(w); err != nil {
			return err
		}
	}
	a.logger.Debug("Restored workouts", slog.Int("count", len(restored)))

	m, err := mapview.Load(ctx, a.locator, a.widget, a.mapOpts, a.handleMapClick)
	if err != nil {
		a.logger.Warn("Map not loaded", slog.Any("error", err))
		a.notifier.Notify(AlertPosition)
		return nil
	}
	a.m = m

	for _, w := range a.workouts {
		a.placeMarker(w)
	}
	return nil
}

// handleMapClick is registered with the widget; widget clicks run as events.
func (a *App) handleMapClick(at workout.Coords) {
	if _, err := a.ClickMap(at); err != nil {
		a.logger.Debug("Ignoring map click", slog.Any("error", err))
	}
}

// ClickMap records a map click at coords and shows the form for it.
func (a *App) ClickMap(at workout.Coords) (form.Click, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.m == nil {
		return form.Click{}, ErrMapNotLoaded
	}
	click := form.NewClick(at)
	a.form.Show(click)
	return click, nil
}

func (a *App) SetType(kind workout.Kind) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.form.SetType(kind)
}

// Create turns the pending click clickID and the form values into a workout.
// Invalid input alerts the user and keeps the form as it is.
func (a *App) Create(ctx context.Context, clickID string, v form.Values) (workout.Workout, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	in, err := a.form.Submit(clickID, v)
	if errors.Is(err, form.ErrInvalidInput) {
		a.logger.Debug("Rejected workout input", slog.Any("values", v))
		a.notifier.Notify(AlertInput)
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	// Ids come from the creation time; step past any millisecond already taken.
	now := a.now()
	w := in.Build(now)
	for a.index(w.Common().ID) >= 0 {
		now = now.Add(time.Millisecond)
		w = in.Build(now)
	}
	a.workouts = append(a.workouts, w)
	a.placeMarker(w)
	if err := a.insertItem(w); err != nil {
		return nil, err
	}
	a.form.Hide()

	if err := a.repo.Save(ctx, a.workouts); err != nil {
		a.logger.Error("Error saving workouts", slog.Any("error", err))
		return w, err
	}
	a.logger.Info("Workout added", slog.String("id", w.Common().ID), slog.String("type", string(w.Kind())))
	return w, nil
}

// Select pans to the workout with id and counts the click. An empty id is a
// click outside any list item and does nothing.
func (a *App) Select(id string) (workout.Workout, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if id == "" {
		return nil, nil
	}
	i := a.index(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrWorkoutNotFound, id)
	}
	w := a.workouts[i]
	if a.m != nil {
		a.m.PanTo(w.Common().Coords)
	}
	w.Click()
	return w, nil
}

// RequestDelete opens the delete confirmation for id, replacing any earlier
// target.
func (a *App) RequestDelete(id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.index(id) < 0 {
		return fmt.Errorf("%w: %s", ErrWorkoutNotFound, id)
	}
	a.deleteTarget = id
	return nil
}

// ConfirmDelete removes the targeted workout, its marker and its list item,
// then saves the remaining list.
func (a *App) ConfirmDelete(ctx context.Context) (workout.Workout, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.deleteTarget == "" {
		return nil, ErrNoPendingDelete
	}
	id := a.deleteTarget
	a.deleteTarget = ""

	i := a.index(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrWorkoutNotFound, id)
	}
	w := a.workouts[i]
	a.workouts = slices.Delete(a.workouts, i, i+1)

	if marker, ok := a.markers[id]; ok {
		if a.m != nil {
			a.m.RemoveMarker(marker)
		}
		delete(a.markers, id)
	}
	a.list.Remove(id)

	if err := a.repo.Save(ctx, a.workouts); err != nil {
		a.logger.Error("Error saving workouts", slog.Any("error", err))
		return w, err
	}
	a.logger.Info("Workout deleted", slog.String("id", id))
	return w, nil
}

func (a *App) CancelDelete() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.deleteTarget == "" {
		return ErrNoPendingDelete
	}
	a.deleteTarget = ""
	return nil
}

// Overlay reports the workout id the delete confirmation is open for.
func (a *App) Overlay() (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.deleteTarget, a.deleteTarget != ""
}

// Workouts returns a copy of the list in creation order.
func (a *App) Workouts() []workout.Workout {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.workouts)
}

func (a *App) Workout(id string) (workout.Workout, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	i := a.index(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrWorkoutNotFound, id)
	}
	return a.workouts[i], nil
}

func (a *App) ListHTML() template.HTML {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.list.HTML()
}

// ListIDs returns the rendered list entries top to bottom.
func (a *App) ListIDs() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.list.IDs()
}

func (a *App) MapLoaded() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.m != nil
}

// MarkerCount is the number of markers currently registered.
func (a *App) MarkerCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.markers)
}

// MapSnapshot returns the widget state when the widget can report it.
func (a *App) MapSnapshot() (mapview.Snapshot, bool) {
	s, ok := a.widget.(interface{ Snapshot() mapview.Snapshot })
	if !ok {
		return mapview.Snapshot{}, false
	}
	return s.Snapshot(), true
}

func (a *App) FormState() form.State {
	return a.form.State()
}

func (a *App) Form() *form.Form {
	return a.form
}

// Page collects what the HTML page shows.
func (a *App) Page() render.PageData {
	a.mu.Lock()
	defer a.mu.Unlock()

	click, _ := a.form.Pending()
	kind := a.form.Kind()
	return render.PageData{
		FormHidden:   a.form.State() == form.Hidden,
		FormDisplay:  string(a.form.Display()),
		Kind:         string(kind),
		ShowCadence:  kind == workout.KindRunning,
		PendingClick: click.ID,
		Workouts:     a.list.HTML(),
		DeletePopup:  a.deleteTarget != "",
	}
}

// placeMarker must be called with a.mu held.
func (a *App) placeMarker(w workout.Workout) {
	if a.m == nil {
		return
	}
	a.markers[w.Common().ID] = a.m.AddMarker(render.Marker(w))
}

// insertItem must be called with a.mu held.
func (a *App) insertItem(w workout.Workout) error {
	html, err := render.Item(w)
	if err != nil {
		return fmt.Errorf("render workout %s: %w", w.Common().ID, err)
	}
	a.list.Insert(w.Common().ID, html)
	return nil
}

func (a *App) index(id string) int {
	return slices.IndexFunc(a.workouts, func(w workout.Workout) bool {
		return w.Common().ID == id
	})
}
