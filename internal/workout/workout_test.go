package workout

import (
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestNewRunning(t *testing.T) {
	now := time.Date(2024, time.March, 5, 9, 30, 0, 0, time.UTC)
	r := NewRunning(now, Coords{51.5, -0.1}, 5, 25, 180)

	if r.Pace != 5.0 {
		t.Fatalf("expected pace 5.0, got %v", r.Pace)
	}
	if r.Description != "Running on March 5" {
		t.Fatalf("unexpected description %q", r.Description)
	}
	if r.Kind() != KindRunning {
		t.Fatalf("unexpected kind %q", r.Kind())
	}
	if r.Coords.Lat() != 51.5 || r.Coords.Lng() != -0.1 {
		t.Fatalf("unexpected coords %v", r.Coords)
	}
	if r.Cadence != 180 {
		t.Fatalf("unexpected cadence %v", r.Cadence)
	}
}

func TestNewCyclingNegativeElevation(t *testing.T) {
	now := time.Date(2024, time.December, 31, 18, 0, 0, 0, time.UTC)
	c := NewCycling(now, Coords{40.4, -3.7}, 20, 60, -5)

	if c.Speed != 20.0 {
		t.Fatalf("expected speed 20.0, got %v", c.Speed)
	}
	if c.ElevationGain != -5 {
		t.Fatalf("elevation gain changed: %v", c.ElevationGain)
	}
	if c.Description != "Cycling on December 31" {
		t.Fatalf("unexpected description %q", c.Description)
	}
}

func TestDerivedMetrics(t *testing.T) {
	now := time.Now()
	pairs := []struct{ distance, duration float64 }{
		{1, 1},
		{3.3, 17},
		{42.195, 211.5},
		{0.4, 90},
		{160, 300},
	}
	for _, p := range pairs {
		r := NewRunning(now, Coords{}, p.distance, p.duration, 170)
		if r.Pace != p.duration/p.distance {
			t.Errorf("pace for %v: got %v", p, r.Pace)
		}
		c := NewCycling(now, Coords{}, p.distance, p.duration, 0)
		if c.Speed != p.distance/(p.duration/60) {
			t.Errorf("speed for %v: got %v", p, c.Speed)
		}
	}
}

func TestDerivedMetricsComputedOnce(t *testing.T) {
	r := NewRunning(time.Now(), Coords{}, 10, 50, 170)
	r.Distance = 20
	if r.Pace != 5 {
		t.Fatalf("pace recomputed after construction: %v", r.Pace)
	}
}

func TestID(t *testing.T) {
	now := time.Date(2024, time.March, 5, 9, 30, 0, 123_000_000, time.UTC)
	r := NewRunning(now, Coords{}, 1, 1, 1)

	ms := strconv.FormatInt(now.UnixMilli(), 10)
	if len(r.ID) != 10 {
		t.Fatalf("expected 10 digit id, got %q", r.ID)
	}
	if !strings.HasSuffix(ms, r.ID) {
		t.Fatalf("id %q is not the tail of %q", r.ID, ms)
	}
}

func TestDescriptionMonths(t *testing.T) {
	for m := time.January; m <= time.December; m++ {
		date := time.Date(2023, m, 14, 12, 0, 0, 0, time.UTC)
		got := NewCycling(date, Coords{}, 1, 1, 0).Description
		want := "Cycling on " + m.String() + " 14"
		if got != want {
			t.Errorf("month %d: got %q, want %q", m, got, want)
		}
	}
}

func TestClick(t *testing.T) {
	var w Workout = NewRunning(time.Now(), Coords{}, 1, 1, 1)
	w.Click()
	w.Click()
	if w.Common().Clicks != 2 {
		t.Fatalf("expected 2 clicks, got %d", w.Common().Clicks)
	}
}

func TestParseKind(t *testing.T) {
	if k, err := ParseKind("cycling"); err != nil || k != KindCycling {
		t.Fatalf("parse cycling: %v %v", k, err)
	}
	if _, err := ParseKind("swimming"); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected error for unknown kind")
	}
}
