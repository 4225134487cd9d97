package workout

import (
	"reflect"
	"testing"
	"time"
)

func sampleWorkouts() []Workout {
	t1 := time.Date(2024, time.May, 1, 7, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, time.May, 2, 7, 0, 0, 0, time.UTC)
	r := NewRunning(t1, Coords{51.5, -0.1}, 5, 25, 180)
	r.Click()
	c := NewCycling(t2, Coords{51.49, -0.12}, 20, 60, -5)
	return []Workout{r, c}
}

func TestEncodeDecodeTwice(t *testing.T) {
	original := sampleWorkouts()

	data, err := Encode(original)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	first, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	data, err = Encode(first)
	if err != nil {
		t.Fatalf("re-encode: %v", err)
	}
	second, err := Decode(data)
	if err != nil {
		t.Fatalf("re-decode: %v", err)
	}

	if !reflect.DeepEqual(original, second) {
		t.Fatalf("round trip changed the list:\n%#v\n%#v", original, second)
	}
}

func TestDecodeKeepsVariant(t *testing.T) {
	data, err := Encode(sampleWorkouts())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	restored, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	r, ok := restored[0].(*Running)
	if !ok {
		t.Fatalf("expected *Running, got %T", restored[0])
	}
	r.Click()
	if r.Clicks != 2 {
		t.Fatalf("expected click to work after restore, got %d", r.Clicks)
	}
	if _, ok := restored[1].(*Cycling); !ok {
		t.Fatalf("expected *Cycling, got %T", restored[1])
	}
}

func TestDecodeBrowserPayload(t *testing.T) {
	payload := `[{"date":"2024-03-05T10:20:30.123Z","id":"9633630123","clicks":0,
		"coords":[51.5,-0.1],"distance":5,"duration":25,"type":"running","cadence":180}]`

	restored, err := Decode([]byte(payload))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	r := restored[0].(*Running)
	if r.Pace != 5 {
		t.Fatalf("expected pace derived on restore, got %v", r.Pace)
	}
	if r.Description != "Running on March 5" {
		t.Fatalf("unexpected description %q", r.Description)
	}
	if r.ID != "9633630123" {
		t.Fatalf("unexpected id %q", r.ID)
	}
}

func TestDecodeNull(t *testing.T) {
	restored, err := Decode([]byte("null"))
	if err != nil {
		t.Fatalf("decode null: %v", err)
	}
	if len(restored) != 0 {
		t.Fatalf("expected empty list")
	}
}

func TestDecodeErrors(t *testing.T) {
	cases := map[string]string{
		"not json":      "{",
		"object":        `{"id":"1"}`,
		"unknown type":  `[{"type":"rowing","id":"1"}]`,
		"missing type":  `[{"id":"1","distance":3}]`,
		"zero distance": `[{"type":"running","id":"1","date":"2024-05-01T07:00:00Z","coords":[1,2],"distance":0,"duration":10,"cadence":170}]`,
		"zero duration": `[{"type":"cycling","id":"2","date":"2024-05-01T07:00:00Z","coords":[1,2],"distance":0,"duration":0,"elevationGain":5}]`,
	}
	for name, payload := range cases {
		if _, err := Decode([]byte(payload)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
