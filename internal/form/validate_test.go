package form

import (
	"errors"
	"testing"

	"github.com/briangreenhill/mapty/internal/workout"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		kind  workout.Kind
		v     Values
		valid bool
	}{
		{"running ok", workout.KindRunning, Values{Distance: "5", Duration: "25", Cadence: "180"}, true},
		{"running fractional", workout.KindRunning, Values{Distance: "0.5", Duration: "3.2", Cadence: "1e2"}, true},
		{"running zero cadence", workout.KindRunning, Values{Distance: "5", Duration: "25", Cadence: "0"}, false},
		{"running blank cadence", workout.KindRunning, Values{Distance: "5", Duration: "25"}, false},
		{"running negative duration", workout.KindRunning, Values{Distance: "5", Duration: "-25", Cadence: "180"}, false},
		{"running text distance", workout.KindRunning, Values{Distance: "five", Duration: "25", Cadence: "180"}, false},
		{"running infinite distance", workout.KindRunning, Values{Distance: "Infinity", Duration: "25", Cadence: "180"}, false},
		{"running NaN duration", workout.KindRunning, Values{Distance: "5", Duration: "NaN", Cadence: "180"}, false},
		{"cycling ok", workout.KindCycling, Values{Distance: "20", Duration: "60", Elevation: "300"}, true},
		{"cycling negative elevation", workout.KindCycling, Values{Distance: "20", Duration: "60", Elevation: "-5"}, true},
		{"cycling zero elevation", workout.KindCycling, Values{Distance: "20", Duration: "60", Elevation: "0"}, true},
		{"cycling blank elevation", workout.KindCycling, Values{Distance: "20", Duration: "60"}, true},
		{"cycling text elevation", workout.KindCycling, Values{Distance: "20", Duration: "60", Elevation: "high"}, false},
		{"cycling zero distance", workout.KindCycling, Values{Distance: "0", Duration: "60", Elevation: "5"}, false},
		{"cycling infinite duration", workout.KindCycling, Values{Distance: "20", Duration: "-Inf", Elevation: "5"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.kind, tt.v)
			if tt.valid && err != nil {
				t.Fatalf("expected valid input, got %v", err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestValidateUnknownKind(t *testing.T) {
	_, err := Validate("rowing", Values{Distance: "1", Duration: "1"})
	if err == nil || errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected unknown type error, got %v", err)
	}
}
