package form

import (
	"math"
	"strconv"
	"strings"

	"github.com/briangreenhill/mapty/internal/workout"
)

// Validate parses v for kind. Distance and duration must be positive, and so
// must cadence for running. Elevation gain only has to be a finite number.
func Validate(kind workout.Kind, v Values) (Input, error) {
	in := Input{
		Kind:     kind,
		Distance: parseNumber(v.Distance),
		Duration: parseNumber(v.Duration),
	}

	switch kind {
	case workout.KindRunning:
		in.Cadence = parseNumber(v.Cadence)
		if !finite(in.Distance, in.Duration, in.Cadence) || !positive(in.Distance, in.Duration, in.Cadence) {
			return Input{}, ErrInvalidInput
		}
	case workout.KindCycling:
		in.ElevationGain = parseNumber(v.Elevation)
		if !finite(in.Distance, in.Duration, in.ElevationGain) || !positive(in.Distance, in.Duration) {
			return Input{}, ErrInvalidInput
		}
	default:
		_, err := workout.ParseKind(string(kind))
		return Input{}, err
	}
	return in, nil
}

// parseNumber converts an input value the way a browser number coercion
// does: blank is 0 and anything unparsable is NaN.
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return n
}

func finite(nums ...float64) bool {
	for _, n := range nums {
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return false
		}
	}
	return true
}

func positive(nums ...float64) bool {
	for _, n := range nums {
		if n <= 0 {
			return false
		}
	}
	return true
}
