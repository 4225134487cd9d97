package workout

import (
	"encoding/json"
	"fmt"
	"math"
)

// Encode serializes the list as a JSON array of flat objects, each tagged
// with its "type" so Decode can rebuild the concrete variant.
func Encode(workouts []Workout) ([]byte, error) {
	records := make([]json.RawMessage, 0, len(workouts))
	for _, w := range workouts {
		raw, err := EncodeOne(w)
		if err != nil {
			return nil, err
		}
		records = append(records, raw)
	}
	return json.Marshal(records)
}

// EncodeOne serializes a single workout in the tagged form Encode uses.
func EncodeOne(w Workout) (json.RawMessage, error) {
	switch v := w.(type) {
	case *Running:
		return json.Marshal(struct {
			Type Kind `json:"type"`
			*Running
		}{KindRunning, v})
	case *Cycling:
		return json.Marshal(struct {
			Type Kind `json:"type"`
			*Cycling
		}{KindCycling, v})
	default:
		return nil, fmt.Errorf("cannot encode workout of type %T", w)
	}
}

// Decode reverses Encode. It also accepts records written without derived
// metrics or descriptions and fills them in from the raw fields. A JSON null
// decodes to an empty list.
func Decode(data []byte) ([]Workout, error) {
	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode workouts: %w", err)
	}

	workouts := make([]Workout, 0, len(records))
	for i, raw := range records {
		w, err := decodeOne(raw)
		if err != nil {
			return nil, fmt.Errorf("decode workout %d: %w", i, err)
		}
		workouts = append(workouts, w)
	}
	return workouts, nil
}

func decodeOne(raw json.RawMessage) (Workout, error) {
	var head struct {
		Type  string   `json:"type"`
		Pace  *float64 `json:"pace"`
		Speed *float64 `json:"speed"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, err
	}

	kind, err := ParseKind(head.Type)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindRunning:
		r := &Running{}
		if err := json.Unmarshal(raw, r); err != nil {
			return nil, err
		}
		if head.Pace == nil {
			r.Pace = r.Duration / r.Distance
		}
		if !finite(r.Pace) {
			return nil, fmt.Errorf("workout %s: pace is not a number", r.ID)
		}
		if r.Description == "" {
			r.Description = describe(kind, r.Date)
		}
		return r, nil
	default:
		c := &Cycling{}
		if err := json.Unmarshal(raw, c); err != nil {
			return nil, err
		}
		if head.Speed == nil {
			c.Speed = c.Distance / (c.Duration / 60)
		}
		if !finite(c.Speed) {
			return nil, fmt.Errorf("workout %s: speed is not a number", c.ID)
		}
		if c.Description == "" {
			c.Description = describe(kind, c.Date)
		}
		return c, nil
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
