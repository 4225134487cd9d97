package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/briangreenhill/mapty/internal/workout"
)

// WorkoutsKey is the single key the whole workout list lives under.
const WorkoutsKey = "workouts"

// Repository persists the full workout list to a Store.
type Repository struct {
	store  Store
	logger *slog.Logger
}

func NewRepository(store Store, logger *slog.Logger) *Repository {
	return &Repository{store: store, logger: logger}
}

// Save overwrites the stored list.
func (r *Repository) Save(ctx context.Context, workouts []workout.Workout) error {
	data, err := workout.Encode(workouts)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, WorkoutsKey, data); err != nil {
		return fmt.Errorf("save workouts: %w", err)
	}
	return nil
}

// Load returns the stored list. A missing key or an undecodable payload
// yields an empty list and no error; only backend failures are returned.
func (r *Repository) Load(ctx context.Context) ([]workout.Workout, error) {
	data, err := r.store.Get(ctx, WorkoutsKey)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load workouts: %w", err)
	}

	workouts, err := workout.Decode(data)
	if err != nil {
		r.logger.Warn("Ignoring malformed stored workouts", slog.Any("error", err))
		return nil, nil
	}
	return workouts, nil
}
