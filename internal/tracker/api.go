package tracker

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/briangreenhill/mapty/internal/form"
	"github.com/briangreenhill/mapty/internal/gpxio"
	"github.com/briangreenhill/mapty/internal/render"
	"github.com/briangreenhill/mapty/internal/workout"
)

func NewAPI(logger *slog.Logger, app *App) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("GET /{$}", handlePage(logger, app))
	mux.Handle("GET /workouts", handleListWorkouts(logger, app))
	mux.Handle("POST /workouts", handleCreateWorkout(logger, app))
	mux.Handle("POST /workouts/{id}/select", handleSelectWorkout(logger, app))
	mux.Handle("POST /workouts/{id}/delete", handleRequestDelete(logger, app))
	mux.Handle("POST /delete/confirm", handleConfirmDelete(logger, app))
	mux.Handle("POST /delete/cancel", handleCancelDelete(logger, app))
	mux.Handle("GET /map", handleMap(logger, app))
	mux.Handle("POST /map/click", handleMapClick(logger, app))
	mux.Handle("POST /form/type", handleFormType(logger, app))
	mux.Handle("GET /export.gpx", handleExportGPX(logger, app))

	return mux
}

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, form.ErrInvalidInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrWorkoutNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrMapNotLoaded),
		errors.Is(err, ErrNoPendingDelete),
		errors.Is(err, form.ErrNoPendingClick),
		errors.Is(err, form.ErrStaleClick):
		return http.StatusConflict
	case errors.Is(err, workout.ErrUnknownKind):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := statusFor(err)
	msg := err.Error()
	switch status {
	case http.StatusInternalServerError:
		logger.Error("Error handling request", slog.Any("error", err))
		msg = http.StatusText(status)
	case http.StatusUnprocessableEntity:
		msg = AlertInput
	}
	writeJSON(w, logger, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Error encoding response", slog.Any("error", err))
	}
}

func handlePage(logger *slog.Logger, app *App) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := render.Page(&buf, app.Page()); err != nil {
			logger.Error("Error rendering page", slog.Any("error", err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if _, err := buf.WriteTo(w); err != nil {
			logger.Error("Error writing page", slog.Any("error", err))
		}
	})
}

func handleListWorkouts(logger *slog.Logger, app *App) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := workout.Encode(app.Workouts())
		if err != nil {
			writeError(w, logger, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write(data); err != nil {
			logger.Error("Error writing workouts", slog.Any("error", err))
		}
	})
}

// field accepts a JSON number or string, so form values can be posted either
// way. A missing field or null reads as empty.
type field string

func (f *field) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*f = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = field(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*f = field(n.String())
	}
	return nil
}

type createRequest struct {
	Click     string `json:"click"`
	Type      string `json:"type"`
	Distance  field  `json:"distance"`
	Duration  field  `json:"duration"`
	Cadence   field  `json:"cadence"`
	Elevation field  `json:"elevation"`
}

func handleCreateWorkout(logger *slog.Logger, app *App) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req createRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Debug("Bad create request", slog.Any("error", err))
			writeJSON(w, logger, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
			return
		}

		created, err := app.Create(r.Context(), req.Click, form.Values{
			Type:      workout.Kind(strings.ToLower(strings.TrimSpace(req.Type))),
			Distance:  string(req.Distance),
			Duration:  string(req.Duration),
			Cadence:   string(req.Cadence),
			Elevation: string(req.Elevation),
		})
		if err != nil {
			writeError(w, logger, err)
			return
		}

		data, err := workout.EncodeOne(created)
		if err != nil {
			writeError(w, logger, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if _, err := w.Write(data); err != nil {
			logger.Error("Error writing workout", slog.Any("error", err))
		}
	})
}

func handleSelectWorkout(logger *slog.Logger, app *App) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		selected, err := app.Select(r.PathValue("id"))
		if err != nil {
			writeError(w, logger, err)
			return
		}
		data, err := workout.EncodeOne(selected)
		if err != nil {
			writeError(w, logger, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write(data); err != nil {
			logger.Error("Error writing workout", slog.Any("error", err))
		}
	})
}

func handleRequestDelete(logger *slog.Logger, app *App) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if err := app.RequestDelete(id); err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusAccepted, map[string]string{"pending": id})
	})
}

func handleConfirmDelete(logger *slog.Logger, app *App) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := app.ConfirmDelete(r.Context()); err != nil {
			writeError(w, logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func handleCancelDelete(logger *slog.Logger, app *App) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := app.CancelDelete(); err != nil {
			writeError(w, logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func handleMap(logger *slog.Logger, app *App) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		snapshot, ok := app.MapSnapshot()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeJSON(w, logger, http.StatusOK, snapshot)
	})
}

type clickRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func handleMapClick(logger *slog.Logger, app *App) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req clickRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, logger, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
			return
		}
		click, err := app.ClickMap(workout.Coords{req.Lat, req.Lng})
		if err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusCreated, click)
	})
}

type typeRequest struct {
	Type string `json:"type"`
}

func handleFormType(logger *slog.Logger, app *App) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req typeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, logger, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
			return
		}
		if err := app.SetType(workout.Kind(req.Type)); err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, map[string]string{
			"type":  string(app.Form().Kind()),
			"field": string(app.Form().VisibleField()),
		})
	})
}

func handleExportGPX(logger *slog.Logger, app *App) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := gpxio.Write(&buf, app.Workouts()); err != nil {
			logger.Error("Error exporting workouts", slog.Any("error", err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/gpx+xml")
		w.WriteHeader(http.StatusOK)
		if _, err := buf.WriteTo(w); err != nil {
			logger.Error("Error writing gpx", slog.Any("error", err))
		}
	})
}
