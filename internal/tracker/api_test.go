package tracker

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tkrajina/gpxgo/gpx"

	"github.com/briangreenhill/mapty/internal/mapview"
	"github.com/briangreenhill/mapty/internal/workout"
)

func newTestServer(t *testing.T, pos *workout.Coords) (*httptest.Server, *fixture) {
	t.Helper()
	f := newFixture(t, pos, nil)
	srv := httptest.NewServer(NewAPI(slog.New(slog.NewTextHandler(io.Discard, nil)), f.app))
	t.Cleanup(srv.Close)
	return srv, f
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func clickMap(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp := post(t, srv.URL+"/map/click", `{"lat":51.5,"lng":-0.1}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var click struct {
		ID     string         `json:"id"`
		Coords workout.Coords `json:"coords"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&click); err != nil {
		t.Fatalf("decode click: %v", err)
	}
	if click.ID == "" || click.Coords != (workout.Coords{51.5, -0.1}) {
		t.Fatalf("unexpected click %+v", click)
	}
	return click.ID
}

func TestAPICreateAndList(t *testing.T) {
	srv, _ := newTestServer(t, &home)

	id := clickMap(t, srv)
	resp := post(t, srv.URL+"/workouts", `{"click":"`+id+`","type":"running","distance":5,"duration":"25","cadence":180}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode workout: %v", err)
	}
	if created["type"] != "running" || created["pace"] != 5.0 {
		t.Fatalf("unexpected workout %v", created)
	}

	resp = get(t, srv.URL+"/workouts")
	body, _ := io.ReadAll(resp.Body)
	list, err := workout.Decode(body)
	if err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 || list[0].Kind() != workout.KindRunning {
		t.Fatalf("unexpected list %v", list)
	}

	resp = get(t, srv.URL+"/")
	page, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(page), `data-id="`+list[0].Common().ID+`"`) {
		t.Fatalf("page should list the workout")
	}
	if !strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		t.Fatalf("unexpected content type %q", resp.Header.Get("Content-Type"))
	}
}

func TestAPICreateErrors(t *testing.T) {
	srv, f := newTestServer(t, &home)

	resp := post(t, srv.URL+"/workouts", `{"click":"none","distance":5,"duration":25,"cadence":180}`)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 without a click, got %d", resp.StatusCode)
	}

	id := clickMap(t, srv)
	resp = post(t, srv.URL+"/workouts", `{"click":"`+id+`","type":"running","distance":"abc","duration":25,"cadence":180}`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	var e errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Error != AlertInput {
		t.Fatalf("expected alert text, got %+v %v", e, err)
	}
	if len(f.alertsSeen()) != 1 {
		t.Fatalf("expected one alert, got %v", f.alertsSeen())
	}

	resp = post(t, srv.URL+"/workouts", `{"click":"`+id+`","type":"swimming","distance":1,"duration":1}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown type, got %d", resp.StatusCode)
	}

	resp = post(t, srv.URL+"/workouts", `{"click":`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", resp.StatusCode)
	}

	resp = post(t, srv.URL+"/workouts", `{"click":"`+id+`","type":"cycling","distance":20,"duration":60,"elevation":-5}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 for negative elevation, got %d", resp.StatusCode)
	}
}

func TestAPIMapNotLoaded(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	resp := post(t, srv.URL+"/map/click", `{"lat":1,"lng":2}`)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}

	resp = get(t, srv.URL+"/map")
	var snap mapview.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.Loaded {
		t.Fatalf("map should not be loaded")
	}
}

func TestAPISelectAndDelete(t *testing.T) {
	srv, f := newTestServer(t, &home)
	w := f.add(t, workout.Coords{48.85, 2.35}, running("5", "25", "180"))
	id := w.Common().ID

	resp := post(t, srv.URL+"/workouts/"+id+"/select", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if got, _ := f.app.Workout(id); got.Common().Clicks != 1 {
		t.Fatalf("select should count a click")
	}

	resp = get(t, srv.URL+"/map")
	var snap mapview.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.Center != (workout.Coords{48.85, 2.35}) || len(snap.Markers) != 1 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}

	if resp := post(t, srv.URL+"/workouts/missing/select", ""); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if resp := post(t, srv.URL+"/delete/confirm", ""); resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 with nothing pending, got %d", resp.StatusCode)
	}

	if resp := post(t, srv.URL+"/workouts/"+id+"/delete", ""); resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.StatusCode)
	}
	if resp := post(t, srv.URL+"/delete/cancel", ""); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	if len(f.app.Workouts()) != 1 {
		t.Fatalf("cancel should keep the workout")
	}

	post(t, srv.URL+"/workouts/"+id+"/delete", "")
	if resp := post(t, srv.URL+"/delete/confirm", ""); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	if len(f.app.Workouts()) != 0 || len(f.canvas.Snapshot().Markers) != 0 {
		t.Fatalf("confirm should remove the workout and its marker")
	}
}

func TestAPIFormType(t *testing.T) {
	srv, _ := newTestServer(t, &home)

	resp := post(t, srv.URL+"/form/type", `{"type":"cycling"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var got map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["type"] != "cycling" || got["field"] != "elevation" {
		t.Fatalf("unexpected form state %v", got)
	}

	if resp := post(t, srv.URL+"/form/type", `{"type":"rowing"}`); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestAPIExportGPX(t *testing.T) {
	srv, f := newTestServer(t, &home)
	f.add(t, home, running("5", "25", "180"))
	f.add(t, home, cycling("20", "60", "150"))

	resp := get(t, srv.URL+"/export.gpx")
	if resp.Header.Get("Content-Type") != "application/gpx+xml" {
		t.Fatalf("unexpected content type %q", resp.Header.Get("Content-Type"))
	}
	body, _ := io.ReadAll(resp.Body)
	g, err := gpx.ParseBytes(body)
	if err != nil {
		t.Fatalf("parse gpx: %v", err)
	}
	if len(g.Waypoints) != 2 {
		t.Fatalf("expected 2 waypoints, got %d", len(g.Waypoints))
	}
}
