package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/park-peeps/internal/engine"
	"github.com/talgya/park-peeps/internal/peep"
	"github.com/talgya/park-peeps/internal/ride"
	"github.com/talgya/park-peeps/internal/world"
)

const testKey = "let-me-in"

func testServer(t *testing.T, adminKey string) *Server {
	t.Helper()
	m, layout := world.Generate(world.SmallTestConfig())
	rides := ride.NewRegistry()
	r, err := rides.Build(m, layout.Plots[0], ride.DefaultDefinition(ride.TypeMerryGoRound))
	require.NoError(t, err)
	r.Open()
	sim := engine.NewSimulation(m, layout, rides, engine.Config{
		Park:      peep.DefaultParkSettings(),
		Capacity:  32,
		Seed:      3,
		StartCash: 10000,
	})
	return &Server{Sim: sim, Eng: engine.NewEngine(), AdminKey: adminKey}
}

func do(t *testing.T, s *Server, method, path, body string, auth bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		req.Header.Set("Authorization", "Bearer "+testKey)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestStatus(t *testing.T) {
	s := testServer(t, testKey)
	rec := do(t, s, http.MethodGet, "/api/v1/status", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	status := decode[map[string]any](t, rec)
	assert.EqualValues(t, 1, status["rides"])
	assert.EqualValues(t, 0, status["staff"])
	assert.Equal(t, "1st March, Year 1", status["park_time"])
	assert.Equal(t, "£1,000.00", status["cash"])
}

func TestAdminAuth(t *testing.T) {
	s := testServer(t, testKey)
	rec := do(t, s, http.MethodPost, "/api/v1/staff", `{"type":"mechanic"}`, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	open := testServer(t, "")
	rec = do(t, open, http.MethodPost, "/api/v1/staff", `{"type":"mechanic"}`, true)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHireAndInspectStaff(t *testing.T) {
	s := testServer(t, testKey)

	rec := do(t, s, http.MethodPost, "/api/v1/staff", `{"type":"mechanic"}`, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	hired := decode[map[string]any](t, rec)
	assert.Equal(t, "Mechanic 1 hired", hired["result"])

	rec = do(t, s, http.MethodPost, "/api/v1/staff", `{"type":"clown"}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/v1/staff", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	staff := decode[[]peepView](t, rec)
	require.Len(t, staff, 1)
	assert.Equal(t, "Mechanic 1", staff[0].Name)
	assert.Equal(t, "staff", staff[0].Type)
	assert.Nil(t, staff[0].Staff)

	rec = do(t, s, http.MethodGet, "/api/v1/peeps/staff/1", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[peepView](t, rec)
	require.NotNil(t, detail.Staff)
	assert.Equal(t, peep.StaffMechanic, detail.Staff.Type)

	rec = do(t, s, http.MethodGet, "/api/v1/peeps/staff/9", "", false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, s, http.MethodGet, "/api/v1/peeps/alien/1", "", false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/v1/events?category=staff", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	events := decode[[]engine.Event](t, rec)
	require.Len(t, events, 1)
	assert.Equal(t, "Mechanic 1 hired", events[0].Description)
}

func TestPickupAndPutBack(t *testing.T) {
	s := testServer(t, testKey)
	_, _, err := s.Sim.Hire(peep.StaffHandyman)
	require.NoError(t, err)

	rec := do(t, s, http.MethodPost, "/api/v1/peeps/staff/1/pickup", "", true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Handyman 1 was picked up", decode[map[string]string](t, rec)["result"])

	rec = do(t, s, http.MethodPost, "/api/v1/peeps/staff/1/pickup", "", true)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/v1/peeps/staff/1/abort", "", true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, s, http.MethodPost, "/api/v1/peeps/staff/1/rename", `{"name":"Sweepy"}`, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Handyman 1 is now called Sweepy", decode[map[string]string](t, rec)["result"])

	rec = do(t, s, http.MethodPost, "/api/v1/staff/1/fire", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, s, http.MethodPost, "/api/v1/staff/1/fire", "", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPlaceAndPatrol(t *testing.T) {
	s := testServer(t, testKey)
	_, _, err := s.Sim.Hire(peep.StaffHandyman)
	require.NoError(t, err)
	spot := s.Sim.Layout.Plots[1].Path
	body := fmt.Sprintf(`{"x":%d,"y":%d}`, spot.X, spot.Y)

	rec := do(t, s, http.MethodPost, "/api/v1/peeps/staff/1/place", body, true)
	assert.Equal(t, http.StatusConflict, rec.Code, "only a picked-up peep can be placed")

	rec = do(t, s, http.MethodPost, "/api/v1/peeps/staff/1/pickup", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, s, http.MethodPost, "/api/v1/peeps/staff/1/place", `{"x":-1,"y":-1}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, s, http.MethodPost, "/api/v1/peeps/staff/1/place", body, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, fmt.Sprintf("Handyman 1 was dropped at %d,%d", spot.X, spot.Y),
		decode[map[string]string](t, rec)["result"])

	rec = do(t, s, http.MethodPost, "/api/v1/staff/1/patrol", body[:len(body)-1]+`,"on":true}`, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, fmt.Sprintf("Handyman 1 now patrols around %d,%d", spot.X, spot.Y),
		decode[map[string]string](t, rec)["result"])

	rec = do(t, s, http.MethodPost, "/api/v1/staff/7/patrol", body, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRideOpenAndClose(t *testing.T) {
	s := testServer(t, testKey)

	rec := do(t, s, http.MethodPost, "/api/v1/rides/0/open", `{"open":false}`, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Merry-Go-Round has closed", decode[map[string]string](t, rec)["result"])

	rec = do(t, s, http.MethodGet, "/api/v1/rides", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	rides := decode[[]rideView](t, rec)
	require.Len(t, rides, 1)
	assert.False(t, rides[0].Open)
	assert.Equal(t, "merry_go_round", rides[0].Type)

	rec = do(t, s, http.MethodPost, "/api/v1/rides/9/open", `{"open":true}`, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, s, http.MethodGet, "/api/v1/rides/9", "", false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSpeed(t *testing.T) {
	s := testServer(t, testKey)

	rec := do(t, s, http.MethodPost, "/api/v1/speed", `{"speed":3}`, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3.0, s.Eng.Speed())

	rec = do(t, s, http.MethodPost, "/api/v1/speed", `{"speed":2000}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/v1/speed", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3.0, decode[map[string]float64](t, rec)["speed"])
}

func TestSaveWithoutDatabase(t *testing.T) {
	s := testServer(t, testKey)
	rec := do(t, s, http.MethodPost, "/api/v1/save", "", true)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRateLimiter(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"))
	assert.Equal(t, 61, rl.RetryAfter("a"))

	now = now.Add(time.Minute)
	assert.True(t, rl.Allow("a"))

	now = now.Add(3 * time.Minute)
	rl.Allow("c")
	assert.NotContains(t, rl.buckets, "b")
}
