// Package api provides the HTTP API for watching and steering the park.
// GET endpoints are public (read-only observation).
// POST endpoints require a bearer token (admin control plane).
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/talgya/park-peeps/internal/engine"
	"github.com/talgya/park-peeps/internal/peep"
	"github.com/talgya/park-peeps/internal/persistence"
	"github.com/talgya/park-peeps/internal/ride"
	"github.com/talgya/park-peeps/internal/world"
)

// Server serves the park over HTTP.
type Server struct {
	Sim      *engine.Simulation
	Eng      *engine.Engine
	DB       *persistence.DB // Optional; enables /save and event history
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.

	// AllowedOrigins lists CORS origins; localhost dev servers are always allowed.
	AllowedOrigins []string

	srv *http.Server
}

// Router builds the chi router with all routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: append([]string{"http://localhost:5173", "http://localhost:4173", "http://localhost:3000"}, s.AllowedOrigins...),
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	adminLimiter := NewRateLimiter(120, time.Minute)

	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints (GET, read-only: anyone can look around the park).
		r.Get("/status", s.handleStatus)
		r.Get("/stats", s.handleStats)
		r.Get("/guests", s.handlePeeps(peep.TypeGuest))
		r.Get("/staff", s.handlePeeps(peep.TypeStaff))
		r.Get("/peeps/{kind}/{id}", s.handlePeep)
		r.Get("/rides", s.handleRides)
		r.Get("/rides/{id}", s.handleRide)
		r.Get("/events", s.handleEvents)
		r.Get("/speed", s.handleSpeed)

		// Admin endpoints (POST, require bearer token).
		r.Group(func(r chi.Router) {
			r.Use(s.adminOnly, RateLimit(adminLimiter))

			r.Post("/speed", s.handleSpeed)
			r.Post("/save", s.handleSave)
			r.Post("/applause", s.handleApplause)

			r.Post("/peeps/{kind}/{id}/pickup", s.handlePickup)
			r.Post("/peeps/{kind}/{id}/abort", s.handleAbort)
			r.Post("/peeps/{kind}/{id}/place", s.handlePlace)
			r.Post("/peeps/{kind}/{id}/rename", s.handleRename)

			r.Post("/staff", s.handleHire)
			r.Post("/staff/{id}/fire", s.handleFire)
			r.Post("/staff/{id}/patrol", s.handlePatrol)

			r.Post("/rides/{id}/open", s.handleRideOpen)
		})
	})
	return r
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.Port)
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// Shutdown stops the HTTP server, letting in-flight requests finish.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

// checkBearerToken returns true if the request has a valid admin bearer token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly requires bearer token auth.
func (s *Server) adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.AdminKey == "" {
			http.Error(w, "admin endpoints disabled (no PARKSIM_ADMIN_KEY set)", http.StatusForbidden)
			return
		}
		if !s.checkBearerToken(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	var status map[string]any
	s.Sim.Do(func() error {
		tick := s.Sim.LastTick
		status = map[string]any{
			"save_id":              s.Sim.SaveID,
			"tick":                 tick,
			"park_time":            engine.ParkTime(tick),
			"month":                engine.MonthName(engine.MonthOf(tick)),
			"speed":                s.Eng.Speed(),
			"running":              s.Eng.Running(),
			"park_open":            s.Sim.Peeps.Park.Open,
			"rating":               s.Sim.Rating,
			"suggested_max_guests": s.Sim.SuggestedMaxGuests,
			"guests_in_park":       s.Sim.Peeps.GuestsInPark,
			"guests_heading_in":    s.Sim.Peeps.GuestsHeadingForPark,
			"staff":                s.Sim.Peeps.StaffCount(),
			"rides":                s.Sim.Rides.Count(),
			"cash":                 s.Sim.Finance.Cash.String(),
			"weather":              s.Sim.Climate.String(),
		}
		return nil
	})
	writeJSON(w, status)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Sim.Snapshot())
}

// peepView is the public face of a peep.
type peepView struct {
	Index     uint16          `json:"index"`
	ID        uint32          `json:"id"`
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	State     string          `json:"state"`
	Doing     string          `json:"doing"`
	Tile      world.TileCoord `json:"tile"`
	Happiness uint8           `json:"happiness"`
	Energy    uint8           `json:"energy"`
	Nausea    uint8           `json:"nausea"`
	Hunger    uint8           `json:"hunger"`
	Thirst    uint8           `json:"thirst"`
	Toilet    uint8           `json:"toilet"`
	Thoughts  []string        `json:"thoughts,omitempty"`
	Summary   string          `json:"summary,omitempty"`
	Guest     *peep.GuestRole `json:"guest,omitempty"`
	Staff     *peep.StaffRole `json:"staff,omitempty"`
}

func (s *Server) viewPeep(p *peep.Peep, detail bool) peepView {
	pw := s.Sim.Peeps
	v := peepView{
		Index:     p.Index,
		ID:        p.ID,
		Name:      p.DisplayName(pw.RealNames),
		Type:      p.Type.String(),
		State:     p.State.String(),
		Doing:     pw.FormatActionTo(p),
		Tile:      p.Pos.Tile(),
		Happiness: p.Happiness,
		Energy:    p.Energy,
		Nausea:    p.Nausea,
		Hunger:    p.Hunger,
		Thirst:    p.Thirst,
		Toilet:    p.Toilet,
		Summary:   pw.GuestSummary(p),
	}
	if !detail {
		return v
	}
	for _, th := range p.Thoughts {
		if th.Type == peep.ThoughtNone {
			break
		}
		v.Thoughts = append(v.Thoughts, pw.ThoughtText(th))
	}
	v.Guest = p.Guest()
	v.Staff = p.Staff()
	return v
}

// handlePeeps lists guests or staff in the park's display order.
func (s *Server) handlePeeps(kind peep.PeepType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := queryInt(r, "limit", 100, 1, 5000)
		state := r.URL.Query().Get("state")

		var out []peepView
		s.Sim.Do(func() error {
			var list []*peep.Peep
			if kind == peep.TypeGuest {
				list = s.Sim.Peeps.Guests()
			} else {
				list = s.Sim.Peeps.StaffMembers()
			}
			slices.SortFunc(list, s.Sim.Peeps.Compare)
			out = make([]peepView, 0, min(limit, len(list)))
			for _, p := range list {
				if len(out) == limit {
					break
				}
				if state != "" && p.State.String() != state {
					continue
				}
				out = append(out, s.viewPeep(p, false))
			}
			return nil
		})
		writeJSON(w, out)
	}
}

func (s *Server) handlePeep(w http.ResponseWriter, r *http.Request) {
	ref, err := peepRef(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var view peepView
	err = s.Sim.Do(func() error {
		p, err := s.Sim.Peeps.FindByID(ref.Type, ref.ID)
		if err != nil {
			return err
		}
		view = s.viewPeep(p, true)
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, view)
}

// rideView is the public face of a ride.
type rideView struct {
	ID          ride.ID `json:"id"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Open        bool    `json:"open"`
	BrokenDown  bool    `json:"broken_down"`
	Breakdown   string  `json:"breakdown,omitempty"`
	Price       string  `json:"price"`
	Queue       int     `json:"queue"`
	Riders      uint16  `json:"riders"`
	Customers   uint32  `json:"customers"`
	Reliability uint8   `json:"reliability"`
	Excitement  int     `json:"excitement"`
	Intensity   int     `json:"intensity"`
}

func viewRide(r *ride.Ride) rideView {
	v := rideView{
		ID:          r.ID,
		Name:        r.Name,
		Type:        r.Type.String(),
		Open:        r.IsOpen(),
		BrokenDown:  r.BrokenDown(),
		Price:       r.Price.String(),
		Queue:       r.QueueLength(),
		Riders:      r.NumRiders,
		Customers:   r.TotalCustomers,
		Reliability: r.Reliability,
		Excitement:  int(r.Excitement),
		Intensity:   int(r.Intensity),
	}
	if v.BrokenDown {
		v.Breakdown = r.BreakdownReason.String()
	}
	return v
}

func (s *Server) handleRides(w http.ResponseWriter, r *http.Request) {
	var out []rideView
	s.Sim.Do(func() error {
		for _, rd := range s.Sim.Rides.All() {
			out = append(out, viewRide(rd))
		}
		return nil
	})
	writeJSON(w, out)
}

func (s *Server) handleRide(w http.ResponseWriter, r *http.Request) {
	id, err := rideID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var view rideView
	err = s.Sim.Do(func() error {
		rd := s.Sim.Rides.Get(id)
		if rd == nil {
			return fmt.Errorf("ride %d: %w", id, engine.ErrNotFound)
		}
		view = viewRide(rd)
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, view)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50, 1, 500)

	var events []engine.Event
	if r.URL.Query().Get("history") != "" && s.DB != nil {
		var err error
		if events, err = s.DB.RecentEvents(limit); err != nil {
			writeError(w, err)
			return
		}
		slices.Reverse(events)
	} else {
		events = s.Sim.RecentEvents(engineWindow)
	}

	// Optional category filter: "guest", "staff", "ride", "warning", "finance", "weather", "admin".
	if category := r.URL.Query().Get("category"); category != "" {
		events = slices.DeleteFunc(events, func(e engine.Event) bool { return e.Category != category })
	}
	if len(events) > limit {
		events = events[len(events)-limit:]
	}
	writeJSON(w, events)
}

// engineWindow covers every event the simulation keeps in memory.
const engineWindow = 1000

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		var req struct {
			Speed float64 `json:"speed"`
		}
		if !readJSON(w, r, &req) {
			return
		}
		if req.Speed < 0 || req.Speed > 1000 {
			http.Error(w, "speed must be 0-1000", http.StatusBadRequest)
			return
		}
		s.Eng.SetSpeed(req.Speed)
		slog.Info("speed changed", "speed", req.Speed)
	}

	writeJSON(w, map[string]float64{"speed": s.Eng.Speed()})
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "no database configured", http.StatusServiceUnavailable)
		return
	}
	if err := s.DB.SaveWorldState(s.Sim); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]any{"saved": true, "tick": s.Sim.CurrentTick()})
}

func (s *Server) handleApplause(w http.ResponseWriter, r *http.Request) {
	writeResult(w, s.Sim.CelebrateRide(), nil)
}

func (s *Server) handlePickup(w http.ResponseWriter, r *http.Request) {
	ref, err := peepRef(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	desc, err := s.Sim.PickUp(ref)
	writeResult(w, desc, err)
}

func (s *Server) handleAbort(w http.ResponseWriter, r *http.Request) {
	ref, err := peepRef(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	desc, err := s.Sim.PutBack(ref)
	writeResult(w, desc, err)
}

func (s *Server) handlePlace(w http.ResponseWriter, r *http.Request) {
	ref, err := peepRef(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var req world.TileCoord
	if !readJSON(w, r, &req) {
		return
	}
	desc, err := s.Sim.Drop(ref, req)
	writeResult(w, desc, err)
}

func (s *Server) handleRename(w http.ResponseWriter, r *http.Request) {
	ref, err := peepRef(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	if len(req.Name) > peep.MaxNameLength {
		http.Error(w, fmt.Sprintf("name longer than %d bytes", peep.MaxNameLength), http.StatusBadRequest)
		return
	}
	desc, err := s.Sim.Rename(ref, req.Name)
	writeResult(w, desc, err)
}

func (s *Server) handleHire(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type string `json:"type"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	t, err := peep.ParseStaffType(req.Type)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ref, desc, err := s.Sim.Hire(t)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, map[string]any{"peep": ref, "result": desc})
}

func (s *Server) handleFire(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		http.Error(w, "invalid staff id", http.StatusBadRequest)
		return
	}
	desc, err := s.Sim.Dismiss(uint32(id))
	writeResult(w, desc, err)
}

func (s *Server) handlePatrol(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		http.Error(w, "invalid staff id", http.StatusBadRequest)
		return
	}
	var req struct {
		X  int  `json:"x"`
		Y  int  `json:"y"`
		On bool `json:"on"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	desc, err := s.Sim.Patrol(uint32(id), world.TileCoord{X: req.X, Y: req.Y}, req.On)
	writeResult(w, desc, err)
}

func (s *Server) handleRideOpen(w http.ResponseWriter, r *http.Request) {
	id, err := rideID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var req struct {
		Open bool `json:"open"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	desc, err := s.Sim.SetRideOpen(id, req.Open)
	writeResult(w, desc, err)
}

// peepRef reads the {kind}/{id} route parameters.
func peepRef(r *http.Request) (engine.PeepRef, error) {
	var ref engine.PeepRef
	switch kind := chi.URLParam(r, "kind"); kind {
	case "guest":
		ref.Type = peep.TypeGuest
	case "staff":
		ref.Type = peep.TypeStaff
	default:
		return ref, fmt.Errorf("unknown peep kind %q", kind)
	}
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		return ref, fmt.Errorf("invalid peep id")
	}
	ref.ID = uint32(id)
	return ref, nil
}

func rideID(r *http.Request) (ride.ID, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid ride id")
	}
	return ride.ID(id), nil
}

func queryInt(r *http.Request, key string, def, lo, hi int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= lo && n <= hi {
			return n
		}
	}
	return def
}

func readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return false
	}
	return true
}

// writeResult reports the outcome of an intervention.
func writeResult(w http.ResponseWriter, desc string, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]string{"result": desc})
}

// writeError maps park errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, engine.ErrNotFound), errors.Is(err, peep.ErrNoSuchPeep):
		status = http.StatusNotFound
	case errors.Is(err, peep.ErrNotStaff), errors.Is(err, peep.ErrInvalidPlacement):
		status = http.StatusBadRequest
	case errors.Is(err, peep.ErrNotPickable), errors.Is(err, peep.ErrStaffLimit), errors.Is(err, peep.ErrPoolExhausted):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		slog.Error("API request failed", "error", err)
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, data any) {
	writeJSONStatus(w, http.StatusOK, data)
}

func writeJSONStatus(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
