package persistence

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/talgya/park-peeps/internal/economy"
	"github.com/talgya/park-peeps/internal/engine"
	"github.com/talgya/park-peeps/internal/entropy"
	"github.com/talgya/park-peeps/internal/peep"
	"github.com/talgya/park-peeps/internal/ride"
	"github.com/talgya/park-peeps/internal/weather"
	"github.com/talgya/park-peeps/internal/world"
)

type peepRow struct {
	Idx    uint16
	ID     uint32
	Type   peep.PeepType
	Name   string
	Record []byte
}

type rideRow struct {
	ID       ride.ID
	Name     string
	RideJSON string
}

type tileRow struct {
	X        int
	Y        int
	TileJSON string
}

type patrolRow struct {
	Staff int
	Area  []byte
}

// snapshot is a park encoded into rows, ready to write without the
// simulation lock.
type snapshot struct {
	peeps   []peepRow
	rides   []rideRow
	tiles   []tileRow
	patrols []patrolRow
	events  []engine.Event // Emitted since the last save
	meta    map[string]string
}

func encode(st engine.ParkState, w *peep.World, eventsSaved uint64) (*snapshot, error) {
	snap := &snapshot{meta: map[string]string{}}

	var err error
	w.Pool.Each(func(p *peep.Peep) {
		if err != nil {
			return
		}
		rec, merr := p.MarshalBinary()
		if merr != nil {
			err = fmt.Errorf("peep %d: %w", p.Index, merr)
			return
		}
		snap.peeps = append(snap.peeps, peepRow{
			Idx:    p.Index,
			ID:     p.ID,
			Type:   p.Type,
			Name:   p.DisplayName(w.RealNames),
			Record: rec,
		})
	})
	if err != nil {
		return nil, err
	}

	for _, r := range st.Rides.All() {
		data, err := json.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("ride %d: %w", r.ID, err)
		}
		snap.rides = append(snap.rides, rideRow{ID: r.ID, Name: r.Name, RideJSON: string(data)})
	}

	for i := range st.Map.Tiles {
		t := &st.Map.Tiles[i]
		data, err := json.Marshal(t)
		if err != nil {
			return nil, fmt.Errorf("tile %d,%d: %w", t.Coord.X, t.Coord.Y, err)
		}
		snap.tiles = append(snap.tiles, tileRow{X: t.Coord.X, Y: t.Coord.Y, TileJSON: string(data)})
	}

	for i := range st.Patrols {
		a := st.Patrols[i]
		if a.Empty() {
			continue
		}
		data, err := a.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("patrol %d: %w", i, err)
		}
		snap.patrols = append(snap.patrols, patrolRow{Staff: i, Area: data})
	}

	if fresh := st.Emitted - min(eventsSaved, st.Emitted); fresh > 0 {
		n := min(int(fresh), len(st.Events))
		snap.events = st.Events[len(st.Events)-n:]
	}

	rng, err := st.RNG.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("rng: %w", err)
	}
	snap.meta["save_id"] = st.SaveID.String()
	snap.meta["last_tick"] = strconv.FormatUint(st.Tick, 10)
	snap.meta["rng"] = hex.EncodeToString(rng)
	snap.meta["capacity"] = strconv.Itoa(st.Capacity)
	snap.meta["events_saved"] = strconv.FormatUint(st.Emitted, 10)

	jsonMeta := map[string]any{
		"map":      st.Map,
		"layout":   st.Layout,
		"finance":  st.Finance,
		"climate":  st.Climate,
		"park":     st.Park,
		"roster":   st.Roster,
		"counters": st.Counters,
	}
	for k, v := range jsonMeta {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("meta %s: %w", k, err)
		}
		snap.meta[k] = string(data)
	}
	return snap, nil
}

func decode(meta map[string]string, rides []rideRow, tiles []tileRow, patrols []patrolRow, events []engine.Event) (engine.ParkState, error) {
	var st engine.ParkState
	var err error

	if st.SaveID, err = uuid.Parse(meta["save_id"]); err != nil {
		return st, fmt.Errorf("meta save_id: %w", err)
	}
	if st.Tick, err = strconv.ParseUint(meta["last_tick"], 10, 64); err != nil {
		return st, fmt.Errorf("meta last_tick: %w", err)
	}
	if st.Capacity, err = strconv.Atoi(meta["capacity"]); err != nil {
		return st, fmt.Errorf("meta capacity: %w", err)
	}
	if v, ok := meta["events_saved"]; ok {
		st.Emitted, _ = strconv.ParseUint(v, 10, 64)
	}

	raw, err := hex.DecodeString(meta["rng"])
	if err != nil {
		return st, fmt.Errorf("meta rng: %w", err)
	}
	st.RNG = &entropy.Stream{}
	if err := st.RNG.UnmarshalBinary(raw); err != nil {
		return st, err
	}

	var size world.Map
	if err := metaJSON(meta, "map", &size); err != nil {
		return st, err
	}
	st.Map = world.NewMap(size.Width, size.Height)
	for _, r := range tiles {
		t := st.Map.TileAt(world.TileCoord{X: r.X, Y: r.Y})
		if t == nil {
			return st, fmt.Errorf("tile %d,%d: off the %dx%d map", r.X, r.Y, size.Width, size.Height)
		}
		if err := json.Unmarshal([]byte(r.TileJSON), t); err != nil {
			return st, fmt.Errorf("tile %d,%d: %w", r.X, r.Y, err)
		}
	}

	st.Finance = &economy.Finance{}
	st.Climate = weather.Default()
	for key, v := range map[string]any{
		"layout":   &st.Layout,
		"finance":  st.Finance,
		"climate":  &st.Climate,
		"park":     &st.Park,
		"roster":   &st.Roster,
		"counters": &st.Counters,
	} {
		if err := metaJSON(meta, key, v); err != nil {
			return st, err
		}
	}

	loaded := make([]*ride.Ride, 0, len(rides))
	for _, r := range rides {
		rd := &ride.Ride{}
		if err := json.Unmarshal([]byte(r.RideJSON), rd); err != nil {
			return st, fmt.Errorf("ride %d: %w", r.ID, err)
		}
		loaded = append(loaded, rd)
	}
	st.Rides = ride.NewRegistry()
	st.Rides.Restore(loaded)

	for _, r := range patrols {
		for r.Staff >= len(st.Patrols) {
			st.Patrols = append(st.Patrols, peep.PatrolArea{})
		}
		if err := st.Patrols[r.Staff].UnmarshalBinary(r.Area); err != nil {
			return st, fmt.Errorf("patrol %d: %w", r.Staff, err)
		}
	}

	st.Events = events
	return st, nil
}
