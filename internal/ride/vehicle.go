package ride

// TrainStatus is where a train is in its station cycle.
type TrainStatus uint8

const (
	TrainLoading TrainStatus = iota
	TrainTravelling
	TrainUnloading
)

func (s TrainStatus) String() string {
	switch s {
	case TrainLoading:
		return "loading"
	case TrainTravelling:
		return "travelling"
	default:
		return "unloading"
	}
}

// Seat holds one rider. A seat is claimed when a guest commits to it at the
// entrance and boarded once the guest has walked to the car.
type Seat struct {
	Peep    uint16 `json:"peep"`
	Boarded bool   `json:"boarded"`
}

// Car is one vehicle of a train.
type Car struct {
	Seats []Seat `json:"seats"`
}

// Train is a set of cars that loads, travels and unloads together.
type Train struct {
	Status TrainStatus `json:"status"`
	Timer  uint16      `json:"timer"`
	Cars   []Car       `json:"cars"`
}

// NewTrain creates an empty train waiting at the station.
func NewTrain(cars, seatsPerCar int) *Train {
	t := &Train{Cars: make([]Car, cars)}
	for i := range t.Cars {
		t.Cars[i].Seats = make([]Seat, seatsPerCar)
		for s := range t.Cars[i].Seats {
			t.Cars[i].Seats[s].Peep = NoPeep
		}
	}
	return t
}

// SeatAt returns a seat, or nil if the address is out of range.
func (t *Train) SeatAt(car, seat int) *Seat {
	if car < 0 || car >= len(t.Cars) || seat < 0 || seat >= len(t.Cars[car].Seats) {
		return nil
	}
	return &t.Cars[car].Seats[seat]
}

// Occupied counts claimed seats.
func (t *Train) Occupied() int {
	n := 0
	for c := range t.Cars {
		for _, s := range t.Cars[c].Seats {
			if s.Peep != NoPeep {
				n++
			}
		}
	}
	return n
}

// Capacity is the number of seats on the train.
func (t *Train) Capacity() int {
	n := 0
	for c := range t.Cars {
		n += len(t.Cars[c].Seats)
	}
	return n
}

// allBoarded reports whether every claimed seat has its rider aboard.
func (t *Train) allBoarded() bool {
	for c := range t.Cars {
		for _, s := range t.Cars[c].Seats {
			if s.Peep != NoPeep && !s.Boarded {
				return false
			}
		}
	}
	return true
}

// Vacate frees any seat held by peep.
func (t *Train) Vacate(peep uint16) bool {
	for c := range t.Cars {
		for s := range t.Cars[c].Seats {
			if t.Cars[c].Seats[s].Peep == peep {
				t.Cars[c].Seats[s] = Seat{Peep: NoPeep}
				return true
			}
		}
	}
	return false
}

// FindFreeSeat returns the first unclaimed seat on a loading train, scanning
// trains, cars and seats in order.
func (r *Ride) FindFreeSeat() (train, car, seat int, ok bool) {
	for ti, t := range r.Trains {
		if t.Status != TrainLoading {
			continue
		}
		for ci := range t.Cars {
			for si, s := range t.Cars[ci].Seats {
				if s.Peep == NoPeep {
					return ti, ci, si, true
				}
			}
		}
	}
	return 0, 0, 0, false
}

// ClaimSeat reserves a seat for peep. The seat must be free and its train loading.
func (r *Ride) ClaimSeat(train, car, seat int, peep uint16) error {
	if train < 0 || train >= len(r.Trains) {
		return ErrSeatTaken
	}
	t := r.Trains[train]
	s := t.SeatAt(car, seat)
	if s == nil || s.Peep != NoPeep || t.Status != TrainLoading {
		return ErrSeatTaken
	}
	s.Peep = peep
	s.Boarded = false
	return nil
}

// BoardSeat marks the claimant as seated.
func (r *Ride) BoardSeat(train, car, seat int, peep uint16) bool {
	if train < 0 || train >= len(r.Trains) {
		return false
	}
	s := r.Trains[train].SeatAt(car, seat)
	if s == nil || s.Peep != peep {
		return false
	}
	s.Boarded = true
	return true
}

// VacateSeat releases a seat held by peep.
func (r *Ride) VacateSeat(train, car, seat int, peep uint16) {
	if train < 0 || train >= len(r.Trains) {
		return
	}
	s := r.Trains[train].SeatAt(car, seat)
	if s != nil && s.Peep == peep {
		*s = Seat{Peep: NoPeep}
	}
}

// Train returns a train by index, or nil.
func (r *Ride) Train(i int) *Train {
	if i < 0 || i >= len(r.Trains) {
		return nil
	}
	return r.Trains[i]
}

// updateTrains advances every train through one tick of its cycle.
func (r *Ride) updateTrains() {
	for i, t := range r.Trains {
		switch t.Status {
		case TrainLoading:
			if t.Timer < r.LoadTime {
				t.Timer++
			}
			occupied := t.Occupied()
			if occupied == 0 || !t.allBoarded() || r.BrokenDown() {
				continue
			}
			if t.Timer >= r.LoadTime || occupied == t.Capacity() {
				t.Status = TrainTravelling
				t.Timer = 0
			}
		case TrainTravelling:
			if r.BrokenDown() && int(r.BrokenTrain) == i {
				continue
			}
			t.Timer++
			if t.Timer >= r.RideTime {
				t.Status = TrainUnloading
				t.Timer = 0
			}
		case TrainUnloading:
			if t.Occupied() == 0 {
				t.Status = TrainLoading
				t.Timer = 0
			}
		}
	}
}
