package board

import "runetable/internal/catalog"

// Scores holds the per-seat point totals. Never negative.
type Scores struct {
	P1 int
	P2 int
}

// Get returns the score for a seat.
func (s Scores) Get(seat Seat) int {
	if seat == SeatP2 {
		return s.P2
	}
	return s.P1
}

// Reveals holds each seat's revealed main-deck peek. The revealed cards
// stay in the main deck; this is presentation state visible to both seats.
type Reveals struct {
	P1 []*catalog.Card
	P2 []*catalog.Card
}

// MatchState is the complete replicated board: both seats' lists, every
// zone, scores, and reveals. It is fully replaced, never merged, on each
// incoming snapshot.
type MatchState struct {
	P1Lists *PlayerLists
	P2Lists *PlayerLists
	Zones   Zones
	Scores  Scores
	Reveals Reveals
}

// NewMatchState builds a match state with empty zones and no lists.
func NewMatchState() *MatchState {
	return &MatchState{Zones: NewZones()}
}

// Lists returns the list set for a seat, or nil if that seat's deck has
// not materialized yet.
func (st *MatchState) Lists(seat Seat) *PlayerLists {
	switch seat {
	case SeatP1:
		return st.P1Lists
	case SeatP2:
		return st.P2Lists
	default:
		return nil
	}
}

// SetLists installs the list set for a seat.
func (st *MatchState) SetLists(seat Seat, pl *PlayerLists) {
	switch seat {
	case SeatP1:
		st.P1Lists = pl
	case SeatP2:
		st.P2Lists = pl
	}
}

// SetReveals replaces a seat's reveal list.
func (st *MatchState) SetReveals(seat Seat, cards []*catalog.Card) {
	switch seat {
	case SeatP1:
		st.Reveals.P1 = cards
	case SeatP2:
		st.Reveals.P2 = cards
	}
}

// RevealsFor returns a seat's reveal list.
func (st *MatchState) RevealsFor(seat Seat) []*catalog.Card {
	if seat == SeatP2 {
		return st.Reveals.P2
	}
	return st.Reveals.P1
}

// AddScore adjusts a seat's score by delta, flooring at zero.
func (st *MatchState) AddScore(seat Seat, delta int) {
	switch seat {
	case SeatP1:
		st.Scores.P1 = floorZero(st.Scores.P1 + delta)
	case SeatP2:
		st.Scores.P2 = floorZero(st.Scores.P2 + delta)
	}
}

func floorZero(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// OwnedCardIDs returns the multiset of card ids a seat currently accounts
// for: its six lists plus every zone occupant it owns. Conservation says
// this always equals the seat's materialized deck.
func (st *MatchState) OwnedCardIDs(seat Seat) []string {
	var ids []string
	if pl := st.Lists(seat); pl != nil {
		ids = append(ids, pl.CardIDs()...)
	}
	for _, id := range AllZoneIDs() {
		for _, zc := range st.Zones.CardsIn(id) {
			if zc.Owner == seat {
				ids = append(ids, zc.Card.ID)
			}
		}
	}
	return ids
}
