package board

import (
	"fmt"

	"runetable/internal/catalog"
)

// --- Seats and roles ---

// Seat identifies one of the two match participants.
type Seat int

const (
	SeatNone Seat = iota
	SeatP1
	SeatP2
)

func (s Seat) String() string {
	switch s {
	case SeatP1:
		return "p1"
	case SeatP2:
		return "p2"
	default:
		return ""
	}
}

// Other returns the opposing seat.
func (s Seat) Other() Seat {
	switch s {
	case SeatP1:
		return SeatP2
	case SeatP2:
		return SeatP1
	default:
		return SeatNone
	}
}

// ParseSeat parses the wire form of a seat. Anything unrecognized is SeatNone.
func ParseSeat(s string) Seat {
	switch s {
	case "p1":
		return SeatP1
	case "p2":
		return SeatP2
	default:
		return SeatNone
	}
}

// Role is what the local viewer is to a match. Derived per-viewer from
// lobby membership, never stored on match state.
type Role int

const (
	RoleNone Role = iota
	RoleP1
	RoleP2
	RoleSpectator
)

func (r Role) String() string {
	switch r {
	case RoleP1:
		return "p1"
	case RoleP2:
		return "p2"
	case RoleSpectator:
		return "spectator"
	default:
		return "none"
	}
}

// Seat returns the seat a role occupies, or SeatNone for spectators.
func (r Role) Seat() Seat {
	switch r {
	case RoleP1:
		return SeatP1
	case RoleP2:
		return SeatP2
	default:
		return SeatNone
	}
}

// --- Zone identifiers ---

// ZoneKind enumerates the closed set of board locations.
type ZoneKind int

const (
	KindLegend ZoneKind = iota
	KindChampion
	KindBase
	KindRuneChannel
	KindRuneDeck
	KindDiscard
	KindDeck
	KindHand
	KindBattlefieldOne
	KindBattlefieldTwo
)

func (k ZoneKind) String() string {
	switch k {
	case KindLegend:
		return "Legend"
	case KindChampion:
		return "Champion"
	case KindBase:
		return "Base"
	case KindRuneChannel:
		return "RuneChannel"
	case KindRuneDeck:
		return "RuneDeck"
	case KindDiscard:
		return "Discard"
	case KindDeck:
		return "Deck"
	case KindHand:
		return "Hand"
	case KindBattlefieldOne:
		return "Battlefield1"
	case KindBattlefieldTwo:
		return "Battlefield2"
	default:
		return "Unknown"
	}
}

// zoneKinds lists every kind once, in board layout order.
var zoneKinds = []ZoneKind{
	KindLegend,
	KindChampion,
	KindBase,
	KindRuneChannel,
	KindRuneDeck,
	KindDiscard,
	KindDeck,
	KindHand,
	KindBattlefieldOne,
	KindBattlefieldTwo,
}

// ZoneID names a board location as a (seat, kind) pair. The battlefield
// kinds are shared zones; the seat tags which half of the battlefield.
type ZoneID struct {
	Seat Seat
	Kind ZoneKind
}

func (z ZoneID) String() string {
	return z.Seat.String() + z.Kind.String()
}

// ParseZoneID parses the wire form of a zone id, e.g. "p1Hand".
func ParseZoneID(s string) (ZoneID, error) {
	if len(s) < 3 {
		return ZoneID{}, fmt.Errorf("zone id too short: %q", s)
	}
	seat := ParseSeat(s[:2])
	if seat == SeatNone {
		return ZoneID{}, fmt.Errorf("zone id %q: unknown seat", s)
	}
	rest := s[2:]
	for _, k := range zoneKinds {
		if k.String() == rest {
			return ZoneID{Seat: seat, Kind: k}, nil
		}
	}
	return ZoneID{}, fmt.Errorf("zone id %q: unknown kind", s)
}

// ZoneIDFor is shorthand for a seat-scoped zone id.
func ZoneIDFor(seat Seat, kind ZoneKind) ZoneID {
	return ZoneID{Seat: seat, Kind: kind}
}

// AllZoneIDs returns every zone in the closed set, p1 zones first.
func AllZoneIDs() []ZoneID {
	ids := make([]ZoneID, 0, len(zoneKinds)*2)
	for _, seat := range []Seat{SeatP1, SeatP2} {
		for _, k := range zoneKinds {
			ids = append(ids, ZoneID{Seat: seat, Kind: k})
		}
	}
	return ids
}

// KeepsRotation reports whether a card landing in this zone keeps its
// current rotation. Everywhere else a move implies a tap to 90 degrees.
func (z ZoneID) KeepsRotation() bool {
	switch z.Kind {
	case KindHand, KindRuneChannel, KindLegend:
		return true
	default:
		return false
	}
}

// --- Zone occupants ---

// ZoneCard is a card placed in a zone, tagged with the seat whose deck
// contributed it.
type ZoneCard struct {
	Card  *catalog.Card
	Owner Seat
}
