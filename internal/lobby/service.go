package lobby

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"runetable/internal/docstore"
)

// Seat-claim errors. These surface to the UI so a user knows why a seat
// grab failed; board operations never return errors like these.
var (
	ErrSeatTaken    = errors.New("lobby: seat already taken")
	ErrNotInSeat    = errors.New("lobby: user does not hold that seat")
	ErrLobbyClosed  = errors.New("lobby: lobby is closed")
	ErrLobbyMissing = errors.New("lobby: no such lobby")
)

// PathFor returns the document path of a lobby.
func PathFor(id string) string {
	return "lobbies/" + id
}

// MatchStatePath returns the match-state document path under a lobby.
func MatchStatePath(id string) string {
	return PathFor(id) + "/matchState"
}

// CardStatePath returns the rotation/hidden overlay document path for a
// composite card-instance key under a lobby.
func CardStatePath(id, key string) string {
	return PathFor(id) + "/cardStates/" + key
}

// Service reads and writes lobby documents. Seat claiming and leaving go
// through the store's atomic Update so two users can never win the same
// seat; everything else is a plain overwrite.
type Service struct {
	store docstore.Store
}

// NewService creates a lobby service over a document store.
func NewService(store docstore.Store) *Service {
	return &Service{store: store}
}

// Create opens a new lobby hosted by the given user and persists it.
func (s *Service) Create(ctx context.Context, hostUID, hostUsername string) (*Lobby, error) {
	l := &Lobby{
		ID:           uuid.NewString(),
		HostUID:      hostUID,
		HostUsername: hostUsername,
		Status:       StatusOpen,
		Rules:        Rules{BestOf: 1},
	}
	if err := s.put(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// Get loads a lobby document.
func (s *Service) Get(ctx context.Context, id string) (*Lobby, error) {
	data, err := s.store.Get(ctx, PathFor(id))
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrLobbyMissing
	}
	if err != nil {
		return nil, err
	}
	return decode(data)
}

// ClaimSeat atomically seats a user. Fails with ErrSeatTaken if another
// user already holds the seat; re-claiming one's own seat is a no-op.
func (s *Service) ClaimSeat(ctx context.Context, id, seat string, m Member) error {
	return s.update(ctx, id, func(l *Lobby) error {
		if l.Status == StatusClosed {
			return ErrLobbyClosed
		}
		if seat != "p1" && seat != "p2" {
			return fmt.Errorf("lobby: unknown seat %q", seat)
		}
		if l.SeatOf(m.UID) == seat {
			return nil
		}
		occupant := l.P1
		if seat == "p2" {
			occupant = l.P2
		}
		if occupant != nil {
			return ErrSeatTaken
		}
		// Seating a user vacates any other seat they held.
		if l.P1 != nil && l.P1.UID == m.UID {
			l.P1, l.P1Ready, l.P1Deck = nil, false, ""
		}
		if l.P2 != nil && l.P2.UID == m.UID {
			l.P2, l.P2Ready, l.P2Deck = nil, false, ""
		}
		member := &Member{UID: m.UID, Username: m.Username}
		if seat == "p1" {
			l.P1 = member
		} else {
			l.P2 = member
		}
		return nil
	})
}

// LeaveSeat atomically vacates a user's seat and clears its ready flag
// and deck choice.
func (s *Service) LeaveSeat(ctx context.Context, id, uid string) error {
	return s.update(ctx, id, func(l *Lobby) error {
		switch {
		case l.P1 != nil && l.P1.UID == uid:
			l.P1, l.P1Ready, l.P1Deck = nil, false, ""
		case l.P2 != nil && l.P2.UID == uid:
			l.P2, l.P2Ready, l.P2Deck = nil, false, ""
		default:
			return ErrNotInSeat
		}
		return nil
	})
}

// SetReady flips a seat's ready flag for the user holding it.
func (s *Service) SetReady(ctx context.Context, id, uid string, ready bool) error {
	return s.update(ctx, id, func(l *Lobby) error {
		switch l.SeatOf(uid) {
		case "p1":
			l.P1Ready = ready
		case "p2":
			l.P2Ready = ready
		default:
			return ErrNotInSeat
		}
		return nil
	})
}

// SetDeck records a seat's chosen deck id.
func (s *Service) SetDeck(ctx context.Context, id, uid, deckID string) error {
	return s.update(ctx, id, func(l *Lobby) error {
		switch l.SeatOf(uid) {
		case "p1":
			l.P1Deck = deckID
		case "p2":
			l.P2Deck = deckID
		default:
			return ErrNotInSeat
		}
		return nil
	})
}

// SetStatus advances the lobby lifecycle. Closed is terminal.
func (s *Service) SetStatus(ctx context.Context, id string, status Status) error {
	return s.update(ctx, id, func(l *Lobby) error {
		if l.Status == StatusClosed {
			return ErrLobbyClosed
		}
		l.Status = status
		return nil
	})
}

// AddSpectator appends a spectator if not already present in any role.
func (s *Service) AddSpectator(ctx context.Context, id string, m Member) error {
	return s.update(ctx, id, func(l *Lobby) error {
		if l.SeatOf(m.UID) != "" {
			return nil
		}
		for _, sp := range l.Spectators {
			if sp.UID == m.UID {
				return nil
			}
		}
		l.Spectators = append(l.Spectators, m)
		return nil
	})
}

// Subscribe delivers decoded lobby snapshots until unsubscribed.
func (s *Service) Subscribe(ctx context.Context, id string, fn func(*Lobby)) (func(), error) {
	return s.store.Subscribe(ctx, PathFor(id), func(data []byte) {
		if l, err := decode(data); err == nil {
			fn(l)
		}
	})
}

func (s *Service) put(ctx context.Context, l *Lobby) error {
	data, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("encode lobby: %w", err)
	}
	return s.store.Overwrite(ctx, PathFor(l.ID), data)
}

func (s *Service) update(ctx context.Context, id string, fn func(*Lobby) error) error {
	return s.store.Update(ctx, PathFor(id), func(old []byte) ([]byte, error) {
		if old == nil {
			return nil, ErrLobbyMissing
		}
		l, err := decode(old)
		if err != nil {
			return nil, err
		}
		if err := fn(l); err != nil {
			return nil, err
		}
		return json.Marshal(l)
	})
}

func decode(data []byte) (*Lobby, error) {
	var l Lobby
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("decode lobby: %w", err)
	}
	return &l, nil
}
