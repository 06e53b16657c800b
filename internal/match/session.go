// Package match implements the session controller for a two-player
// tabletop match. A Session mirrors the shared lobby and match-state
// documents, applies board operations optimistically against its local
// copy, and pushes the complete state back through the document store.
// There is no server-side rule enforcement: clients are cooperatively
// authoritative and the last full-state write wins.
package match

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"runetable/internal/board"
	"runetable/internal/catalog"
	"runetable/internal/deck"
	"runetable/internal/docstore"
	"runetable/internal/lobby"
	"runetable/internal/log"
	"runetable/internal/wire"
)

// User is the local viewer, as supplied by the external identity
// provider. Only the uid and display name are consumed here.
type User struct {
	UID      string
	Username string
}

// DeckLoader fetches persisted deck documents by id.
type DeckLoader interface {
	Deck(ctx context.Context, id string) (*deck.Deck, error)
}

// Phase is the session lifecycle, derived from the lobby status.
type Phase int

const (
	PhaseAwaitingLobby Phase = iota
	PhaseAwaitingDecks
	PhaseActive
	PhaseTerminated
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaitingLobby:
		return "awaiting-lobby"
	case PhaseAwaitingDecks:
		return "awaiting-decks"
	case PhaseActive:
		return "active"
	case PhaseTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Config configures a Session.
type Config struct {
	Store   docstore.Store
	Catalog *catalog.Catalog
	Decks   DeckLoader
	Events  log.EventLogger
	Log     *logrus.Entry
	LobbyID string
	User    User
	Seed    int64 // RNG seed (0 for time-based)
}

// Session is one viewer's live connection to a match. Construct with
// New, attach with Start, release with Close.
type Session struct {
	store   docstore.Store
	cat     *catalog.Catalog
	decks   DeckLoader
	events  log.EventLogger
	log     *logrus.Entry
	lobbyID string
	user    User
	rng     *rand.Rand

	ctx context.Context

	mu           sync.Mutex
	phase        Phase
	lobby        *lobby.Lobby
	role         board.Role
	state        *board.MatchState
	loadingDecks bool
	loadedDecks  map[board.Seat]string
	dealt        map[board.Seat]bool
	unsubs       []func()
	closed       bool
}

// New creates a session for a lobby. It does not touch the store until
// Start.
func New(cfg Config) *Session {
	events := cfg.Events
	if events == nil {
		events = log.NewMemoryLogger()
	}
	logger := cfg.Log
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Session{
		store:       cfg.Store,
		cat:         cfg.Catalog,
		decks:       cfg.Decks,
		events:      events,
		log:         logger.WithField("lobby", cfg.LobbyID),
		lobbyID:     cfg.LobbyID,
		user:        cfg.User,
		rng:         rand.New(rand.NewSource(seed)),
		phase:       PhaseAwaitingLobby,
		state:       board.NewMatchState(),
		loadedDecks: make(map[board.Seat]string),
		dealt:       make(map[board.Seat]bool),
	}
}

// Start subscribes to the lobby and match-state documents. Snapshot
// callbacks drive the whole lifecycle from here on.
func (s *Session) Start(ctx context.Context) error {
	s.ctx = ctx
	s.events.Log(log.NewSessionStartEvent(s.lobbyID))

	unsubLobby, err := s.store.Subscribe(ctx, lobby.PathFor(s.lobbyID), s.onLobbySnapshot)
	if err != nil {
		return err
	}
	unsubState, err := s.store.Subscribe(ctx, lobby.MatchStatePath(s.lobbyID), s.onStateSnapshot)
	if err != nil {
		unsubLobby()
		return err
	}

	s.mu.Lock()
	s.unsubs = append(s.unsubs, unsubLobby, unsubState)
	s.mu.Unlock()
	return nil
}

// Close detaches the session from the store. In-flight writes are not
// cancelled, just unobserved.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	unsubs := s.unsubs
	s.unsubs = nil
	s.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}
	s.events.Log(log.NewSessionEndEvent(s.lobbyID))
}

// --- Snapshot handlers ---

func (s *Session) onLobbySnapshot(data []byte) {
	var l lobby.Lobby
	if err := json.Unmarshal(data, &l); err != nil {
		s.log.WithError(err).Warn("bad lobby snapshot")
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	s.lobby = &l
	s.role = s.resolveRole(&l)

	prev := s.phase
	switch l.Status {
	case lobby.StatusOpen, lobby.StatusSelectingDecks:
		s.phase = PhaseAwaitingDecks
	case lobby.StatusInGame:
		s.phase = PhaseActive
	case lobby.StatusClosed:
		s.phase = PhaseTerminated
	default:
		s.phase = PhaseAwaitingLobby
	}
	if s.phase != prev {
		s.events.Log(log.NewPhaseChangeEvent(s.phase.String()))
	}

	if s.phase == PhaseTerminated {
		// Eviction: forget seat tracking; the document disappears with
		// the lobby, there is no explicit destroy.
		s.role = board.RoleNone
		s.dealt = make(map[board.Seat]bool)
		s.mu.Unlock()
		return
	}

	if l.Status == lobby.StatusSelectingDecks || l.Status == lobby.StatusInGame {
		s.loadDecksLocked(&l)
	}
	var push []byte
	if s.phase == PhaseActive && s.dealLocked(&l) {
		push = s.encodeStateLocked()
	}
	s.mu.Unlock()

	s.replicate(push)
}

func (s *Session) onStateSnapshot(data []byte) {
	var doc wire.MatchStateDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		s.log.WithError(err).Warn("bad match-state snapshot")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	// The incoming document is authoritative and replaces local state
	// wholesale; optimistic local changes that lost a race are gone.
	s.state = wire.DecodeMatchState(&doc, s.cat)
}

// resolveRole derives what the local user is to this lobby.
func (s *Session) resolveRole(l *lobby.Lobby) board.Role {
	switch l.SeatOf(s.user.UID) {
	case "p1":
		return board.RoleP1
	case "p2":
		return board.RoleP2
	}
	for _, sp := range l.Spectators {
		if sp.UID == s.user.UID {
			return board.RoleSpectator
		}
	}
	return board.RoleNone
}

// loadDecksLocked materializes each seat's chosen deck once. A seat with
// no chosen deck resolves to nothing; loadingDecks stays true until both
// seats have resolved one way or the other.
func (s *Session) loadDecksLocked(l *lobby.Lobby) {
	s.loadingDecks = true
	for seat, deckID := range map[board.Seat]string{
		board.SeatP1: l.P1Deck,
		board.SeatP2: l.P2Deck,
	} {
		if deckID == "" || s.loadedDecks[seat] == deckID {
			continue
		}
		d, err := s.decks.Deck(s.ctx, deckID)
		if err != nil {
			s.log.WithError(err).WithField("deck", deckID).Warn("deck load failed")
			continue
		}
		s.loadedDecks[seat] = deckID
		if s.state.Lists(seat) == nil {
			pl := board.Materialize(d, s.cat)
			s.state.SetLists(seat, pl)
			s.events.Log(log.NewDecksLoadedEvent(seat.String(), len(pl.MainDeck)))
		}
	}
	s.loadingDecks = false
}

// dealLocked runs the initial legend/champion spawn for any seat whose
// lists are ready. Idempotent per seat: a second call has no further
// board effect. Reports whether the board mutated and needs a push.
func (s *Session) dealLocked(l *lobby.Lobby) bool {
	pushed := false
	for seat, deckID := range map[board.Seat]string{
		board.SeatP1: l.P1Deck,
		board.SeatP2: l.P2Deck,
	} {
		if deckID == "" || s.dealt[seat] {
			continue
		}
		pl := s.state.Lists(seat)
		if pl == nil {
			continue
		}
		s.dealt[seat] = true

		var legendName, championName string
		mutated := false
		if len(pl.Legend) > 0 {
			card := pl.Legend[0]
			pl.Legend = pl.Legend[1:]
			zone := board.ZoneIDFor(seat, board.KindLegend)
			s.state.Zones[zone] = []board.ZoneCard{{Card: card, Owner: seat}}
			legendName = card.Name
			mutated = true
		}
		if len(pl.ChosenChampion) > 0 {
			card := pl.ChosenChampion[0]
			pl.ChosenChampion = pl.ChosenChampion[1:]
			zone := board.ZoneIDFor(seat, board.KindChampion)
			s.state.Zones[zone] = []board.ZoneCard{{Card: card, Owner: seat}}
			championName = card.Name
			mutated = true
		}
		s.events.Log(log.NewDealEvent(seat.String(), legendName, championName))
		if mutated {
			pushed = true
		}
	}
	return pushed
}

// --- Accessors ---

// Phase returns the current lifecycle phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Role returns what the local user is to this match.
func (s *Session) Role() board.Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.role
}

// MySeat returns the local user's seat, or SeatNone for spectators.
func (s *Session) MySeat() board.Seat {
	return s.Role().Seat()
}

// Lobby returns the latest lobby snapshot, or nil before the first one.
func (s *Session) Lobby() *lobby.Lobby {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lobby
}

// LobbyID returns the lobby this session is attached to.
func (s *Session) LobbyID() string {
	return s.lobbyID
}

// User returns the local viewer.
func (s *Session) User() User {
	return s.user
}

// StateDoc returns the current board state in wire form, for rendering.
func (s *Session) StateDoc() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := json.Marshal(wire.EncodeMatchState(s.state))
	if err != nil {
		s.log.WithError(err).Error("encode state snapshot")
		return nil
	}
	return data
}
