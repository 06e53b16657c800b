package match

import (
	"context"
	"testing"

	"runetable/internal/board"
	"runetable/internal/catalog"
	"runetable/internal/deck"
	"runetable/internal/docstore"
	"runetable/internal/lobby"
	"runetable/internal/log"
)

// fakeDecks is an in-memory DeckLoader.
type fakeDecks map[string]*deck.Deck

func (f fakeDecks) Deck(ctx context.Context, id string) (*deck.Deck, error) {
	d, ok := f[id]
	if !ok {
		return nil, deck.ErrNotFound
	}
	return d, nil
}

func testCatalog() *catalog.Catalog {
	return catalog.New(
		&catalog.Card{ID: "LGN-1", Name: "Sigrid the Unbroken", Type: catalog.TypeLegend},
		&catalog.Card{ID: "LGN-2", Name: "Varek Stormcaller", Type: catalog.TypeLegend},
		&catalog.Card{ID: "CHM-1", Name: "Young Sigrid", Type: catalog.TypeChampion},
		&catalog.Card{ID: "CHM-2", Name: "Young Varek", Type: catalog.TypeChampion},
		&catalog.Card{ID: "BF-1", Name: "Frozen Pass", Type: catalog.TypeBattlefield},
		&catalog.Card{ID: "RU-1", Name: "Order Rune", Type: catalog.TypeRune},
		&catalog.Card{ID: "RU-2", Name: "Chaos Rune", Type: catalog.TypeRune},
		&catalog.Card{ID: "U-1", Name: "Shield Bearer", Type: catalog.TypeUnit},
		&catalog.Card{ID: "U-2", Name: "Wolf Rider", Type: catalog.TypeUnit},
		&catalog.Card{ID: "SP-1", Name: "Sudden Squall", Type: catalog.TypeSpell},
	)
}

func deckFor(legend, champion string) *deck.Deck {
	return &deck.Deck{
		Legend:   legend,
		Champion: champion,
		Cards: []deck.Entry{
			{CardID: legend, Count: 1},
			{CardID: champion, Count: 1},
			{CardID: "BF-1", Count: 1},
			{CardID: "RU-1", Count: 2},
			{CardID: "RU-2", Count: 2},
			{CardID: "U-1", Count: 3},
			{CardID: "U-2", Count: 2},
			{CardID: "SP-1", Count: 1},
		},
	}
}

// rig is a full single-node hub: memory store, lobby with both seats
// claimed and decks chosen, and one session attached as p1.
type rig struct {
	store   *docstore.Memory
	cat     *catalog.Catalog
	decks   fakeDecks
	lobbies *lobby.Service
	lobbyID string
	events  *log.MemoryLogger
	sess    *Session
}

func newRig(t *testing.T) *rig {
	t.Helper()
	ctx := context.Background()

	r := &rig{
		store: docstore.NewMemory(),
		cat:   testCatalog(),
		decks: fakeDecks{
			"deck-1": deckFor("LGN-1", "CHM-1"),
			"deck-2": deckFor("LGN-2", "CHM-2"),
		},
		events: log.NewMemoryLogger(),
	}
	r.lobbies = lobby.NewService(r.store)

	l, err := r.lobbies.Create(ctx, "u1", "Ana")
	if err != nil {
		t.Fatalf("create lobby: %v", err)
	}
	r.lobbyID = l.ID
	mustDo(t, r.lobbies.ClaimSeat(ctx, l.ID, "p1", lobby.Member{UID: "u1", Username: "Ana"}))
	mustDo(t, r.lobbies.ClaimSeat(ctx, l.ID, "p2", lobby.Member{UID: "u2", Username: "Bo"}))
	mustDo(t, r.lobbies.SetDeck(ctx, l.ID, "u1", "deck-1"))
	mustDo(t, r.lobbies.SetDeck(ctx, l.ID, "u2", "deck-2"))
	mustDo(t, r.lobbies.SetStatus(ctx, l.ID, lobby.StatusInGame))

	r.sess = r.attach(t, "u1", "Ana")
	return r
}

// attach starts an extra session for the given user against the rig's
// store and lobby.
func (r *rig) attach(t *testing.T, uid, username string) *Session {
	t.Helper()
	sess := New(Config{
		Store:   r.store,
		Catalog: r.cat,
		Decks:   r.decks,
		Events:  r.events,
		LobbyID: r.lobbyID,
		User:    User{UID: uid, Username: username},
		Seed:    1,
	})
	if err := sess.Start(context.Background()); err != nil {
		t.Fatalf("start session: %v", err)
	}
	t.Cleanup(sess.Close)
	return sess
}

// zone returns the occupants of one zone of the session's local state.
func (r *rig) zone(seat board.Seat, kind board.ZoneKind) []board.ZoneCard {
	r.sess.mu.Lock()
	defer r.sess.mu.Unlock()
	return r.sess.state.Zones.CardsIn(board.ZoneIDFor(seat, kind))
}

// lists returns a seat's lists from the session's local state.
func (r *rig) lists(seat board.Seat) *board.PlayerLists {
	r.sess.mu.Lock()
	defer r.sess.mu.Unlock()
	return r.sess.state.Lists(seat)
}

// owned returns the multiset of ids a seat accounts for.
func (r *rig) owned(seat board.Seat) map[string]int {
	r.sess.mu.Lock()
	defer r.sess.mu.Unlock()
	m := make(map[string]int)
	for _, id := range r.sess.state.OwnedCardIDs(seat) {
		m[id]++
	}
	return m
}

func mustDo(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}
