// Package mcp exposes the tabletop over the Model Context Protocol so
// an agent can occupy a seat (or spectate) in a lobby alongside human
// players in the browser.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"runetable/internal/board"
	"runetable/internal/catalog"
	"runetable/internal/docstore"
	"runetable/internal/log"
	"runetable/internal/match"
	"runetable/internal/wire"
)

// TableSession holds the state of a single MCP table session: one
// attached match session plus the event buffer drained into tool
// responses.
type TableSession struct {
	session *match.Session
	events  *log.MemoryLogger
	cancel  context.CancelFunc

	mu      sync.Mutex
	drained int // events already reported
}

// newTableSession joins a lobby and waits for nothing: the session is
// usable immediately, snapshots arrive as the store delivers them.
func newTableSession(ctx context.Context, store docstore.Store, cat *catalog.Catalog, decks match.DeckLoader, lobbyID, uid, username string, seed int64) (*TableSession, error) {
	events := log.NewMemoryLogger()
	sess := match.New(match.Config{
		Store:   store,
		Catalog: cat,
		Decks:   decks,
		Events:  events,
		LobbyID: lobbyID,
		User:    match.User{UID: uid, Username: username},
		Seed:    seed,
	})
	ctx, cancel := context.WithCancel(ctx)
	if err := sess.Start(ctx); err != nil {
		cancel()
		return nil, fmt.Errorf("join lobby: %w", err)
	}
	return &TableSession{session: sess, events: events, cancel: cancel}, nil
}

func (t *TableSession) close() {
	t.session.Close()
	t.cancel()
}

// drainEvents returns the events logged since the last drain.
func (t *TableSession) drainEvents() []log.GameEvent {
	t.mu.Lock()
	defer t.mu.Unlock()
	all := t.events.Events()
	fresh := all[t.drained:]
	t.drained = len(all)
	return fresh
}

// ToolResponse is the JSON envelope returned by all MCP tools.
type ToolResponse struct {
	Phase  string   `json:"phase"`
	Role   string   `json:"role"`
	Seat   string   `json:"seat,omitempty"`
	Events []string `json:"events"`
	Board  string   `json:"board,omitempty"`
	Error  string   `json:"error,omitempty"`
}

// respond builds the standard envelope around the current session.
func (t *TableSession) respond(withBoard bool) string {
	resp := &ToolResponse{
		Phase:  t.session.Phase().String(),
		Role:   t.session.Role().String(),
		Seat:   t.session.MySeat().String(),
		Events: []string{},
	}
	for _, e := range t.drainEvents() {
		resp.Events = append(resp.Events, log.FormatEvent(e))
	}
	if withBoard {
		resp.Board = t.renderBoard()
	}
	return respondJSON(resp)
}

// renderBoard formats the board as text, one line per non-empty zone,
// plus scores and reveals. Zone order is fixed so diffs read well.
func (t *TableSession) renderBoard() string {
	raw := t.session.StateDoc()
	if raw == nil {
		return ""
	}
	var doc wire.MatchStateDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ""
	}

	var sb strings.Builder
	if doc.Scores != nil {
		fmt.Fprintf(&sb, "score: p1=%d p2=%d\n", doc.Scores.P1, doc.Scores.P2)
	}
	for _, side := range []struct {
		seat  string
		lists *wire.Lists
	}{{"p1", doc.P1Lists}, {"p2", doc.P2Lists}} {
		if side.lists == nil {
			fmt.Fprintf(&sb, "%s deck: not loaded\n", side.seat)
			continue
		}
		fmt.Fprintf(&sb, "%s deck: %d main, %d runes, %d discarded\n",
			side.seat, len(side.lists.MainDeck), len(side.lists.Runes), len(side.lists.Discard))
	}

	zones := make([]string, 0, len(doc.ZoneCards))
	for zone := range doc.ZoneCards {
		zones = append(zones, zone)
	}
	sort.Strings(zones)
	for _, zone := range zones {
		entries := doc.ZoneCards[zone]
		if len(entries) == 0 {
			continue
		}
		ids := make([]string, len(entries))
		for i, e := range entries {
			ids[i] = e.CardID
		}
		fmt.Fprintf(&sb, "%s: %s\n", zone, strings.Join(ids, ", "))
	}
	if doc.Reveals != nil {
		if len(doc.Reveals.P1) > 0 {
			fmt.Fprintf(&sb, "p1 reveals: %s\n", strings.Join(doc.Reveals.P1, ", "))
		}
		if len(doc.Reveals.P2) > 0 {
			fmt.Fprintf(&sb, "p2 reveals: %s\n", strings.Join(doc.Reveals.P2, ", "))
		}
	}
	return sb.String()
}

// mySeatOr resolves the acting seat: an explicit argument wins, else the
// session's own seat.
func (t *TableSession) mySeatOr(arg string) board.Seat {
	if arg != "" {
		return board.ParseSeat(arg)
	}
	return t.session.MySeat()
}

func respondJSON(resp *ToolResponse) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
