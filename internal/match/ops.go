package match

import (
	"encoding/json"

	"runetable/internal/board"
	"runetable/internal/catalog"
	"runetable/internal/lobby"
	"runetable/internal/log"
	"runetable/internal/wire"
)

// Every operation below is synchronous and local-first: the in-memory
// state mutates immediately, then one replication push carries the
// complete new state. Pushes are fire-and-forget — a failed write is
// logged and the next successful write or incoming snapshot reconciles.
// Invalid arguments are silent no-ops, matching the board layer.
//
// Seat checks are advisory and live in the presentation layer; these
// operations trust the caller. That is the system's trust boundary, not
// an oversight.
//
// Locking: state mutates under s.mu, the encoded payload is captured,
// and the store write happens after unlock. Store snapshot callbacks
// may run synchronously on the writer's goroutine, so writing while
// holding s.mu would self-deadlock through the session's own
// subscription.

const tappedRotation = 90

// MoveCard relocates one card between zones. A card leaving a discard
// pile also leaves that seat's discard list.
func (s *Session) MoveCard(from board.ZoneID, index int, to board.ZoneID) {
	s.mu.Lock()
	moved, ok := s.state.Zones.MoveAt(from, index, to)
	if !ok {
		s.mu.Unlock()
		return
	}
	if from.Kind == board.KindDiscard {
		if pl := s.state.Lists(from.Seat); pl != nil {
			pl.RemoveFromDiscard(moved.Card.ID)
		}
	}
	s.events.Log(log.NewMoveEvent(moved.Owner.String(), moved.Card.Name, from.String(), to.String()))
	rotate := s.autoRotateTargetLocked(to, moved)
	data := s.encodeStateLocked()
	s.mu.Unlock()

	s.applyAutoRotate(rotate)
	s.replicate(data)
}

// SendToDiscard relocates a card into the named discard zone and pushes
// it onto the owning seat's discard list. The owning seat is the zone's.
func (s *Session) SendToDiscard(from board.ZoneID, index int, discardZone board.ZoneID) {
	s.mu.Lock()
	moved, ok := s.state.Zones.MoveAt(from, index, discardZone)
	if !ok {
		s.mu.Unlock()
		return
	}
	if from.Kind == board.KindDiscard {
		if pl := s.state.Lists(from.Seat); pl != nil {
			pl.RemoveFromDiscard(moved.Card.ID)
		}
	}
	if pl := s.state.Lists(discardZone.Seat); pl != nil {
		pl.Discard = append(pl.Discard, moved.Card)
	}
	s.events.Log(log.NewDiscardEvent(discardZone.Seat.String(), moved.Card.Name, from.String()))
	rotate := s.autoRotateTargetLocked(discardZone, moved)
	data := s.encodeStateLocked()
	s.mu.Unlock()

	s.applyAutoRotate(rotate)
	s.replicate(data)
}

// SendToBottomOfDeck removes a card from its zone and appends it to the
// owning seat's main deck, or rune list when the target is a rune pile.
func (s *Session) SendToBottomOfDeck(from board.ZoneID, index int, target board.ZoneID) {
	s.mu.Lock()
	pl := s.state.Lists(target.Seat)
	if pl == nil {
		s.mu.Unlock()
		return
	}
	removed, ok := s.state.Zones.RemoveAt(from, index)
	if !ok {
		s.mu.Unlock()
		return
	}
	if target.Kind == board.KindRuneDeck {
		pl.Runes = append(pl.Runes, removed.Card)
	} else {
		pl.MainDeck = append(pl.MainDeck, removed.Card)
	}
	s.events.Log(log.NewToBottomOfDeckEvent(target.Seat.String(), removed.Card.Name, from.String()))
	data := s.encodeStateLocked()
	s.mu.Unlock()

	s.replicate(data)
}

// DiscardToBottomOfDeck takes a card out of a discard zone, drops it
// from the seat's discard list, and appends it to the main deck.
func (s *Session) DiscardToBottomOfDeck(discardZone board.ZoneID, index int) {
	s.mu.Lock()
	seat := discardZone.Seat
	pl := s.state.Lists(seat)
	if pl == nil {
		s.mu.Unlock()
		return
	}
	removed, ok := s.state.Zones.RemoveAt(discardZone, index)
	if !ok {
		s.mu.Unlock()
		return
	}
	pl.RemoveFromDiscard(removed.Card.ID)
	pl.MainDeck = append(pl.MainDeck, removed.Card)
	s.events.Log(log.NewToBottomOfDeckEvent(seat.String(), removed.Card.Name, discardZone.String()))
	data := s.encodeStateLocked()
	s.mu.Unlock()

	s.replicate(data)
}

// DiscardToHand takes a card out of a discard zone, drops it from the
// seat's discard list, and places it in the seat's hand zone.
func (s *Session) DiscardToHand(discardZone board.ZoneID, index int) {
	s.mu.Lock()
	seat := discardZone.Seat
	pl := s.state.Lists(seat)
	if pl == nil {
		s.mu.Unlock()
		return
	}
	removed, ok := s.state.Zones.RemoveAt(discardZone, index)
	if !ok {
		s.mu.Unlock()
		return
	}
	pl.RemoveFromDiscard(removed.Card.ID)
	s.state.Zones.AppendTo(board.ZoneIDFor(seat, board.KindHand), removed)
	s.events.Log(log.NewReturnToHandEvent(seat.String(), removed.Card.Name))
	data := s.encodeStateLocked()
	s.mu.Unlock()

	s.replicate(data)
}

// DrawFromDeck pops the head of a seat's main deck into its hand zone.
// Empty deck is a no-op.
func (s *Session) DrawFromDeck(seat board.Seat) {
	s.mu.Lock()
	pl := s.state.Lists(seat)
	if pl == nil {
		s.mu.Unlock()
		return
	}
	card := pl.PopMainDeck()
	if card == nil {
		s.mu.Unlock()
		return
	}
	s.state.Zones.AppendTo(board.ZoneIDFor(seat, board.KindHand), board.ZoneCard{Card: card, Owner: seat})
	s.events.Log(log.NewDrawEvent(seat.String(), card.Name))
	data := s.encodeStateLocked()
	s.mu.Unlock()

	s.replicate(data)
}

// DrawRune pops the head of a seat's rune list into its rune channel.
// Empty rune list is a no-op.
func (s *Session) DrawRune(seat board.Seat) {
	s.mu.Lock()
	pl := s.state.Lists(seat)
	if pl == nil {
		s.mu.Unlock()
		return
	}
	card := pl.PopRune()
	if card == nil {
		s.mu.Unlock()
		return
	}
	s.state.Zones.AppendTo(board.ZoneIDFor(seat, board.KindRuneChannel), board.ZoneCard{Card: card, Owner: seat})
	s.events.Log(log.NewDrawRuneEvent(seat.String(), card.Name))
	data := s.encodeStateLocked()
	s.mu.Unlock()

	s.replicate(data)
}

// ShuffleMainDeck randomizes a seat's main deck.
func (s *Session) ShuffleMainDeck(seat board.Seat) {
	s.mu.Lock()
	pl := s.state.Lists(seat)
	if pl == nil || len(pl.MainDeck) <= 1 {
		s.mu.Unlock()
		return
	}
	board.Shuffle(pl.MainDeck, s.rng)
	s.events.Log(log.NewShuffleEvent(seat.String(), "main deck"))
	data := s.encodeStateLocked()
	s.mu.Unlock()

	s.replicate(data)
}

// ShuffleRuneDeck randomizes a seat's rune list.
func (s *Session) ShuffleRuneDeck(seat board.Seat) {
	s.mu.Lock()
	pl := s.state.Lists(seat)
	if pl == nil || len(pl.Runes) <= 1 {
		s.mu.Unlock()
		return
	}
	board.Shuffle(pl.Runes, s.rng)
	s.events.Log(log.NewShuffleEvent(seat.String(), "rune deck"))
	data := s.encodeStateLocked()
	s.mu.Unlock()

	s.replicate(data)
}

// SyncReveals sets a seat's reveal list to the top count cards of its
// main deck without removing them. The peek is replicated, so it is
// visible to the opponent. Count is clamped to [0, len].
//
// Reveals are not cleared by later deck mutations; stale reveals stay
// visible until ClearReveals.
func (s *Session) SyncReveals(seat board.Seat, count int) {
	s.mu.Lock()
	pl := s.state.Lists(seat)
	if pl == nil {
		s.mu.Unlock()
		return
	}
	if count < 0 {
		count = 0
	}
	if count > len(pl.MainDeck) {
		count = len(pl.MainDeck)
	}
	s.state.SetReveals(seat, append([]*catalog.Card(nil), pl.MainDeck[:count]...))
	s.events.Log(log.NewRevealEvent(seat.String(), count))
	data := s.encodeStateLocked()
	s.mu.Unlock()

	s.replicate(data)
}

// ClearReveals empties a seat's reveal list.
func (s *Session) ClearReveals(seat board.Seat) {
	s.mu.Lock()
	s.state.SetReveals(seat, nil)
	s.events.Log(log.NewRevealClearEvent(seat.String()))
	data := s.encodeStateLocked()
	s.mu.Unlock()

	s.replicate(data)
}

// IncrementScore raises a seat's score by one.
func (s *Session) IncrementScore(seat board.Seat) {
	s.addScore(seat, 1)
}

// DecrementScore lowers a seat's score by one, floored at zero.
func (s *Session) DecrementScore(seat board.Seat) {
	s.addScore(seat, -1)
}

func (s *Session) addScore(seat board.Seat, delta int) {
	s.mu.Lock()
	s.state.AddScore(seat, delta)
	s.events.Log(log.NewScoreEvent(seat.String(), s.state.Scores.Get(seat)))
	data := s.encodeStateLocked()
	s.mu.Unlock()

	s.replicate(data)
}

// --- Replication ---

// encodeStateLocked captures the complete current state as the wire
// document payload. Callers hold s.mu.
func (s *Session) encodeStateLocked() []byte {
	data, err := json.Marshal(wire.EncodeMatchState(s.state))
	if err != nil {
		s.log.WithError(err).Error("encode match state")
		return nil
	}
	return data
}

// replicate overwrites the shared match-state document. Fire-and-forget:
// optimistic local state is kept on failure, with no rollback or retry.
func (s *Session) replicate(data []byte) {
	if data == nil {
		return
	}
	if err := s.store.Overwrite(s.ctx, lobby.MatchStatePath(s.lobbyID), data); err != nil {
		s.log.WithError(err).Warn("replication push failed")
	}
}

// --- Rotation/hidden overlay ---

// pendingRotate describes an overlay write decided while the state lock
// was held.
type pendingRotate struct {
	zone   board.ZoneID
	cardID string
	index  int
}

// autoRotateTargetLocked applies the move-implies-tap house rule: a card
// landing anywhere but a hand, rune channel, or legend zone has its
// rotation overlay forced to 90 degrees. Returns the overlay write to
// perform once the lock is released.
func (s *Session) autoRotateTargetLocked(zone board.ZoneID, zc board.ZoneCard) *pendingRotate {
	if zone.KeepsRotation() {
		return nil
	}
	return &pendingRotate{
		zone:   zone,
		cardID: zc.Card.ID,
		index:  len(s.state.Zones.CardsIn(zone)) - 1,
	}
}

func (s *Session) applyAutoRotate(p *pendingRotate) {
	if p == nil {
		return
	}
	s.writeCardState(p.zone, p.cardID, p.index, func(doc *wire.CardStateDoc) {
		angle := tappedRotation
		doc.Rotation = &angle
	})
}

// SetRotation sets the rotation overlay for one card instance.
func (s *Session) SetRotation(zone board.ZoneID, cardID string, index, angle int) {
	s.writeCardState(zone, cardID, index, func(doc *wire.CardStateDoc) {
		doc.Rotation = &angle
	})
	s.events.Log(log.NewRotateEvent(zone.Seat.String(), s.cardName(cardID), zone.String(), angle))
}

// SetHidden sets the face-down overlay for one card instance.
func (s *Session) SetHidden(zone board.ZoneID, cardID string, index int, hidden bool) {
	s.writeCardState(zone, cardID, index, func(doc *wire.CardStateDoc) {
		doc.Hidden = &hidden
	})
	s.events.Log(log.NewHideEvent(zone.Seat.String(), s.cardName(cardID), zone.String(), hidden))
}

// cardName resolves an id to its display name for the event log. Ids
// outside the catalog pass through unchanged.
func (s *Session) cardName(cardID string) string {
	if c, ok := s.cat.Lookup(cardID); ok {
		return c.Name
	}
	return cardID
}

// ClearCardState deletes a card instance's overlay document.
func (s *Session) ClearCardState(zone board.ZoneID, cardID string, index int) {
	key := wire.OverlayKey(zone, cardID, index)
	if err := s.store.Delete(s.ctx, lobby.CardStatePath(s.lobbyID, key)); err != nil {
		s.log.WithError(err).Warn("overlay delete failed")
	}
}

// writeCardState merges one overlay field into the card's overlay
// document. The two flags are independent, so the untouched one is
// preserved across the write.
func (s *Session) writeCardState(zone board.ZoneID, cardID string, index int, mutate func(*wire.CardStateDoc)) {
	key := wire.OverlayKey(zone, cardID, index)
	path := lobby.CardStatePath(s.lobbyID, key)
	err := s.store.Update(s.ctx, path, func(old []byte) ([]byte, error) {
		var doc wire.CardStateDoc
		if old != nil {
			// Unreadable overlays are replaced, not fatal.
			_ = json.Unmarshal(old, &doc)
		}
		mutate(&doc)
		return json.Marshal(&doc)
	})
	if err != nil {
		s.log.WithError(err).Warn("overlay write failed")
	}
}
