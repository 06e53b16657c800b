// Package wire is the boundary codec between the strongly-typed board
// model and the card-id-only documents replicated through the shared
// store. Catalog resolution and its silently-drop-unknown-ids tolerance
// live here and nowhere else.
package wire

import (
	"fmt"

	"runetable/internal/board"
	"runetable/internal/catalog"
)

// Lists is the wire form of a seat's card lists: ids only.
type Lists struct {
	Legend         []string `json:"legend"`
	ChosenChampion []string `json:"chosenChampion"`
	Battlefields   []string `json:"battlefields"`
	Runes          []string `json:"runes"`
	MainDeck       []string `json:"mainDeck"`
	Discard        []string `json:"discard"`
}

// ZoneEntry is one zone occupant on the wire.
type ZoneEntry struct {
	CardID string `json:"cardId"`
	Owner  string `json:"ownerSeat"`
}

// ScoresDoc carries both seats' scores.
type ScoresDoc struct {
	P1 int `json:"p1"`
	P2 int `json:"p2"`
}

// RevealsDoc carries both seats' revealed top-of-deck peeks.
type RevealsDoc struct {
	P1 []string `json:"p1"`
	P2 []string `json:"p2"`
}

// MatchStateDoc is the whole replicated match-state document. Either
// seat's lists may be null before that seat's deck has materialized.
type MatchStateDoc struct {
	P1Lists   *Lists                 `json:"p1Lists"`
	P2Lists   *Lists                 `json:"p2Lists"`
	ZoneCards map[string][]ZoneEntry `json:"zoneCards"`
	Scores    *ScoresDoc             `json:"scores,omitempty"`
	Reveals   *RevealsDoc            `json:"reveals,omitempty"`
}

// CardStateDoc is the per-card-instance rotation/hidden overlay document,
// replicated independently of zone membership.
type CardStateDoc struct {
	Rotation *int  `json:"rotation,omitempty"`
	Hidden   *bool `json:"hidden,omitempty"`
}

// OverlayKey builds the composite document key addressing one card
// instance in one zone slot.
func OverlayKey(zone board.ZoneID, cardID string, index int) string {
	return fmt.Sprintf("%s-%s-%d", zone, cardID, index)
}

// --- Encode ---

// EncodeMatchState reduces a board state to its id-only wire form.
func EncodeMatchState(st *board.MatchState) *MatchStateDoc {
	doc := &MatchStateDoc{
		P1Lists:   encodeLists(st.P1Lists),
		P2Lists:   encodeLists(st.P2Lists),
		ZoneCards: make(map[string][]ZoneEntry, len(st.Zones)),
		Scores:    &ScoresDoc{P1: st.Scores.P1, P2: st.Scores.P2},
		Reveals: &RevealsDoc{
			P1: cardIDs(st.Reveals.P1),
			P2: cardIDs(st.Reveals.P2),
		},
	}
	for _, id := range board.AllZoneIDs() {
		entries := make([]ZoneEntry, 0, len(st.Zones.CardsIn(id)))
		for _, zc := range st.Zones.CardsIn(id) {
			entries = append(entries, ZoneEntry{CardID: zc.Card.ID, Owner: zc.Owner.String()})
		}
		doc.ZoneCards[id.String()] = entries
	}
	return doc
}

func encodeLists(pl *board.PlayerLists) *Lists {
	if pl == nil {
		return nil
	}
	return &Lists{
		Legend:         cardIDs(pl.Legend),
		ChosenChampion: cardIDs(pl.ChosenChampion),
		Battlefields:   cardIDs(pl.Battlefields),
		Runes:          cardIDs(pl.Runes),
		MainDeck:       cardIDs(pl.MainDeck),
		Discard:        cardIDs(pl.Discard),
	}
}

func cardIDs(cards []*catalog.Card) []string {
	ids := make([]string, 0, len(cards))
	for _, c := range cards {
		ids = append(ids, c.ID)
	}
	return ids
}

// --- Decode ---

// DecodeMatchState rebuilds a board state from the wire document. Card
// ids absent from the catalog are dropped without error; zone keys that
// do not parse are skipped. Every known zone is present in the result
// even if the document omitted it.
func DecodeMatchState(doc *MatchStateDoc, cat *catalog.Catalog) *board.MatchState {
	st := board.NewMatchState()
	if doc == nil {
		return st
	}
	st.P1Lists = decodeLists(doc.P1Lists, cat)
	st.P2Lists = decodeLists(doc.P2Lists, cat)
	for key, entries := range doc.ZoneCards {
		zoneID, err := board.ParseZoneID(key)
		if err != nil {
			continue
		}
		for _, e := range entries {
			card, ok := cat.Lookup(e.CardID)
			if !ok {
				continue
			}
			st.Zones.AppendTo(zoneID, board.ZoneCard{Card: card, Owner: board.ParseSeat(e.Owner)})
		}
	}
	if doc.Scores != nil {
		st.Scores = board.Scores{P1: doc.Scores.P1, P2: doc.Scores.P2}
	}
	if doc.Reveals != nil {
		st.Reveals = board.Reveals{
			P1: cat.Resolve(doc.Reveals.P1),
			P2: cat.Resolve(doc.Reveals.P2),
		}
	}
	return st
}

func decodeLists(l *Lists, cat *catalog.Catalog) *board.PlayerLists {
	if l == nil {
		return nil
	}
	return &board.PlayerLists{
		Legend:         cat.Resolve(l.Legend),
		ChosenChampion: cat.Resolve(l.ChosenChampion),
		Battlefields:   cat.Resolve(l.Battlefields),
		Runes:          cat.Resolve(l.Runes),
		MainDeck:       cat.Resolve(l.MainDeck),
		Discard:        cat.Resolve(l.Discard),
	}
}
