package board

import (
	"math/rand"
	"strings"

	"runetable/internal/catalog"
	"runetable/internal/deck"
)

// Bucket capacities. Overflow copies spill into the main deck.
const (
	LegendCapacity      = 1
	ChampionCapacity    = 1
	BattlefieldCapacity = 3
	RuneCapacity        = 12
)

// PlayerLists is a seat's six bookkeeping sequences. Every card a deck
// contributed is in exactly one of these lists or placed in a zone —
// never both, never duplicated, never dropped.
type PlayerLists struct {
	Legend         []*catalog.Card
	ChosenChampion []*catalog.Card
	Battlefields   []*catalog.Card
	Runes          []*catalog.Card
	MainDeck       []*catalog.Card
	Discard        []*catalog.Card
}

// CardIDs flattens all six lists into card ids, list by list. Useful for
// conservation checks.
func (pl *PlayerLists) CardIDs() []string {
	var ids []string
	for _, list := range [][]*catalog.Card{
		pl.Legend, pl.ChosenChampion, pl.Battlefields, pl.Runes, pl.MainDeck, pl.Discard,
	} {
		for _, c := range list {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// RemoveFromDiscard removes the first discard-list entry with the given
// card id. Silent no-op if the id is not present.
func (pl *PlayerLists) RemoveFromDiscard(cardID string) {
	for i, c := range pl.Discard {
		if c.ID == cardID {
			pl.Discard = append(pl.Discard[:i], pl.Discard[i+1:]...)
			return
		}
	}
}

// PopMainDeck removes and returns the head of the main deck, or nil if empty.
func (pl *PlayerLists) PopMainDeck() *catalog.Card {
	if len(pl.MainDeck) == 0 {
		return nil
	}
	c := pl.MainDeck[0]
	pl.MainDeck = pl.MainDeck[1:]
	return c
}

// PopRune removes and returns the head of the rune list, or nil if empty.
func (pl *PlayerLists) PopRune() *catalog.Card {
	if len(pl.Runes) == 0 {
		return nil
	}
	c := pl.Runes[0]
	pl.Runes = pl.Runes[1:]
	return c
}

// --- Materialization ---

type bucket int

const (
	bucketOther bucket = iota
	bucketLegend
	bucketChampion
	bucketRune
	bucketBattlefield
)

// classify assigns one copy of a card to a bucket. Designated legend and
// champion ids win; otherwise the catalog card type decides, with a
// name/number heuristic as the fallback for rune and battlefield cards
// whose catalog entries predate the type field.
func classify(c *catalog.Card, legendID, championID string) bucket {
	if legendID != "" && c.ID == legendID {
		return bucketLegend
	}
	if championID != "" && c.ID == championID {
		return bucketChampion
	}
	switch c.Type {
	case catalog.TypeLegend:
		return bucketLegend
	case catalog.TypeChampion:
		return bucketChampion
	case catalog.TypeRune:
		return bucketRune
	case catalog.TypeBattlefield:
		return bucketBattlefield
	}
	if strings.Contains(c.Name, "Rune") || strings.HasPrefix(c.Number, "RU-") {
		return bucketRune
	}
	if strings.Contains(c.Name, "Battlefield") || strings.HasPrefix(c.Number, "BF-") {
		return bucketBattlefield
	}
	return bucketOther
}

// Materialize expands a persisted deck into a seat's card lists.
//
// Copies are bucketed in catalog iteration order, so the resulting
// ordering is reproducible for any deck regardless of entry order.
// Unresolvable ids and non-positive counts are silently dropped. Bucket
// overflow (extra legends, champions, runes, battlefields) lands in the
// main deck: main-type cards first, then runes, battlefields, legends,
// champions.
func Materialize(d *deck.Deck, cat *catalog.Catalog) *PlayerLists {
	var legends, champions, runes, battlefields, others []*catalog.Card

	for _, c := range cat.Cards() {
		qty := d.Quantity(c.ID)
		for i := 0; i < qty; i++ {
			switch classify(c, d.Legend, d.Champion) {
			case bucketLegend:
				legends = append(legends, c)
			case bucketChampion:
				champions = append(champions, c)
			case bucketRune:
				runes = append(runes, c)
			case bucketBattlefield:
				battlefields = append(battlefields, c)
			default:
				others = append(others, c)
			}
		}
	}

	pl := &PlayerLists{}
	var overflow []*catalog.Card

	pl.Legend, overflow = truncate(legends, LegendCapacity)
	legendOverflow := overflow
	pl.ChosenChampion, overflow = truncate(champions, ChampionCapacity)
	championOverflow := overflow
	pl.Runes, overflow = truncate(runes, RuneCapacity)
	runeOverflow := overflow
	pl.Battlefields, overflow = truncate(battlefields, BattlefieldCapacity)
	battlefieldOverflow := overflow

	pl.MainDeck = append(pl.MainDeck, others...)
	pl.MainDeck = append(pl.MainDeck, runeOverflow...)
	pl.MainDeck = append(pl.MainDeck, battlefieldOverflow...)
	pl.MainDeck = append(pl.MainDeck, legendOverflow...)
	pl.MainDeck = append(pl.MainDeck, championOverflow...)

	return pl
}

func truncate(cards []*catalog.Card, capacity int) (kept, overflow []*catalog.Card) {
	if len(cards) <= capacity {
		return cards, nil
	}
	return cards[:capacity], cards[capacity:]
}

// Shuffle applies a uniform Fisher–Yates permutation in place.
// Sequences of length 0 or 1 are returned unchanged.
func Shuffle(cards []*catalog.Card, rng *rand.Rand) {
	if len(cards) <= 1 {
		return
	}
	rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}
