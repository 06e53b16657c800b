package board

import (
	"runetable/internal/catalog"
	"runetable/internal/deck"
)

// testCatalog builds a small fixed catalog: one legend, one champion,
// plenty of runes and battlefields to overflow their buckets, a handful
// of units, and one untyped card that only the name/number heuristic
// can classify.
func testCatalog() *catalog.Catalog {
	cards := []*catalog.Card{
		{ID: "LGN-1", Name: "Sigrid the Unbroken", Number: "OGN-001", Type: catalog.TypeLegend},
		{ID: "LGN-2", Name: "Varek Stormcaller", Number: "OGN-002", Type: catalog.TypeLegend},
		{ID: "CHM-1", Name: "Young Sigrid", Number: "OGN-003", Type: catalog.TypeChampion},
		{ID: "CHM-2", Name: "Young Varek", Number: "OGN-004", Type: catalog.TypeChampion},
		{ID: "BF-1", Name: "Frozen Pass", Number: "OGN-005", Type: catalog.TypeBattlefield},
		{ID: "BF-2", Name: "Ember Gate", Number: "OGN-006", Type: catalog.TypeBattlefield},
		{ID: "BF-3", Name: "Sunken Court", Number: "OGN-007", Type: catalog.TypeBattlefield},
		{ID: "BF-4", Name: "High Steppe", Number: "OGN-008", Type: catalog.TypeBattlefield},
		{ID: "RU-1", Name: "Order Rune", Number: "OGN-009", Type: catalog.TypeRune},
		{ID: "RU-2", Name: "Chaos Rune", Number: "OGN-010", Type: catalog.TypeRune},
		{ID: "STONE", Name: "Ancient Rune Stone", Number: "RU-77"}, // untyped, heuristic only
		{ID: "U-1", Name: "Shield Bearer", Number: "OGN-011", Type: catalog.TypeUnit},
		{ID: "U-2", Name: "Wolf Rider", Number: "OGN-012", Type: catalog.TypeUnit},
		{ID: "U-3", Name: "Longbow Scout", Number: "OGN-013", Type: catalog.TypeUnit},
		{ID: "SP-1", Name: "Sudden Squall", Number: "OGN-014", Type: catalog.TypeSpell},
	}
	return catalog.New(cards...)
}

// testDeck is a legal deck: designated legend and champion, three
// battlefields, twelve runes, and a main deck of units and spells.
func testDeck() *deck.Deck {
	return &deck.Deck{
		ID:       "deck-1",
		Name:     "Sigrid Aggro",
		Owner:    "user-1",
		Legend:   "LGN-1",
		Champion: "CHM-1",
		Cards: []deck.Entry{
			{CardID: "LGN-1", Count: 1},
			{CardID: "CHM-1", Count: 1},
			{CardID: "BF-1", Count: 1},
			{CardID: "BF-2", Count: 1},
			{CardID: "BF-3", Count: 1},
			{CardID: "RU-1", Count: 6},
			{CardID: "RU-2", Count: 6},
			{CardID: "U-1", Count: 3},
			{CardID: "U-2", Count: 3},
			{CardID: "U-3", Count: 2},
			{CardID: "SP-1", Count: 2},
		},
	}
}

func ids(cards []*catalog.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}

func countIDs(list []string) map[string]int {
	m := make(map[string]int)
	for _, id := range list {
		m[id]++
	}
	return m
}
