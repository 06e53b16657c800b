package deck

// Entry is one card line in a persisted deck: a card id and how many
// copies the deck runs.
type Entry struct {
	CardID string `json:"cardId"`
	Count  int    `json:"count"`
}

// Deck is a persisted deck document. Legend and Champion designate which
// card ids fill the legend and chosen-champion slots at deal time.
type Deck struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Owner     string  `json:"owner"`
	Legend    string  `json:"legend,omitempty"`
	Champion  string  `json:"champion,omitempty"`
	Cards     []Entry `json:"cards"`
	Sideboard []Entry `json:"sideboard,omitempty"`
}

// Quantity returns the total main-deck count of the given card id.
func (d *Deck) Quantity(cardID string) int {
	total := 0
	for _, e := range d.Cards {
		if e.CardID == cardID {
			total += e.Count
		}
	}
	return total
}

// Size returns the total number of main-deck copies.
func (d *Deck) Size() int {
	total := 0
	for _, e := range d.Cards {
		if e.Count > 0 {
			total += e.Count
		}
	}
	return total
}
