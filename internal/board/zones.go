package board

// Zones maps every zone id to its ordered occupants. The key set is the
// closed set from AllZoneIDs and is never shrunk: an emptied zone holds an
// empty sequence, never a missing key, so replication stays deterministic.
//
// Order within a zone matters only for stacking and for index addressing;
// by convention the last element is the top of a pile.
type Zones map[ZoneID][]ZoneCard

// NewZones builds an empty board with every zone present.
func NewZones() Zones {
	z := make(Zones, len(zoneKinds)*2)
	for _, id := range AllZoneIDs() {
		z[id] = []ZoneCard{}
	}
	return z
}

// CardsIn returns the occupants of a zone.
func (z Zones) CardsIn(id ZoneID) []ZoneCard {
	return z[id]
}

// RemoveAt removes and returns the card at index within a zone.
// Out-of-range indexes and absent zones are silent no-ops (ok=false).
func (z Zones) RemoveAt(id ZoneID, index int) (ZoneCard, bool) {
	cards, present := z[id]
	if !present || index < 0 || index >= len(cards) {
		return ZoneCard{}, false
	}
	removed := cards[index]
	updated := make([]ZoneCard, 0, len(cards)-1)
	updated = append(updated, cards[:index]...)
	updated = append(updated, cards[index+1:]...)
	z[id] = updated
	return removed, true
}

// AppendTo pushes a card onto the end (top) of a zone.
func (z Zones) AppendTo(id ZoneID, zc ZoneCard) {
	z[id] = append(z[id], zc)
}

// MoveAt relocates the card at index from one zone to another. Moving a
// card onto its own zone is a no-op, as is an invalid index.
func (z Zones) MoveAt(from ZoneID, index int, to ZoneID) (ZoneCard, bool) {
	if from == to {
		return ZoneCard{}, false
	}
	removed, ok := z.RemoveAt(from, index)
	if !ok {
		return ZoneCard{}, false
	}
	z.AppendTo(to, removed)
	return removed, true
}

// Clone deep-copies the zone mapping (occupant slices are copied; the
// catalog cards they reference are shared and immutable).
func (z Zones) Clone() Zones {
	out := make(Zones, len(z))
	for id, cards := range z {
		dup := make([]ZoneCard, len(cards))
		copy(dup, cards)
		out[id] = dup
	}
	return out
}
