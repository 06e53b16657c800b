package board

import (
	"testing"
)

func TestNewZonesHasEveryZone(t *testing.T) {
	z := NewZones()
	all := AllZoneIDs()
	if len(all) != 20 {
		t.Fatalf("expected 20 zones (10 kinds x 2 seats), got %d", len(all))
	}
	for _, id := range all {
		cards, present := z[id]
		if !present {
			t.Errorf("zone %s missing from fresh board", id)
		}
		if cards == nil {
			t.Errorf("zone %s is nil, want empty slice", id)
		}
	}
}

func TestZoneIDRoundTrip(t *testing.T) {
	for _, id := range AllZoneIDs() {
		parsed, err := ParseZoneID(id.String())
		if err != nil {
			t.Fatalf("ParseZoneID(%q): %v", id.String(), err)
		}
		if parsed != id {
			t.Errorf("round trip %s → %s", id, parsed)
		}
	}
}

func TestParseZoneIDRejectsGarbage(t *testing.T) {
	for _, bad := range []string{"", "p1", "p3Hand", "p1Basement", "Hand"} {
		if _, err := ParseZoneID(bad); err == nil {
			t.Errorf("ParseZoneID(%q) accepted garbage", bad)
		}
	}
}

func TestRemoveAtOutOfRange(t *testing.T) {
	cat := testCatalog()
	u1, _ := cat.Lookup("U-1")
	z := NewZones()
	hand := ZoneIDFor(SeatP1, KindHand)
	z.AppendTo(hand, ZoneCard{Card: u1, Owner: SeatP1})

	for _, idx := range []int{-1, 1, 99} {
		if _, ok := z.RemoveAt(hand, idx); ok {
			t.Errorf("RemoveAt(%d) succeeded on 1-card zone", idx)
		}
	}
	if len(z.CardsIn(hand)) != 1 {
		t.Error("failed removals mutated the zone")
	}
}

func TestMoveAtAppendsToTop(t *testing.T) {
	cat := testCatalog()
	u1, _ := cat.Lookup("U-1")
	u2, _ := cat.Lookup("U-2")
	z := NewZones()
	hand := ZoneIDFor(SeatP1, KindHand)
	base := ZoneIDFor(SeatP1, KindBase)
	z.AppendTo(base, ZoneCard{Card: u2, Owner: SeatP1})
	z.AppendTo(hand, ZoneCard{Card: u1, Owner: SeatP1})

	moved, ok := z.MoveAt(hand, 0, base)
	if !ok || moved.Card.ID != "U-1" {
		t.Fatalf("MoveAt = %v, %v", moved, ok)
	}
	got := z.CardsIn(base)
	if len(got) != 2 || got[1].Card.ID != "U-1" {
		t.Errorf("moved card must land on top, zone = %v", got)
	}
	if len(z.CardsIn(hand)) != 0 {
		t.Error("source zone still holds the moved card")
	}
}

func TestMoveAtSameZoneNoOp(t *testing.T) {
	cat := testCatalog()
	u1, _ := cat.Lookup("U-1")
	z := NewZones()
	hand := ZoneIDFor(SeatP1, KindHand)
	z.AppendTo(hand, ZoneCard{Card: u1, Owner: SeatP1})

	if _, ok := z.MoveAt(hand, 0, hand); ok {
		t.Error("moving a card onto its own zone must be a no-op")
	}
	if len(z.CardsIn(hand)) != 1 {
		t.Error("same-zone move mutated the zone")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	cat := testCatalog()
	u1, _ := cat.Lookup("U-1")
	z := NewZones()
	hand := ZoneIDFor(SeatP1, KindHand)
	z.AppendTo(hand, ZoneCard{Card: u1, Owner: SeatP1})

	dup := z.Clone()
	dup.RemoveAt(hand, 0)
	if len(z.CardsIn(hand)) != 1 {
		t.Error("mutating the clone changed the original")
	}
}

func TestKeepsRotation(t *testing.T) {
	keep := map[ZoneKind]bool{KindHand: true, KindRuneChannel: true, KindLegend: true}
	for _, id := range AllZoneIDs() {
		if id.KeepsRotation() != keep[id.Kind] {
			t.Errorf("KeepsRotation(%s) = %v", id, id.KeepsRotation())
		}
	}
}
