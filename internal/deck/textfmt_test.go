package deck

import (
	"reflect"
	"strings"
	"testing"
)

const sampleList = `# tournament list
Name: Sigrid Aggro
Legend: LGN-1
Champion: CHM-1

Deck:
3 U-1
2 U-2
1 SP-1

Sideboard:
2 SP-2
`

func TestParseText(t *testing.T) {
	d, err := ParseText(sampleList)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.Name != "Sigrid Aggro" || d.Legend != "LGN-1" || d.Champion != "CHM-1" {
		t.Errorf("header fields = %q/%q/%q", d.Name, d.Legend, d.Champion)
	}
	wantCards := []Entry{{CardID: "U-1", Count: 3}, {CardID: "U-2", Count: 2}, {CardID: "SP-1", Count: 1}}
	if !reflect.DeepEqual(d.Cards, wantCards) {
		t.Errorf("cards = %v, want %v", d.Cards, wantCards)
	}
	wantSide := []Entry{{CardID: "SP-2", Count: 2}}
	if !reflect.DeepEqual(d.Sideboard, wantSide) {
		t.Errorf("sideboard = %v, want %v", d.Sideboard, wantSide)
	}
	if d.Size() != 6 {
		t.Errorf("Size = %d, want 6", d.Size())
	}
}

func TestParseTextErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"card line before section", "2 U-1\n"},
		{"zero count", "Deck:\n0 U-1\n"},
		{"negative count", "Deck:\n-1 U-1\n"},
		{"non-numeric count", "Deck:\nthree U-1\n"},
		{"too many fields", "Deck:\n2 U-1 foil\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseText(tc.src); err == nil {
				t.Errorf("ParseText accepted %q", tc.src)
			}
		})
	}
}

func TestParseTextIgnoresNoise(t *testing.T) {
	d, err := ParseText("\n# just a comment\n\nDeck:\n# mid-section comment\n1 U-1\n\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(d.Cards) != 1 {
		t.Errorf("cards = %v", d.Cards)
	}
}

func TestFormatTextRoundTrip(t *testing.T) {
	d, err := ParseText(sampleList)
	if err != nil {
		t.Fatal(err)
	}
	again, err := ParseText(FormatText(d))
	if err != nil {
		t.Fatalf("reparse formatted output: %v", err)
	}
	if d.Name != again.Name || d.Legend != again.Legend || d.Champion != again.Champion {
		t.Error("headers changed through format/parse")
	}
	if !reflect.DeepEqual(d.Cards, again.Cards) || !reflect.DeepEqual(d.Sideboard, again.Sideboard) {
		t.Error("entries changed through format/parse")
	}
}

func TestFormatTextOmitsEmptySections(t *testing.T) {
	out := FormatText(&Deck{Cards: []Entry{{CardID: "U-1", Count: 1}}})
	if strings.Contains(out, "Sideboard:") {
		t.Errorf("empty sideboard emitted:\n%s", out)
	}
	if strings.Contains(out, "Name:") || strings.Contains(out, "Legend:") {
		t.Errorf("empty headers emitted:\n%s", out)
	}
}

func TestQuantitySumsDuplicateEntries(t *testing.T) {
	d := &Deck{Cards: []Entry{{CardID: "U-1", Count: 2}, {CardID: "U-1", Count: 1}}}
	if got := d.Quantity("U-1"); got != 3 {
		t.Errorf("Quantity = %d, want 3", got)
	}
	if got := d.Quantity("U-2"); got != 0 {
		t.Errorf("Quantity of absent card = %d, want 0", got)
	}
}
