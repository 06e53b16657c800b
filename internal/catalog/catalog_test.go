package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleYAML = `cards:
  - id: OGN-001
    name: Sigrid the Unbroken
    number: "001"
    rarity: legendary
    type: legend
    images:
      - sigrid_full.png
  - id: OGN-002
    name: Shield Bearer
    type: unit
  - id: OGN-003
    name: Order Rune
    type: rune
`

func writeCatalog(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cat, err := Load(writeCatalog(t, sampleYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cat.Len() != 3 {
		t.Fatalf("Len = %d, want 3", cat.Len())
	}

	c, ok := cat.Lookup("OGN-001")
	if !ok {
		t.Fatal("OGN-001 missing")
	}
	if c.Name != "Sigrid the Unbroken" || c.Type != TypeLegend || c.Rarity != "legendary" {
		t.Errorf("card = %+v", c)
	}
	if len(c.Images) != 1 {
		t.Errorf("images = %v", c.Images)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("loading a missing file must fail")
	}
	if _, err := Load(writeCatalog(t, "cards: [not a card")); err == nil {
		t.Error("loading bad YAML must fail")
	}
}

func TestCardsPreservesFileOrder(t *testing.T) {
	cat, err := Load(writeCatalog(t, sampleYAML))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"OGN-001", "OGN-002", "OGN-003"}
	for i, c := range cat.Cards() {
		if c.ID != want[i] {
			t.Fatalf("position %d = %s, want %s", i, c.ID, want[i])
		}
	}
}

func TestNewSkipsDuplicatesAndBlanks(t *testing.T) {
	cat := New(
		&Card{ID: "A", Name: "First"},
		&Card{ID: "A", Name: "Shadowed"},
		&Card{Name: "No ID"},
		&Card{ID: "B", Name: "Second"},
	)
	if cat.Len() != 2 {
		t.Fatalf("Len = %d, want 2", cat.Len())
	}
	c, _ := cat.Lookup("A")
	if c.Name != "First" {
		t.Errorf("duplicate id shadowed the original: %s", c.Name)
	}
}

func TestResolveDropsUnknowns(t *testing.T) {
	cat := New(&Card{ID: "A"}, &Card{ID: "B"})
	got := cat.Resolve([]string{"A", "GONE", "B", "A"})
	if len(got) != 3 {
		t.Fatalf("Resolve = %d cards, want 3", len(got))
	}
	if got[0].ID != "A" || got[1].ID != "B" || got[2].ID != "A" {
		t.Errorf("Resolve order wrong: %v", got)
	}
}
