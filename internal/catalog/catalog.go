package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CardType classifies a card for deck materialization.
type CardType string

const (
	TypeUnit        CardType = "unit"
	TypeSpell       CardType = "spell"
	TypeGear        CardType = "gear"
	TypeRune        CardType = "rune"
	TypeBattlefield CardType = "battlefield"
	TypeLegend      CardType = "legend"
	TypeChampion    CardType = "champion"
)

// Card is a static card definition. Cards are owned by the Catalog and
// never mutated after load.
type Card struct {
	ID     string   `yaml:"id"`
	Name   string   `yaml:"name"`
	Images []string `yaml:"images,omitempty"`
	Number string   `yaml:"number,omitempty"`
	Rarity string   `yaml:"rarity,omitempty"`
	Type   CardType `yaml:"type,omitempty"`
}

func (c *Card) String() string {
	return c.Name
}

// Catalog is the read-only card lookup, loaded once per process.
type Catalog struct {
	byID  map[string]*Card
	order []string // file order, for stable iteration
}

// CatalogFile is the top-level YAML structure.
type CatalogFile struct {
	Cards []Card `yaml:"cards"`
}

// Load reads a catalog YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cf CatalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parse catalog YAML: %w", err)
	}

	cards := make([]*Card, len(cf.Cards))
	for i := range cf.Cards {
		cards[i] = &cf.Cards[i]
	}
	return New(cards...), nil
}

// New builds a catalog from card definitions. Later duplicates of an id
// are ignored.
func New(cards ...*Card) *Catalog {
	cat := &Catalog{byID: make(map[string]*Card, len(cards))}
	for _, c := range cards {
		if c.ID == "" {
			continue
		}
		if _, dup := cat.byID[c.ID]; dup {
			continue
		}
		cat.byID[c.ID] = c
		cat.order = append(cat.order, c.ID)
	}
	return cat
}

// Lookup returns the card for an id.
func (cat *Catalog) Lookup(id string) (*Card, bool) {
	c, ok := cat.byID[id]
	return c, ok
}

// Len returns the number of cards in the catalog.
func (cat *Catalog) Len() int {
	return len(cat.order)
}

// Cards returns all cards in file order.
func (cat *Catalog) Cards() []*Card {
	result := make([]*Card, 0, len(cat.order))
	for _, id := range cat.order {
		result = append(result, cat.byID[id])
	}
	return result
}

// Resolve maps ids to cards, silently dropping any id not in the catalog.
// Stale ids are expected during catalog updates and must not fail a decode.
func (cat *Catalog) Resolve(ids []string) []*Card {
	var result []*Card
	for _, id := range ids {
		if c, ok := cat.byID[id]; ok {
			result = append(result, c)
		}
	}
	return result
}
