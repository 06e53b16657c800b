package deck

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
)

// Text deck lists are the import/export format:
//
//	# comment
//	Name: Aggro Runes
//	Legend: OGN-001
//	Champion: OGN-002
//	Deck:
//	3 OGN-045
//	2 OGN-101
//	Sideboard:
//	1 OGN-200
//
// Blank lines and # comments are ignored anywhere. Count lines belong
// to the most recent Deck:/Sideboard: section and must come after one.

// ParseText parses a text deck list. Card ids are not resolved against
// a catalog here; unknown ids surface later when the deck materializes.
func ParseText(src string) (*Deck, error) {
	d := &Deck{}
	section := ""
	sc := bufio.NewScanner(strings.NewReader(src))
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		switch {
		case strings.HasPrefix(line, "Name:"):
			d.Name = strings.TrimSpace(strings.TrimPrefix(line, "Name:"))
		case strings.HasPrefix(line, "Legend:"):
			d.Legend = strings.TrimSpace(strings.TrimPrefix(line, "Legend:"))
		case strings.HasPrefix(line, "Champion:"):
			d.Champion = strings.TrimSpace(strings.TrimPrefix(line, "Champion:"))
		case line == "Deck:":
			section = "deck"
		case line == "Sideboard:":
			section = "sideboard"
		default:
			entry, err := parseCountLine(line)
			if err != nil {
				return nil, fmt.Errorf("deck: line %d: %w", lineNo, err)
			}
			switch section {
			case "deck":
				d.Cards = append(d.Cards, entry)
			case "sideboard":
				d.Sideboard = append(d.Sideboard, entry)
			default:
				return nil, fmt.Errorf("deck: line %d: card line before Deck: or Sideboard: section", lineNo)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("deck: %w", err)
	}
	return d, nil
}

func parseCountLine(line string) (Entry, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return Entry{}, fmt.Errorf("want %q, got %q", "<count> <card-id>", line)
	}
	count, err := strconv.Atoi(fields[0])
	if err != nil || count < 1 {
		return Entry{}, fmt.Errorf("bad count %q", fields[0])
	}
	return Entry{CardID: fields[1], Count: count}, nil
}

// FormatText renders a deck in the canonical text form. Parsing the
// output reproduces the deck's name, designations, and entries.
func FormatText(d *Deck) string {
	var sb strings.Builder
	if d.Name != "" {
		fmt.Fprintf(&sb, "Name: %s\n", d.Name)
	}
	if d.Legend != "" {
		fmt.Fprintf(&sb, "Legend: %s\n", d.Legend)
	}
	if d.Champion != "" {
		fmt.Fprintf(&sb, "Champion: %s\n", d.Champion)
	}
	sb.WriteString("Deck:\n")
	for _, e := range d.Cards {
		fmt.Fprintf(&sb, "%d %s\n", e.Count, e.CardID)
	}
	if len(d.Sideboard) > 0 {
		sb.WriteString("Sideboard:\n")
		for _, e := range d.Sideboard {
			fmt.Fprintf(&sb, "%d %s\n", e.Count, e.CardID)
		}
	}
	return sb.String()
}
