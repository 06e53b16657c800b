package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"runetable/internal/catalog"
	"runetable/internal/config"
	"runetable/internal/deck"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	switch cmd {
	case "cards":
		runCards(os.Args[2:])
	case "import":
		runImport(os.Args[2:])
	case "export":
		runExport(os.Args[2:])
	case "decks":
		runDecks(os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  runetable cards")
	fmt.Println("  runetable import --owner UID [FILE]")
	fmt.Println("  runetable export --id DECK_ID")
	fmt.Println("  runetable decks --owner UID")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  cards   List the card catalog")
	fmt.Println("  import  Import a text deck list (from FILE or stdin)")
	fmt.Println("  export  Print a deck as a text deck list")
	fmt.Println("  decks   List a user's saved decks")
}

func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}
	return cfg
}

func openDecks(cfg *config.Config) *deck.Store {
	decks, err := deck.NewStore(cfg.SQLitePath)
	if err != nil {
		fatal(err)
	}
	return decks
}

func runCards(args []string) {
	fs := flag.NewFlagSet("cards", flag.ExitOnError)
	fs.Parse(args)
	cfg := loadConfig()

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		fatal(err)
	}
	for _, c := range cat.Cards() {
		fmt.Printf("%-12s %-8s %-10s %s\n", c.ID, c.Number, c.Type, c.Name)
	}
}

func runImport(args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	owner := fs.String("owner", "", "deck owner uid")
	fs.Parse(args)
	if *owner == "" {
		fatal(fmt.Errorf("--owner is required"))
	}

	src := os.Stdin
	if fs.NArg() > 0 {
		f, err := os.Open(fs.Arg(0))
		if err != nil {
			fatal(err)
		}
		defer f.Close()
		src = f
	}
	text, err := io.ReadAll(src)
	if err != nil {
		fatal(err)
	}
	d, err := deck.ParseText(string(text))
	if err != nil {
		fatal(err)
	}
	d.Owner = *owner

	cfg := loadConfig()
	decks := openDecks(cfg)
	defer decks.Close()
	if err := decks.Save(context.Background(), d); err != nil {
		fatal(err)
	}
	fmt.Printf("imported deck %s (%d cards) as %s\n", d.Name, d.Size(), d.ID)
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	id := fs.String("id", "", "deck id")
	fs.Parse(args)
	if *id == "" {
		fatal(fmt.Errorf("--id is required"))
	}

	cfg := loadConfig()
	decks := openDecks(cfg)
	defer decks.Close()
	d, err := decks.Deck(context.Background(), *id)
	if err != nil {
		fatal(err)
	}
	fmt.Print(deck.FormatText(d))
}

func runDecks(args []string) {
	fs := flag.NewFlagSet("decks", flag.ExitOnError)
	owner := fs.String("owner", "", "deck owner uid")
	fs.Parse(args)
	if *owner == "" {
		fatal(fmt.Errorf("--owner is required"))
	}

	cfg := loadConfig()
	decks := openDecks(cfg)
	defer decks.Close()
	list, err := decks.ListByOwner(context.Background(), *owner)
	if err != nil {
		fatal(err)
	}
	for _, d := range list {
		fmt.Printf("%-36s %-24s %d cards\n", d.ID, d.Name, d.Size())
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
