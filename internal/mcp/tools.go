package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"runetable/internal/board"
	"runetable/internal/catalog"
	"runetable/internal/docstore"
	"runetable/internal/match"
)

// activeSession is the singleton table session (one per stdio process).
var activeSession *TableSession

// Shared service handles, set by main before serving.
var (
	sharedStore docstore.Store
	sharedCat   *catalog.Catalog
	sharedDecks match.DeckLoader
	rngSeed     int64
)

// Configure wires the MCP tools to the shared services.
func Configure(store docstore.Store, cat *catalog.Catalog, decks match.DeckLoader, seed int64) {
	sharedStore = store
	sharedCat = cat
	sharedDecks = decks
	rngSeed = seed
}

// RegisterTools adds all tabletop tools to the MCP server.
func RegisterTools(s *server.MCPServer) {
	s.AddTool(joinLobbyTool(), handleJoinLobby)
	s.AddTool(leaveLobbyTool(), handleLeaveLobby)
	s.AddTool(getBoardTool(), handleGetBoard)
	s.AddTool(drawCardTool(), handleDrawCard)
	s.AddTool(drawRuneTool(), handleDrawRune)
	s.AddTool(moveCardTool(), handleMoveCard)
	s.AddTool(discardCardTool(), handleDiscardCard)
	s.AddTool(toBottomOfDeckTool(), handleToBottomOfDeck)
	s.AddTool(returnToHandTool(), handleReturnToHand)
	s.AddTool(shuffleDeckTool(), handleShuffleDeck)
	s.AddTool(revealTopTool(), handleRevealTop)
	s.AddTool(clearRevealsTool(), handleClearReveals)
	s.AddTool(adjustScoreTool(), handleAdjustScore)
	s.AddTool(rotateCardTool(), handleRotateCard)
}

// --- Tool definitions ---

func joinLobbyTool() mcp.Tool {
	return mcp.NewTool("join_lobby",
		mcp.WithDescription("Attach to a lobby as a viewer. If the given uid holds a seat in the lobby, "+
			"board operations act for that seat; otherwise the session spectates. "+
			"Seat claiming itself happens in the browser lobby UI."),
		mcp.WithString("lobby_id", mcp.Required(), mcp.Description("Lobby id to join")),
		mcp.WithString("uid", mcp.Required(), mcp.Description("User id to join as")),
		mcp.WithString("username", mcp.Description("Display name")),
	)
}

func leaveLobbyTool() mcp.Tool {
	return mcp.NewTool("leave_lobby",
		mcp.WithDescription("Detach from the current lobby."),
	)
}

func getBoardTool() mcp.Tool {
	return mcp.NewTool("get_board",
		mcp.WithDescription("Get the current board: scores, deck sizes, zone contents, reveals, and events since the last call. Read-only."),
	)
}

func drawCardTool() mcp.Tool {
	return mcp.NewTool("draw_card",
		mcp.WithDescription("Draw the top card of a seat's main deck into its hand. No-op when the deck is empty."),
		mcp.WithString("seat", mcp.Description("Acting seat ('p1' or 'p2'); defaults to your own seat")),
	)
}

func drawRuneTool() mcp.Tool {
	return mcp.NewTool("draw_rune",
		mcp.WithDescription("Draw the next rune into a seat's rune channel. No-op when no runes remain."),
		mcp.WithString("seat", mcp.Description("Acting seat ('p1' or 'p2'); defaults to your own seat")),
	)
}

func moveCardTool() mcp.Tool {
	return mcp.NewTool("move_card",
		mcp.WithDescription("Move a card between zones by zone id and position. Zone ids look like 'p1Hand', "+
			"'p2Discard', 'p1Battlefield1'. Cards moved anywhere except a hand, rune channel, or legend zone "+
			"are automatically turned sideways."),
		mcp.WithString("from", mcp.Required(), mcp.Description("Source zone id")),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based position in the source zone")),
		mcp.WithString("to", mcp.Required(), mcp.Description("Destination zone id")),
	)
}

func discardCardTool() mcp.Tool {
	return mcp.NewTool("discard_card",
		mcp.WithDescription("Send a card from any zone to a discard pile."),
		mcp.WithString("from", mcp.Required(), mcp.Description("Source zone id")),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based position in the source zone")),
		mcp.WithString("discard_zone", mcp.Description("Target discard zone id; defaults to your own discard")),
	)
}

func toBottomOfDeckTool() mcp.Tool {
	return mcp.NewTool("to_bottom_of_deck",
		mcp.WithDescription("Send a card from any zone to the bottom of a seat's main deck (or rune stack when the target is a rune deck zone)."),
		mcp.WithString("from", mcp.Required(), mcp.Description("Source zone id")),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based position in the source zone")),
		mcp.WithString("deck_zone", mcp.Description("Target deck zone id; defaults to your own deck")),
	)
}

func returnToHandTool() mcp.Tool {
	return mcp.NewTool("return_to_hand",
		mcp.WithDescription("Return a card from a discard pile to that seat's hand."),
		mcp.WithString("discard_zone", mcp.Required(), mcp.Description("Discard zone id")),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based position in the discard zone")),
	)
}

func shuffleDeckTool() mcp.Tool {
	return mcp.NewTool("shuffle_deck",
		mcp.WithDescription("Shuffle a seat's main deck, or its rune stack with which='runes'."),
		mcp.WithString("seat", mcp.Description("Acting seat; defaults to your own seat")),
		mcp.WithString("which", mcp.Description("'main' (default) or 'runes'")),
	)
}

func revealTopTool() mcp.Tool {
	return mcp.NewTool("reveal_top",
		mcp.WithDescription("Reveal the top N cards of a seat's main deck to both players. The cards stay on the deck."),
		mcp.WithNumber("count", mcp.Required(), mcp.Description("How many cards to reveal")),
		mcp.WithString("seat", mcp.Description("Acting seat; defaults to your own seat")),
	)
}

func clearRevealsTool() mcp.Tool {
	return mcp.NewTool("clear_reveals",
		mcp.WithDescription("Clear a seat's revealed cards."),
		mcp.WithString("seat", mcp.Description("Acting seat; defaults to your own seat")),
	)
}

func adjustScoreTool() mcp.Tool {
	return mcp.NewTool("adjust_score",
		mcp.WithDescription("Raise or lower a seat's score by one. Scores never go below zero."),
		mcp.WithString("direction", mcp.Required(), mcp.Description("'up' or 'down'")),
		mcp.WithString("seat", mcp.Description("Seat to score; defaults to your own seat")),
	)
}

func rotateCardTool() mcp.Tool {
	return mcp.NewTool("rotate_card",
		mcp.WithDescription("Set the rotation of one card on the board (0 for upright, 90 for tapped)."),
		mcp.WithString("zone", mcp.Required(), mcp.Description("Zone id the card sits in")),
		mcp.WithString("card_id", mcp.Required(), mcp.Description("Card id")),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based position in the zone")),
		mcp.WithNumber("angle", mcp.Required(), mcp.Description("Rotation in degrees")),
	)
}

// --- Tool handlers ---

func handleJoinLobby(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if activeSession != nil {
		return mcp.NewToolResultError("Already in a lobby. Use leave_lobby first."), nil
	}
	lobbyID := request.GetString("lobby_id", "")
	uid := request.GetString("uid", "")
	if lobbyID == "" || uid == "" {
		return mcp.NewToolResultError("lobby_id and uid are required"), nil
	}
	username := request.GetString("username", uid)

	sess, err := newTableSession(context.Background(), sharedStore, sharedCat, sharedDecks, lobbyID, uid, username, rngSeed)
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to join lobby: %v", err), nil
	}
	activeSession = sess
	return mcp.NewToolResultText(sess.respond(true)), nil
}

func handleLeaveLobby(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if activeSession == nil {
		return mcp.NewToolResultError("Not in a lobby."), nil
	}
	activeSession.close()
	activeSession = nil
	return mcp.NewToolResultText(`{"left": true}`), nil
}

func handleGetBoard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, errResult := requireSession()
	if errResult != nil {
		return errResult, nil
	}
	return mcp.NewToolResultText(sess.respond(true)), nil
}

func handleDrawCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, errResult := requireSession()
	if errResult != nil {
		return errResult, nil
	}
	sess.session.DrawFromDeck(sess.mySeatOr(request.GetString("seat", "")))
	return mcp.NewToolResultText(sess.respond(false)), nil
}

func handleDrawRune(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, errResult := requireSession()
	if errResult != nil {
		return errResult, nil
	}
	sess.session.DrawRune(sess.mySeatOr(request.GetString("seat", "")))
	return mcp.NewToolResultText(sess.respond(false)), nil
}

func handleMoveCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, errResult := requireSession()
	if errResult != nil {
		return errResult, nil
	}
	from, err := board.ParseZoneID(request.GetString("from", ""))
	if err != nil {
		return mcp.NewToolResultErrorf("bad 'from' zone: %v", err), nil
	}
	to, err := board.ParseZoneID(request.GetString("to", ""))
	if err != nil {
		return mcp.NewToolResultErrorf("bad 'to' zone: %v", err), nil
	}
	sess.session.MoveCard(from, request.GetInt("index", -1), to)
	return mcp.NewToolResultText(sess.respond(false)), nil
}

func handleDiscardCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, errResult := requireSession()
	if errResult != nil {
		return errResult, nil
	}
	from, err := board.ParseZoneID(request.GetString("from", ""))
	if err != nil {
		return mcp.NewToolResultErrorf("bad 'from' zone: %v", err), nil
	}
	target := board.ZoneIDFor(sess.session.MySeat(), board.KindDiscard)
	if arg := request.GetString("discard_zone", ""); arg != "" {
		target, err = board.ParseZoneID(arg)
		if err != nil || target.Kind != board.KindDiscard {
			return mcp.NewToolResultError("discard_zone must name a discard zone"), nil
		}
	}
	sess.session.SendToDiscard(from, request.GetInt("index", -1), target)
	return mcp.NewToolResultText(sess.respond(false)), nil
}

func handleToBottomOfDeck(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, errResult := requireSession()
	if errResult != nil {
		return errResult, nil
	}
	from, err := board.ParseZoneID(request.GetString("from", ""))
	if err != nil {
		return mcp.NewToolResultErrorf("bad 'from' zone: %v", err), nil
	}
	target := board.ZoneIDFor(sess.session.MySeat(), board.KindDeck)
	if arg := request.GetString("deck_zone", ""); arg != "" {
		target, err = board.ParseZoneID(arg)
		if err != nil {
			return mcp.NewToolResultErrorf("bad 'deck_zone': %v", err), nil
		}
	}
	sess.session.SendToBottomOfDeck(from, request.GetInt("index", -1), target)
	return mcp.NewToolResultText(sess.respond(false)), nil
}

func handleReturnToHand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, errResult := requireSession()
	if errResult != nil {
		return errResult, nil
	}
	zone, err := board.ParseZoneID(request.GetString("discard_zone", ""))
	if err != nil || zone.Kind != board.KindDiscard {
		return mcp.NewToolResultError("discard_zone must name a discard zone"), nil
	}
	sess.session.DiscardToHand(zone, request.GetInt("index", -1))
	return mcp.NewToolResultText(sess.respond(false)), nil
}

func handleShuffleDeck(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, errResult := requireSession()
	if errResult != nil {
		return errResult, nil
	}
	seat := sess.mySeatOr(request.GetString("seat", ""))
	if request.GetString("which", "main") == "runes" {
		sess.session.ShuffleRuneDeck(seat)
	} else {
		sess.session.ShuffleMainDeck(seat)
	}
	return mcp.NewToolResultText(sess.respond(false)), nil
}

func handleRevealTop(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, errResult := requireSession()
	if errResult != nil {
		return errResult, nil
	}
	sess.session.SyncReveals(sess.mySeatOr(request.GetString("seat", "")), request.GetInt("count", 0))
	return mcp.NewToolResultText(sess.respond(true)), nil
}

func handleClearReveals(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, errResult := requireSession()
	if errResult != nil {
		return errResult, nil
	}
	sess.session.ClearReveals(sess.mySeatOr(request.GetString("seat", "")))
	return mcp.NewToolResultText(sess.respond(false)), nil
}

func handleAdjustScore(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, errResult := requireSession()
	if errResult != nil {
		return errResult, nil
	}
	seat := sess.mySeatOr(request.GetString("seat", ""))
	switch request.GetString("direction", "") {
	case "up":
		sess.session.IncrementScore(seat)
	case "down":
		sess.session.DecrementScore(seat)
	default:
		return mcp.NewToolResultError("direction must be 'up' or 'down'"), nil
	}
	return mcp.NewToolResultText(sess.respond(false)), nil
}

func handleRotateCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, errResult := requireSession()
	if errResult != nil {
		return errResult, nil
	}
	zone, err := board.ParseZoneID(request.GetString("zone", ""))
	if err != nil {
		return mcp.NewToolResultErrorf("bad 'zone': %v", err), nil
	}
	sess.session.SetRotation(zone, request.GetString("card_id", ""), request.GetInt("index", -1), request.GetInt("angle", 0))
	return mcp.NewToolResultText(sess.respond(false)), nil
}

func requireSession() (*TableSession, *mcp.CallToolResult) {
	if activeSession == nil {
		return nil, mcp.NewToolResultError("Not in a lobby. Use join_lobby first.")
	}
	return activeSession, nil
}
