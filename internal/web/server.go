// Package web serves the browser hub: the static tabletop UI, REST
// endpoints for cards, decks, and lobbies, and the websocket bridge
// that attaches a browser to a live match session.
package web

import (
	"embed"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"net/http"

	"github.com/sirupsen/logrus"

	"runetable/internal/catalog"
	"runetable/internal/deck"
	"runetable/internal/docstore"
	"runetable/internal/lobby"
	"runetable/internal/presence"
)

//go:embed static
var staticFiles embed.FS

// CardInfo is the JSON representation of a card for /api/cards.
type CardInfo struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Type   string   `json:"type"`
	Number string   `json:"number,omitempty"`
	Rarity string   `json:"rarity,omitempty"`
	Images []string `json:"images,omitempty"`
}

// Server is the runetable web server.
type Server struct {
	cat     *catalog.Catalog
	decks   *deck.Store
	lobbies *lobby.Service
	store   docstore.Store
	log     *logrus.Entry
	seed    int64
	mux     *http.ServeMux
}

// NewServer assembles the web server over the shared document store.
func NewServer(cat *catalog.Catalog, decks *deck.Store, store docstore.Store, log *logrus.Entry, seed int64) *Server {
	s := &Server{
		cat:     cat,
		decks:   decks,
		lobbies: lobby.NewService(store),
		store:   store,
		log:     log,
		seed:    seed,
		mux:     http.NewServeMux(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	staticFS, _ := fs.Sub(staticFiles, "static")

	s.mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		f, err := staticFS.Open("index.html")
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer f.Close()
		io.Copy(w, f.(io.Reader))
	})
	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	s.mux.HandleFunc("GET /api/cards", s.handleCards)

	s.mux.HandleFunc("GET /api/decks", s.handleListDecks)
	s.mux.HandleFunc("POST /api/decks", s.handleSaveDeck)
	s.mux.HandleFunc("GET /api/decks/{id}", s.handleGetDeck)
	s.mux.HandleFunc("DELETE /api/decks/{id}", s.handleDeleteDeck)
	s.mux.HandleFunc("POST /api/decks/import", s.handleImportDeck)
	s.mux.HandleFunc("GET /api/decks/{id}/export", s.handleExportDeck)

	s.mux.HandleFunc("POST /api/lobbies", s.handleCreateLobby)
	s.mux.HandleFunc("GET /api/lobbies/{id}", s.handleGetLobby)
	s.mux.HandleFunc("POST /api/lobbies/{id}/seat", s.handleSeat)
	s.mux.HandleFunc("POST /api/lobbies/{id}/ready", s.handleReady)
	s.mux.HandleFunc("POST /api/lobbies/{id}/deck", s.handleLobbyDeck)
	s.mux.HandleFunc("POST /api/lobbies/{id}/status", s.handleStatus)
	s.mux.HandleFunc("POST /api/lobbies/{id}/spectators", s.handleSpectate)

	s.mux.HandleFunc("GET /api/presence/{uid}", s.handlePresence)

	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
}

// --- Presence ---

func (s *Server) handlePresence(w http.ResponseWriter, r *http.Request) {
	data, err := s.store.Get(r.Context(), presence.PathFor(r.PathValue("uid")))
	if errors.Is(err, docstore.ErrNotFound) {
		writeJSON(w, http.StatusOK, presence.Doc{})
		return
	}
	if err != nil {
		s.log.WithError(err).Error("read presence")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// --- Cards ---

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	cards := make([]CardInfo, 0)
	for _, c := range s.cat.Cards() {
		cards = append(cards, CardInfo{
			ID:     c.ID,
			Name:   c.Name,
			Type:   string(c.Type),
			Number: c.Number,
			Rarity: c.Rarity,
			Images: c.Images,
		})
	}
	writeJSON(w, http.StatusOK, cards)
}

// --- Decks ---

func (s *Server) handleListDecks(w http.ResponseWriter, r *http.Request) {
	owner := r.URL.Query().Get("owner")
	if owner == "" {
		http.Error(w, "owner query parameter required", http.StatusBadRequest)
		return
	}
	decks, err := s.decks.ListByOwner(r.Context(), owner)
	if err != nil {
		s.log.WithError(err).Error("list decks")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if decks == nil {
		decks = []*deck.Deck{}
	}
	writeJSON(w, http.StatusOK, decks)
}

func (s *Server) handleSaveDeck(w http.ResponseWriter, r *http.Request) {
	var d deck.Deck
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		http.Error(w, "bad deck body", http.StatusBadRequest)
		return
	}
	if d.Owner == "" {
		http.Error(w, "deck owner required", http.StatusBadRequest)
		return
	}
	if err := s.decks.Save(r.Context(), &d); err != nil {
		s.log.WithError(err).Error("save deck")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, &d)
}

func (s *Server) handleGetDeck(w http.ResponseWriter, r *http.Request) {
	d, err := s.decks.Deck(r.Context(), r.PathValue("id"))
	if errors.Is(err, deck.ErrNotFound) {
		http.Error(w, "no such deck", http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.WithError(err).Error("get deck")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleDeleteDeck(w http.ResponseWriter, r *http.Request) {
	if err := s.decks.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.log.WithError(err).Error("delete deck")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleImportDeck(w http.ResponseWriter, r *http.Request) {
	owner := r.URL.Query().Get("owner")
	if owner == "" {
		http.Error(w, "owner query parameter required", http.StatusBadRequest)
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}
	d, err := deck.ParseText(string(body))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	d.Owner = owner
	if err := s.decks.Save(r.Context(), d); err != nil {
		s.log.WithError(err).Error("save imported deck")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleExportDeck(w http.ResponseWriter, r *http.Request) {
	d, err := s.decks.Deck(r.Context(), r.PathValue("id"))
	if errors.Is(err, deck.ErrNotFound) {
		http.Error(w, "no such deck", http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.WithError(err).Error("export deck")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, deck.FormatText(d))
}

// --- Lobbies ---

type lobbyRequest struct {
	UID      string `json:"uid"`
	Username string `json:"username"`
	Seat     string `json:"seat,omitempty"`
	Action   string `json:"action,omitempty"` // "claim" (default) or "leave"
	Ready    bool   `json:"ready,omitempty"`
	DeckID   string `json:"deckId,omitempty"`
	Status   string `json:"status,omitempty"`
}

func (s *Server) handleCreateLobby(w http.ResponseWriter, r *http.Request) {
	var req lobbyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UID == "" {
		http.Error(w, "uid required", http.StatusBadRequest)
		return
	}
	l, err := s.lobbies.Create(r.Context(), req.UID, req.Username)
	if err != nil {
		s.log.WithError(err).Error("create lobby")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleGetLobby(w http.ResponseWriter, r *http.Request) {
	l, err := s.lobbies.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.lobbyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleSeat(w http.ResponseWriter, r *http.Request) {
	var req lobbyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UID == "" {
		http.Error(w, "uid required", http.StatusBadRequest)
		return
	}
	id := r.PathValue("id")
	var err error
	if req.Action == "leave" {
		err = s.lobbies.LeaveSeat(r.Context(), id, req.UID)
	} else {
		err = s.lobbies.ClaimSeat(r.Context(), id, req.Seat, lobby.Member{UID: req.UID, Username: req.Username})
	}
	if err != nil {
		s.lobbyError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	var req lobbyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UID == "" {
		http.Error(w, "uid required", http.StatusBadRequest)
		return
	}
	if err := s.lobbies.SetReady(r.Context(), r.PathValue("id"), req.UID, req.Ready); err != nil {
		s.lobbyError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLobbyDeck(w http.ResponseWriter, r *http.Request) {
	var req lobbyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UID == "" {
		http.Error(w, "uid required", http.StatusBadRequest)
		return
	}
	if err := s.lobbies.SetDeck(r.Context(), r.PathValue("id"), req.UID, req.DeckID); err != nil {
		s.lobbyError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	var req lobbyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		http.Error(w, "status required", http.StatusBadRequest)
		return
	}
	if err := s.lobbies.SetStatus(r.Context(), r.PathValue("id"), lobby.Status(req.Status)); err != nil {
		s.lobbyError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSpectate(w http.ResponseWriter, r *http.Request) {
	var req lobbyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UID == "" {
		http.Error(w, "uid required", http.StatusBadRequest)
		return
	}
	if err := s.lobbies.AddSpectator(r.Context(), r.PathValue("id"), lobby.Member{UID: req.UID, Username: req.Username}); err != nil {
		s.lobbyError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) lobbyError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, lobby.ErrLobbyMissing):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, lobby.ErrSeatTaken), errors.Is(err, lobby.ErrLobbyClosed):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, lobby.ErrNotInSeat):
		http.Error(w, err.Error(), http.StatusForbidden)
	default:
		s.log.WithError(err).Error("lobby operation")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.mux)
}

// Handler exposes the mux, for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}
