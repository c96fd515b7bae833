package server

import (
	"encoding/json"
	"net/http"

	"github.com/kpauljoseph/rockdeck/pkg/models"
)

type classView struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type cardView struct {
	Ref      string           `json:"ref"`
	Revealed bool             `json:"revealed"`
	Label    string           `json:"label,omitempty"`
	Info     *models.RockInfo `json:"info,omitempty"`
}

type stateResponse struct {
	Ready     bool        `json:"ready"`
	Card      *cardView   `json:"card,omitempty"`
	Classes   []classView `json:"classes"`
	Selection []string    `json:"selection"`
	DeckSize  int         `json:"deckSize"`
	PileSize  int         `json:"pileSize"`
}

type selectionRequest struct {
	Labels []string `json:"labels"`
}

// state snapshots the session under the lock. The label, and with it the
// rock definition, leaves the server only after an explicit reveal.
func (s *Server) state() stateResponse {
	resp := stateResponse{
		Ready:     s.session.Ready(),
		Selection: []string{},
		Classes:   []classView{},
	}
	if !resp.Ready {
		return resp
	}

	if sel := s.session.Selection(); sel != nil {
		resp.Selection = sel
	}
	counts := s.session.ClassCounts()
	for _, name := range s.session.Labels() {
		resp.Classes = append(resp.Classes, classView{Name: name, Count: counts[name]})
	}
	resp.DeckSize = s.session.DeckLen()
	resp.PileSize = s.session.PileLen()

	if card, revealed, ok := s.session.Current(); ok {
		view := &cardView{Ref: card.Ref, Revealed: revealed}
		if revealed {
			view.Label = card.Label
			if info, found := s.catalog.Lookup(card.Label); found {
				view.Info = &info
			}
		}
		resp.Card = view
	}

	return resp
}

func (s *Server) writeState(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.state()); err != nil {
		s.logger.Warn("failed to encode state: %v", err)
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeState(w)
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.NextCard()
	s.writeState(w)
}

func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Reveal()
	s.writeState(w)
}

func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req selectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid selection body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.SetActiveSelection(req.Labels)
	s.writeState(w)
}

func (s *Server) handleCredits(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	file := r.URL.Query().Get("file")
	rec, ok := s.credits.Lookup(file)
	if !ok {
		http.Error(w, "no attribution for file", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(rec); err != nil {
		s.logger.Warn("failed to encode credit: %v", err)
	}
}
