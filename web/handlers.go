/* handlers.go
 * Contains the JSON view handlers. The engine is single-user and synchronous, so these endpoints
 * are strictly read-only: every mutation goes through the bot commands
 * Authors: Zachary Bower
 */

package web

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"swiss-td/engine"
)

// allow applies the shared rate limit and the read-only method restriction common to every endpoint
func (s *Server) allow(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	if !s.limiter.Allow() {
		w.WriteHeader(http.StatusTooManyRequests)
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Println("failed to encode response:", err)
	}
}

// TournamentHandler serves the full current tournament aggregate
func (s *Server) TournamentHandler(w http.ResponseWriter, r *http.Request) {
	if !s.allow(w, r) {
		return
	}
	t := s.api.Current()
	if t == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	s.writeJSON(w, t)
}

// PairingsHandler serves the pairings of the current round
func (s *Server) PairingsHandler(w http.ResponseWriter, r *http.Request) {
	if !s.allow(w, r) {
		return
	}
	pairings, err := s.api.GetCurrentRoundPairings()
	if err != nil {
		if errors.Is(err, engine.ErrNoTournament) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		log.Println("failed to get pairings:", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, pairings)
}

// StandingsHandler serves the ranked standings with tie-break statistics
func (s *Server) StandingsHandler(w http.ResponseWriter, r *http.Request) {
	if !s.allow(w, r) {
		return
	}
	ranking, err := s.api.GetFinalRanking()
	if err != nil {
		if errors.Is(err, engine.ErrNoTournament) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		log.Println("failed to get standings:", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, ranking)
}

// HistoryHandler serves the list of finished tournaments, newest first
func (s *Server) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	if !s.allow(w, r) {
		return
	}
	entries, err := s.api.GetTournamentHistory()
	if err != nil {
		log.Println("failed to get history:", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, entries)
}
