/* engine.go
 * This file contains the public methods for interacting with the tournament engine. For consistent
 * results, callers should go through this facade rather than the tournament or store sub packages.
 * The bot and web layers each dispatch handlers on their own goroutines, so every exported method
 * serializes on one mutex and read methods hand out snapshots rather than live aggregate state.
 * Every mutating operation persists the aggregate afterwards; a storage failure is logged and does
 * not roll back the in-memory state
 * Authors: Zachary Bower
 */

package engine

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"swiss-td/engine/store"
	"swiss-td/engine/tournament"
)

// ErrNoTournament is returned by operations that need a tournament when none is in progress
var ErrNoTournament = errors.New("no tournament in progress")

// API provides methods for driving a Swiss tournament end to end
type API struct {
	Store store.Interface

	mu      sync.Mutex
	current *tournament.Tournament
}

// NewAPI creates a new API instance backed by the MongoDB store
func NewAPI(dbName string, mongoURI string) (*API, error) {
	s, err := store.NewStore(dbName, mongoURI)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}
	return &API{Store: s}, nil
}

// NewAPIWithStore creates an API instance over any store implementation. Used by tests and by
// callers that bring their own persistence
func NewAPIWithStore(s store.Interface) *API {
	return &API{Store: s}
}

// Current returns a deep copy of the tournament aggregate, or nil when none is in progress.
// Presentation layers render the copy freely; mutations go through the API methods
func (a *API) Current() *tournament.Tournament {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current == nil {
		return nil
	}
	return a.current.Clone()
}

func (a *API) requireTournament() (*tournament.Tournament, error) {
	if a.current == nil {
		return nil, ErrNoTournament
	}
	return a.current, nil
}

// persist writes the aggregate to the store. Persistence is best effort: a failure is logged and
// the in-memory state stays authoritative
func (a *API) persist() {
	if a.current == nil {
		return
	}
	if err := a.Store.SaveCurrent(a.current); err != nil {
		log.Println("failed to persist tournament:", err)
	}
}

// Initialize validates the player list, builds a fresh tournament and persists it immediately.
// Preconditions: Receives the raw player names and initialization options
// Postconditions: The new tournament becomes current, or a ValidationError is returned for fewer
// than 2 usable names or duplicates
func (a *API) Initialize(names []string, opts tournament.Options) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	t, err := tournament.New(names, opts)
	if err != nil {
		return err
	}
	a.current = t
	a.persist()
	return nil
}

// buildPairings previews or validates the next round's pairings. The caller holds the mutex
func (a *API) buildPairings(custom []tournament.CustomPairing) ([]tournament.Pairing, error) {
	t, err := a.requireTournament()
	if err != nil {
		return nil, err
	}
	if len(custom) > 0 {
		return t.BuildCustomPairings(custom)
	}
	return t.GeneratePairings()
}

// GenerateRoundPairings previews the pairings for the next round without committing them. A
// non-empty custom set is validated instead of generated
func (a *API) GenerateRoundPairings(custom []tournament.CustomPairing) ([]tournament.Pairing, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.buildPairings(custom)
}

// StartNewRound generates (or validates, for a custom set) the pairings and commits them as the
// next round, scoring any bye immediately
func (a *API) StartNewRound(custom []tournament.CustomPairing) (*tournament.Round, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	t, err := a.requireTournament()
	if err != nil {
		return nil, err
	}
	pairings, err := a.buildPairings(custom)
	if err != nil {
		return nil, err
	}
	round, err := t.StartRound(pairings)
	if err != nil {
		return nil, err
	}
	a.persist()

	snapshot := *round
	snapshot.Pairings = append([]tournament.Pairing{}, round.Pairings...)
	return &snapshot, nil
}

// RecordMatchResult records the outcome of one pairing and optionally drops players
func (a *API) RecordMatchResult(roundNum, pairingID int, result tournament.ResultCode, droppedIDs []int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	t, err := a.requireTournament()
	if err != nil {
		return err
	}
	if err := t.RecordResult(roundNum, pairingID, result, droppedIDs); err != nil {
		return err
	}
	a.persist()
	return nil
}

// CorrectMatchResult overwrites a recorded result with rollback-then-replay semantics. The
// returned flag is true when later rounds exist and were paired from now-stale data; the caller
// decides whether to run RecalculatePairingsFromRound
func (a *API) CorrectMatchResult(roundNum, pairingID int, newResult tournament.ResultCode, droppedIDs []int) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	t, err := a.requireTournament()
	if err != nil {
		return false, err
	}
	needsRecalc, err := t.CorrectResult(roundNum, pairingID, newResult, droppedIDs)
	if err != nil {
		return false, err
	}
	a.persist()
	return needsRecalc, nil
}

// DropPlayers withdraws the given players from all future pairings. Their recorded results and
// their place in the final ranking are unaffected
func (a *API) DropPlayers(playerIDs []int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	t, err := a.requireTournament()
	if err != nil {
		return err
	}
	if err := t.DropPlayers(playerIDs); err != nil {
		return err
	}
	a.persist()
	return nil
}

// RecalculatePairingsFromRound discards every round after the given one and rolls back its
// effects. Destructive: the presentation layer is expected to confirm with the user first
func (a *API) RecalculatePairingsFromRound(roundNum int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	t, err := a.requireTournament()
	if err != nil {
		return err
	}
	if err := t.RecalculateFromRound(roundNum); err != nil {
		return err
	}
	a.persist()
	return nil
}

// FinishTournament freezes the tournament, snapshots it into the history list and persists
func (a *API) FinishTournament() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	t, err := a.requireTournament()
	if err != nil {
		return err
	}
	if err := t.Finish(); err != nil {
		return err
	}
	if err := a.Store.SaveHistory(store.NewHistoryEntry(t)); err != nil {
		log.Println("failed to save tournament into history:", err)
	}
	a.persist()
	return nil
}

// GetFinalRanking returns every player in final standings order with ranks assigned
func (a *API) GetFinalRanking() ([]tournament.Player, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	t, err := a.requireTournament()
	if err != nil {
		return nil, err
	}
	return t.FinalRanking(), nil
}

// GetCurrentRoundPairings returns the pairings of the latest round
func (a *API) GetCurrentRoundPairings() ([]tournament.Pairing, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	t, err := a.requireTournament()
	if err != nil {
		return nil, err
	}
	pairings := t.CurrentPairings()
	if len(pairings) == 0 {
		return nil, nil
	}
	return append([]tournament.Pairing{}, pairings...), nil
}

// GetStatistics recomputes the tie-break statistics and returns a progress snapshot
func (a *API) GetStatistics() (tournament.Statistics, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	t, err := a.requireTournament()
	if err != nil {
		return tournament.Statistics{}, err
	}
	return t.Statistics(), nil
}

// Save persists the current tournament explicitly. Unlike the automatic persistence in the
// mutators, an explicit save surfaces the storage error to the caller
func (a *API) Save() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	t, err := a.requireTournament()
	if err != nil {
		return err
	}
	return a.Store.SaveCurrent(t)
}

// Load replaces the in-memory state from the store. A missing document is not an error: it means
// no tournament is in progress and leaves the current state untouched
func (a *API) Load() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	t, err := a.Store.LoadCurrent()
	if err != nil {
		return fmt.Errorf("failed to load tournament: %w", err)
	}
	if t != nil {
		a.current = t
	}
	return nil
}

// ExportTournament wraps a copy of the current tournament in a self-describing document
func (a *API) ExportTournament() (tournament.ExportDocument, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	t, err := a.requireTournament()
	if err != nil {
		return tournament.ExportDocument{}, err
	}
	return tournament.Export(t.Clone()), nil
}

// ImportTournament validates an export document and wholesale-replaces the current tournament
func (a *API) ImportTournament(doc tournament.ExportDocument) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	t, err := tournament.Import(doc)
	if err != nil {
		return err
	}
	a.current = t.Clone()
	a.persist()
	return nil
}

// GetTournamentHistory lists the finished tournaments, newest first
func (a *API) GetTournamentHistory() ([]store.HistoryEntry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Store.ListHistory()
}

// DeleteHistoryTournament removes one finished tournament from the history list
func (a *API) DeleteHistoryTournament(tournamentID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Store.DeleteHistory(tournamentID)
}

// ClearAllHistory removes every finished tournament from the history list
func (a *API) ClearAllHistory() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Store.ClearHistory()
}

// LoadFromHistory restores a finished tournament from the history list as the current tournament
func (a *API) LoadFromHistory(tournamentID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	entry, err := a.Store.GetHistory(tournamentID)
	if err != nil {
		return fmt.Errorf("failed to load tournament %s from history: %w", tournamentID, err)
	}
	restored := entry.Tournament
	a.current = &restored
	a.persist()
	return nil
}
