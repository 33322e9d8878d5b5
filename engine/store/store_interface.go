/* store_interface.go
 * Contains the Store interface for dependency injection and testing
 * Authors: Zachary Bower
 */

package store

import (
	"context"

	"swiss-td/engine/tournament"
)

// Interface defines the persistence port the engine calls but does not implement. It allows the
// mongo-backed Store to be swapped for an in-memory test double.
type Interface interface {
	SaveCurrent(t *tournament.Tournament) error
	LoadCurrent() (*tournament.Tournament, error)
	ClearCurrent() error

	SaveHistory(entry HistoryEntry) error
	ListHistory() ([]HistoryEntry, error)
	GetHistory(tournamentID string) (HistoryEntry, error)
	DeleteHistory(tournamentID string) error
	ClearHistory() error

	// Getter methods for accessing fields
	GetDatabase() interface{ Name() string }
	GetClient() interface{ Disconnect(context.Context) error }
}

// Ensure Store implements Interface
var _ Interface = (*Store)(nil)

// GetDatabase returns the database instance
func (s *Store) GetDatabase() interface{ Name() string } {
	return s.Database
}

// GetClient returns the MongoDB client
func (s *Store) GetClient() interface{ Disconnect(context.Context) error } {
	return s.Client
}
