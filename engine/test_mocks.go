/* test_mocks.go
 * Contains mock structures and interfaces for testing the engine package
 * Authors: Zachary Bower
 */

package engine

import (
	"context"

	"swiss-td/engine/store"
	"swiss-td/engine/tournament"

	"go.mongodb.org/mongo-driver/mongo"
)

// MockStore implements the store Interface for testing. It keeps everything in memory and supports
// error injection for exercising failure paths
type MockStore struct {
	Current *tournament.Tournament
	History []store.HistoryEntry

	// Error injection for testing error paths
	SaveCurrentError  error
	LoadCurrentError  error
	ClearCurrentError error
	SaveHistoryError  error
	ListHistoryError  error
	GetHistoryError   error

	// Call counters for asserting persistence behavior
	SaveCurrentCalls int
}

// NewMockStore creates a new MockStore with empty state
func NewMockStore() *MockStore {
	return &MockStore{}
}

// SaveCurrent mock implementation. Stores a copy so later in-memory mutations are not observable
// through the "persisted" value
func (m *MockStore) SaveCurrent(t *tournament.Tournament) error {
	m.SaveCurrentCalls++
	if m.SaveCurrentError != nil {
		return m.SaveCurrentError
	}
	saved := *t
	m.Current = &saved
	return nil
}

// LoadCurrent mock implementation
func (m *MockStore) LoadCurrent() (*tournament.Tournament, error) {
	if m.LoadCurrentError != nil {
		return nil, m.LoadCurrentError
	}
	if m.Current == nil {
		return nil, nil
	}
	loaded := *m.Current
	return &loaded, nil
}

// ClearCurrent mock implementation
func (m *MockStore) ClearCurrent() error {
	if m.ClearCurrentError != nil {
		return m.ClearCurrentError
	}
	m.Current = nil
	return nil
}

// SaveHistory mock implementation: upsert by tournament ID, newest first
func (m *MockStore) SaveHistory(entry store.HistoryEntry) error {
	if m.SaveHistoryError != nil {
		return m.SaveHistoryError
	}
	for i := range m.History {
		if m.History[i].TournamentID == entry.TournamentID {
			m.History[i] = entry
			return nil
		}
	}
	m.History = append([]store.HistoryEntry{entry}, m.History...)
	return nil
}

// ListHistory mock implementation
func (m *MockStore) ListHistory() ([]store.HistoryEntry, error) {
	if m.ListHistoryError != nil {
		return nil, m.ListHistoryError
	}
	return m.History, nil
}

// GetHistory mock implementation
func (m *MockStore) GetHistory(tournamentID string) (store.HistoryEntry, error) {
	if m.GetHistoryError != nil {
		return store.HistoryEntry{}, m.GetHistoryError
	}
	for _, entry := range m.History {
		if entry.TournamentID == tournamentID {
			return entry, nil
		}
	}
	return store.HistoryEntry{}, mongo.ErrNoDocuments
}

// DeleteHistory mock implementation
func (m *MockStore) DeleteHistory(tournamentID string) error {
	kept := m.History[:0]
	for _, entry := range m.History {
		if entry.TournamentID != tournamentID {
			kept = append(kept, entry)
		}
	}
	m.History = kept
	return nil
}

// ClearHistory mock implementation
func (m *MockStore) ClearHistory() error {
	m.History = nil
	return nil
}

// mockDatabase implements the minimal Database interface needed for tests
type mockDatabase struct {
	name string
}

func (m *mockDatabase) Name() string {
	return m.name
}

// GetDatabase returns a stand-in database handle
func (m *MockStore) GetDatabase() interface{ Name() string } {
	return &mockDatabase{name: "test_db"}
}

// mockClient implements minimal client interface
type mockClient struct{}

func (mc *mockClient) Disconnect(ctx context.Context) error {
	return nil
}

// GetClient returns a stand-in client handle
func (m *MockStore) GetClient() interface{ Disconnect(context.Context) error } {
	return &mockClient{}
}
