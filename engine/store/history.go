/* history.go
 * Contains the methods for interacting with the tournament_history collection: an ordered list of
 * finished tournaments, upserted by tournament ID, newest first, capped at historyLimit entries
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"errors"
	"fmt"

	"swiss-td/engine/tournament"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// HistoryEntry is one finished tournament snapshot. The summary fields are denormalized for
// listing; Tournament carries the full aggregate so a history entry can be reloaded as the current
// tournament
type HistoryEntry struct {
	TournamentID   string                `bson:"tournamentId"`
	TournamentName string                `bson:"tournamentName"`
	FinishedAt     int64                 `bson:"finishedAt"`
	PlayerCount    int                   `bson:"playerCount"`
	TotalRounds    int                   `bson:"totalRounds"`
	Winner         string                `bson:"winner"`
	Tournament     tournament.Tournament `bson:"tournament"`
}

// NewHistoryEntry builds a history snapshot from a finished tournament
func NewHistoryEntry(t *tournament.Tournament) HistoryEntry {
	entry := HistoryEntry{
		TournamentID:   t.TournamentID,
		TournamentName: t.TournamentName,
		FinishedAt:     t.FinishedAt,
		PlayerCount:    len(t.Players),
		TotalRounds:    t.TotalRounds,
		Tournament:     *t,
	}
	for _, p := range t.Players {
		if p.Rank == 1 {
			entry.Winner = p.Name
			break
		}
	}
	return entry
}

// SaveHistory upserts a finished tournament snapshot by tournament ID and evicts the oldest
// entries beyond the history cap.
// Postconditions: The entry is inserted or updated and the collection holds at most historyLimit
// documents, or an error is returned if the operation was unsuccessful
func (s *Store) SaveHistory(entry HistoryEntry) error {
	if entry.TournamentID == "" {
		return fmt.Errorf("history entry has no tournament id")
	}

	// Attempt to find an existing document
	var raw bson.M
	filter := bson.M{"tournamentId": entry.TournamentID}
	err := s.Collections.History.FindOne(context.TODO(), filter).Decode(&raw)
	notFound := errors.Is(err, mongo.ErrNoDocuments)

	if err != nil && !notFound {
		return fmt.Errorf("lookup for existing history entry failed: %w", err)
	}

	if notFound {
		_, err := s.Collections.History.InsertOne(context.TODO(), entry)
		if err != nil {
			return fmt.Errorf("failed to insert history entry: %w", err)
		}
	} else {
		_, err = s.Collections.History.UpdateOne(context.TODO(), filter, bson.M{"$set": entry})
		if err != nil {
			return fmt.Errorf("failed to update history entry: %w", err)
		}
	}

	return s.evictOldest()
}

// evictOldest deletes everything past the newest historyLimit entries
func (s *Store) evictOldest() error {
	entries, err := s.ListHistory()
	if err != nil {
		return err
	}
	if len(entries) <= historyLimit {
		return nil
	}

	var stale []string
	for _, entry := range entries[historyLimit:] {
		stale = append(stale, entry.TournamentID)
	}
	_, err = s.Collections.History.DeleteMany(context.TODO(),
		bson.M{"tournamentId": bson.M{"$in": stale}})
	if err != nil {
		return fmt.Errorf("failed to evict old history entries: %w", err)
	}
	return nil
}

// ListHistory returns every history entry, newest first
func (s *Store) ListHistory() ([]HistoryEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "finishedAt", Value: -1}})
	cursor, err := s.Collections.History.Find(context.TODO(), bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching history from db: %w", err)
	}

	var entries []HistoryEntry
	if err = cursor.All(context.TODO(), &entries); err != nil {
		return nil, fmt.Errorf("error unpacking cursor into history entries: %w", err)
	}
	return entries, nil
}

// GetHistory fetches one history entry by tournament ID. Returns mongo.ErrNoDocuments untouched so
// callers can distinguish absence from failure
func (s *Store) GetHistory(tournamentID string) (HistoryEntry, error) {
	var entry HistoryEntry
	err := s.Collections.History.FindOne(context.TODO(),
		bson.M{"tournamentId": tournamentID}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return HistoryEntry{}, err
		}
		return HistoryEntry{}, fmt.Errorf("error fetching history entry from db: %w", err)
	}
	return entry, nil
}

// DeleteHistory removes one history entry by tournament ID
func (s *Store) DeleteHistory(tournamentID string) error {
	_, err := s.Collections.History.DeleteOne(context.TODO(),
		bson.M{"tournamentId": tournamentID})
	if err != nil {
		return fmt.Errorf("failed to delete history entry: %w", err)
	}
	return nil
}

// ClearHistory removes every history entry
func (s *Store) ClearHistory() error {
	_, err := s.Collections.History.DeleteMany(context.TODO(), bson.M{})
	if err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}
