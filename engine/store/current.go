/* current.go
 * Contains the methods for interacting with the current_tournament collection, which holds at most
 * one document: the full tournament aggregate under a fixed key
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"swiss-td/engine/tournament"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// currentDoc wraps the aggregate with its fixed storage key
type currentDoc struct {
	Key        string                `bson:"key"`
	UpdatedAt  int64                 `bson:"updatedAt"`
	Tournament tournament.Tournament `bson:"tournament"`
}

// SaveCurrent serializes the full tournament aggregate under the fixed current-tournament key.
// Preconditions: Receives the tournament to persist
// Postconditions: Inserts or updates the single current document, or returns an error if the
// operation was unsuccessful
func (s *Store) SaveCurrent(t *tournament.Tournament) error {
	if t == nil {
		return fmt.Errorf("cannot save a nil tournament")
	}

	// Attempt to find an existing document
	var raw bson.M
	err := s.Collections.Current.FindOne(context.TODO(), bson.M{"key": currentKey}).Decode(&raw)
	notFound := errors.Is(err, mongo.ErrNoDocuments)

	if err != nil && !notFound {
		return fmt.Errorf("lookup for existing tournament failed: %w", err)
	}

	doc := currentDoc{
		Key:        currentKey,
		UpdatedAt:  time.Now().Unix(),
		Tournament: *t,
	}

	if notFound {
		_, err := s.Collections.Current.InsertOne(context.TODO(), doc)
		if err != nil {
			return fmt.Errorf("failed to insert current tournament: %w", err)
		}
		return nil
	}

	_, err = s.Collections.Current.UpdateOne(context.TODO(),
		bson.M{"key": currentKey},
		bson.M{"$set": doc})
	if err != nil {
		return fmt.Errorf("failed to update current tournament: %w", err)
	}
	return nil
}

// LoadCurrent deserializes the current tournament wholesale. Absence is not an error: a missing
// document means no tournament is in progress and returns (nil, nil)
func (s *Store) LoadCurrent() (*tournament.Tournament, error) {
	var doc currentDoc
	err := s.Collections.Current.FindOne(context.TODO(), bson.M{"key": currentKey}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching current tournament from db: %w", err)
	}
	return &doc.Tournament, nil
}

// ClearCurrent removes the current tournament document if one exists
func (s *Store) ClearCurrent() error {
	_, err := s.Collections.Current.DeleteOne(context.TODO(), bson.M{"key": currentKey})
	if err != nil {
		return fmt.Errorf("failed to clear current tournament: %w", err)
	}
	return nil
}
