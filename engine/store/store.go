/* store.go
 * Contains the Store struct and NewStore function. The methods for this package were split into two
 * files: current.go for the single in-progress tournament document and history.go for the capped
 * list of finished tournaments
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// currentKey is the fixed key under which the single in-progress tournament is stored
const currentKey = "current"

// historyLimit caps the history list; the oldest entries are evicted beyond it
const historyLimit = 50

type Store struct {
	Client      *mongo.Client
	Database    *mongo.Database
	Collections struct {
		Current *mongo.Collection
		History *mongo.Collection
	}
}

// NewStore initialises the MongoDB-backed store.
// Preconditions: Receives the database name and a mongo connection URI
// Postconditions: Returns a pointer to the Store with both collections bound, or an error if the
// connection could not be established
func NewStore(dbName string, mongoURI string) (*Store, error) {
	if dbName == "" {
		return nil, fmt.Errorf("dbName cannot be empty")
	}
	client, err := mongo.Connect(context.TODO(), options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, err
	}
	db := client.Database(dbName)

	s := &Store{
		Client:   client,
		Database: db,
	}
	s.Collections.Current = db.Collection("current_tournament")
	s.Collections.History = db.Collection("tournament_history")
	return s, nil
}
