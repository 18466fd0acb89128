package repository

import (
	"context"
	"errors"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicate is returned when a unique key (e.g. username) already exists
var ErrDuplicate = errors.New("duplicate key")

// Collection names
const (
	PlayersCollection     = "players"
	TasksCollection       = "tasks"
	AssignmentsCollection = "player_tasks"
	SessionsCollection    = "settings"
)

// EnsureIndexes creates the indexes every repository relies on
func EnsureIndexes(ctx context.Context, db *mongo.Database) {
	createIndex(ctx, db.Collection(PlayersCollection), bson.D{{Key: "username", Value: 1}}, true)
	createIndex(ctx, db.Collection(PlayersCollection), bson.D{{Key: "role", Value: 1}}, false)
	createIndex(ctx, db.Collection(AssignmentsCollection), bson.D{
		{Key: "username", Value: 1},
		{Key: "completed", Value: 1},
	}, false)
	createIndex(ctx, db.Collection(AssignmentsCollection), bson.D{
		{Key: "username", Value: 1},
		{Key: "taskId", Value: 1},
	}, false)

	log.Println("Mongo indexes ensured")
}

func createIndex(ctx context.Context, coll *mongo.Collection, keys bson.D, unique bool) {
	opts := options.Index().SetUnique(unique)
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: keys, Options: opts})
	if err != nil {
		log.Printf("Warning: failed to create index on %s: %v", coll.Name(), err)
	}
}
