package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"crewhunt/internal/model"
)

// AssignmentRepo stores the per-player task instances of the current round
type AssignmentRepo interface {
	InsertMany(ctx context.Context, assignments []*model.TaskAssignment) error
	DeleteAll(ctx context.Context) error
	ListByUsername(ctx context.Context, username string) ([]*model.TaskAssignment, error)

	// TakeIncomplete removes and returns every incomplete assignment of username
	TakeIncomplete(ctx context.Context, username string) ([]*model.TaskAssignment, error)
	// IncompleteCounts returns the open assignment count for each username (0 when none)
	IncompleteCounts(ctx context.Context, usernames []string) (map[string]int, error)

	// CompleteOne flips one incomplete assignment of (username, taskID) to
	// completed and reports whether one was flipped
	CompleteOne(ctx context.Context, username, taskID string) (bool, error)
	// Exists reports whether username holds any assignment of taskID
	Exists(ctx context.Context, username, taskID string) (bool, error)

	CountAll(ctx context.Context) (int, error)
	CountCompleted(ctx context.Context) (int, error)
}

type assignmentRepo struct {
	collection *mongo.Collection
}

func NewAssignmentRepo(db *mongo.Database) AssignmentRepo {
	return &assignmentRepo{
		collection: db.Collection(AssignmentsCollection),
	}
}

func (r *assignmentRepo) InsertMany(ctx context.Context, assignments []*model.TaskAssignment) error {
	if len(assignments) == 0 {
		return nil
	}

	now := time.Now()
	docs := make([]interface{}, len(assignments))
	for i, a := range assignments {
		if a.ID == "" {
			a.ID = primitive.NewObjectID().Hex()
		}
		if a.AssignedAt.IsZero() {
			a.AssignedAt = now
		}
		docs[i] = a
	}

	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert assignments: %w", err)
	}
	return nil
}

func (r *assignmentRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("delete assignments: %w", err)
	}
	return nil
}

func (r *assignmentRepo) ListByUsername(ctx context.Context, username string) ([]*model.TaskAssignment, error) {
	return r.find(ctx, bson.M{"username": username})
}

func (r *assignmentRepo) find(ctx context.Context, filter bson.M) ([]*model.TaskAssignment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "assignedAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find assignments: %w", err)
	}
	defer cursor.Close(ctx)

	var assignments []*model.TaskAssignment
	if err := cursor.All(ctx, &assignments); err != nil {
		return nil, fmt.Errorf("decode assignments: %w", err)
	}
	return assignments, nil
}

func (r *assignmentRepo) TakeIncomplete(ctx context.Context, username string) ([]*model.TaskAssignment, error) {
	open, err := r.find(ctx, bson.M{"username": username, "completed": false})
	if err != nil {
		return nil, err
	}
	if len(open) == 0 {
		return nil, nil
	}

	ids := make([]string, len(open))
	for i, a := range open {
		ids[i] = a.ID
	}

	// Only delete the rows that are still open; one completed in between
	// stays with its owner and is not handed out again.
	if _, err := r.collection.DeleteMany(ctx, bson.M{
		"_id":       bson.M{"$in": ids},
		"completed": false,
	}); err != nil {
		return nil, fmt.Errorf("delete incomplete assignments: %w", err)
	}

	remaining, err := r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	if len(remaining) == 0 {
		return open, nil
	}
	kept := make(map[string]bool, len(remaining))
	for _, a := range remaining {
		kept[a.ID] = true
	}
	taken := open[:0]
	for _, a := range open {
		if !kept[a.ID] {
			taken = append(taken, a)
		}
	}
	return taken, nil
}

func (r *assignmentRepo) IncompleteCounts(ctx context.Context, usernames []string) (map[string]int, error) {
	counts := make(map[string]int, len(usernames))
	for _, u := range usernames {
		counts[u] = 0
	}
	if len(usernames) == 0 {
		return counts, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "username", Value: bson.D{{Key: "$in", Value: usernames}}},
			{Key: "completed", Value: false},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$username"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("count incomplete assignments: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Username string `bson:"_id"`
		Count    int    `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode assignment counts: %w", err)
	}
	for _, row := range rows {
		counts[row.Username] = row.Count
	}
	return counts, nil
}

func (r *assignmentRepo) CompleteOne(ctx context.Context, username, taskID string) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"username": username, "taskId": taskID, "completed": false},
		bson.M{"$set": bson.M{"completed": true}},
	)
	if err != nil {
		return false, fmt.Errorf("complete assignment: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

func (r *assignmentRepo) Exists(ctx context.Context, username, taskID string) (bool, error) {
	n, err := r.collection.CountDocuments(ctx,
		bson.M{"username": username, "taskId": taskID},
		options.Count().SetLimit(1),
	)
	if err != nil {
		return false, fmt.Errorf("find assignment: %w", err)
	}
	return n > 0, nil
}

func (r *assignmentRepo) CountAll(ctx context.Context) (int, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count assignments: %w", err)
	}
	return int(n), nil
}

func (r *assignmentRepo) CountCompleted(ctx context.Context) (int, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"completed": true})
	if err != nil {
		return 0, fmt.Errorf("count completed assignments: %w", err)
	}
	return int(n), nil
}
