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

// TaskRepo is the shared pool of question templates. Tasks are immutable.
type TaskRepo interface {
	Create(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, id string) (*model.Task, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*model.Task, error)
	List(ctx context.Context) ([]*model.Task, error)
	Count(ctx context.Context) (int, error)
}

type taskRepo struct {
	collection *mongo.Collection
}

func NewTaskRepo(db *mongo.Database) TaskRepo {
	return &taskRepo{
		collection: db.Collection(TasksCollection),
	}
}

func (r *taskRepo) Create(ctx context.Context, task *model.Task) error {
	// Generate ObjectID if not provided
	if task.ID == "" {
		task.ID = primitive.NewObjectID().Hex()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}

	if _, err := r.collection.InsertOne(ctx, task); err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *taskRepo) GetByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&task)
	if err == mongo.ErrNoDocuments {
		return nil, nil // Task not found
	}
	if err != nil {
		return nil, fmt.Errorf("find task: %w", err)
	}
	return &task, nil
}

func (r *taskRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*model.Task, error) {
	tasks := make(map[string]*model.Task, len(ids))
	if len(ids) == 0 {
		return tasks, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var list []*model.Task
	if err := cursor.All(ctx, &list); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	for _, t := range list {
		tasks[t.ID] = t
	}
	return tasks, nil
}

func (r *taskRepo) List(ctx context.Context) ([]*model.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var tasks []*model.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	return tasks, nil
}

func (r *taskRepo) Count(ctx context.Context) (int, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return int(n), nil
}
