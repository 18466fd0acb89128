package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"crewhunt/internal/model"
)

// ErrNotFound is returned by mutations that address a missing document.
// Lookups return nil, nil instead.
var ErrNotFound = errors.New("not found")

// PlayerRepo is the authoritative store of identities, roles and scores
type PlayerRepo interface {
	Create(ctx context.Context, player *model.Player) error
	GetByID(ctx context.Context, id string) (*model.Player, error)
	GetByUsername(ctx context.Context, username string) (*model.Player, error)
	List(ctx context.Context) ([]*model.Player, error)
	ListByRole(ctx context.Context, role model.Role) ([]*model.Player, error)
	CountByRole(ctx context.Context) (map[model.Role]int, error)

	SetRole(ctx context.Context, username string, role model.Role) error
	// CompareAndSetRole changes the role only if it is still `from`.
	// It reports whether this call performed the change.
	CompareAndSetRole(ctx context.Context, username string, from, to model.Role) (bool, error)
	ResetRoles(ctx context.Context, role model.Role, excluding string) error
	SetLastKillTime(ctx context.Context, username string, t time.Time) error
	// ClaimKillSlot sets lastKillTime to now only if the previous kill is at
	// least cooldown old. It reports whether this call took the slot.
	ClaimKillSlot(ctx context.Context, username string, now time.Time, cooldown time.Duration) (bool, error)

	// AdjustScore atomically adds delta and returns the new score
	AdjustScore(ctx context.Context, username string, delta int) (int, error)
	BulkAdjustScore(ctx context.Context, role model.Role, delta int) ([]model.ScoreEntry, error)
	ClearScores(ctx context.Context) error

	DeleteAllExcept(ctx context.Context, username string) (int64, error)
}

type playerRepo struct {
	collection *mongo.Collection
}

func NewPlayerRepo(db *mongo.Database) PlayerRepo {
	return &playerRepo{
		collection: db.Collection(PlayersCollection),
	}
}

func (r *playerRepo) Create(ctx context.Context, player *model.Player) error {
	if player.CreatedAt.IsZero() {
		player.CreatedAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, player)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert player: %w", err)
	}
	return nil
}

func (r *playerRepo) GetByID(ctx context.Context, id string) (*model.Player, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *playerRepo) GetByUsername(ctx context.Context, username string) (*model.Player, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *playerRepo) findOne(ctx context.Context, filter bson.M) (*model.Player, error) {
	var player model.Player
	err := r.collection.FindOne(ctx, filter).Decode(&player)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find player: %w", err)
	}
	return &player, nil
}

func (r *playerRepo) List(ctx context.Context) ([]*model.Player, error) {
	return r.find(ctx, bson.M{})
}

func (r *playerRepo) ListByRole(ctx context.Context, role model.Role) ([]*model.Player, error) {
	return r.find(ctx, bson.M{"role": role})
}

func (r *playerRepo) find(ctx context.Context, filter bson.M) ([]*model.Player, error) {
	opts := options.Find().SetSort(bson.D{{Key: "username", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find players: %w", err)
	}
	defer cursor.Close(ctx)

	var players []*model.Player
	if err := cursor.All(ctx, &players); err != nil {
		return nil, fmt.Errorf("decode players: %w", err)
	}
	return players, nil
}

func (r *playerRepo) CountByRole(ctx context.Context) (map[model.Role]int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$role"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("count roles: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Role  model.Role `bson:"_id"`
		Count int        `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode role counts: %w", err)
	}

	counts := map[model.Role]int{
		model.RoleCrewmate: 0,
		model.RoleImposter: 0,
		model.RoleDead:     0,
	}
	for _, row := range rows {
		counts[row.Role] = row.Count
	}
	return counts, nil
}

func (r *playerRepo) SetRole(ctx context.Context, username string, role model.Role) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"username": username},
		bson.M{"$set": bson.M{"role": role}},
	)
	if err != nil {
		return fmt.Errorf("set role: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *playerRepo) CompareAndSetRole(ctx context.Context, username string, from, to model.Role) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"username": username, "role": from},
		bson.M{"$set": bson.M{"role": to}},
	)
	if err != nil {
		return false, fmt.Errorf("compare and set role: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

func (r *playerRepo) ResetRoles(ctx context.Context, role model.Role, excluding string) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"username": bson.M{"$ne": excluding}},
		bson.M{"$set": bson.M{"role": role}},
	)
	if err != nil {
		return fmt.Errorf("reset roles: %w", err)
	}
	return nil
}

func (r *playerRepo) SetLastKillTime(ctx context.Context, username string, t time.Time) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"username": username},
		bson.M{"$set": bson.M{"lastKillTime": t}},
	)
	if err != nil {
		return fmt.Errorf("set last kill time: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *playerRepo) ClaimKillSlot(ctx context.Context, username string, now time.Time, cooldown time.Duration) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{
			"username": username,
			"$or": bson.A{
				bson.M{"lastKillTime": bson.M{"$exists": false}},
				bson.M{"lastKillTime": bson.M{"$lte": now.Add(-cooldown)}},
			},
		},
		bson.M{"$set": bson.M{"lastKillTime": now}},
	)
	if err != nil {
		return false, fmt.Errorf("claim kill slot: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

func (r *playerRepo) AdjustScore(ctx context.Context, username string, delta int) (int, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	// $inc treats a missing score as 0
	var player model.Player
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"username": username},
		bson.M{"$inc": bson.M{"score": delta}},
		opts,
	).Decode(&player)
	if err == mongo.ErrNoDocuments {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("adjust score: %w", err)
	}
	return player.Score, nil
}

func (r *playerRepo) BulkAdjustScore(ctx context.Context, role model.Role, delta int) ([]model.ScoreEntry, error) {
	if _, err := r.collection.UpdateMany(ctx,
		bson.M{"role": role},
		bson.M{"$inc": bson.M{"score": delta}},
	); err != nil {
		return nil, fmt.Errorf("bulk adjust score: %w", err)
	}

	// Roles may change between the update and this read; callers only use
	// the snapshot for reporting. An error here must not read as "not paid".
	players, err := r.ListByRole(ctx, role)
	if err != nil {
		log.Printf("Warning: scores of %s adjusted but not re-read: %v", role, err)
		return nil, nil
	}
	entries := make([]model.ScoreEntry, len(players))
	for i, p := range players {
		entries[i] = model.ScoreEntry{Username: p.Username, Score: p.Score}
	}
	return entries, nil
}

func (r *playerRepo) ClearScores(ctx context.Context) error {
	_, err := r.collection.UpdateMany(ctx, bson.M{}, bson.M{"$set": bson.M{"score": 0}})
	if err != nil {
		return fmt.Errorf("clear scores: %w", err)
	}
	return nil
}

func (r *playerRepo) DeleteAllExcept(ctx context.Context, username string) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"username": bson.M{"$ne": username}})
	if err != nil {
		return 0, fmt.Errorf("delete players: %w", err)
	}
	return res.DeletedCount, nil
}
