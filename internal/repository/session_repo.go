package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"crewhunt/internal/model"
)

// SessionRepo owns the singleton GameSession. Every flag transition is a
// compare-and-set on the stored document; the bool result says whether this
// caller won the transition.
type SessionRepo interface {
	Get(ctx context.Context) (*model.GameSession, error)
	SetMeetingActive(ctx context.Context, from, to bool) (bool, error)
	ClaimWinnerAward(ctx context.Context) (bool, error)
	// ReleaseWinnerAward re-arms the award after a failed payout
	ReleaseWinnerAward(ctx context.Context) error
	StartRound(ctx context.Context, tasksPerPlayer, target int, at time.Time) (*model.GameSession, error)
}

type sessionRepo struct {
	collection *mongo.Collection
}

func NewSessionRepo(db *mongo.Database) SessionRepo {
	return &sessionRepo{
		collection: db.Collection(SessionsCollection),
	}
}

// ensure creates the singleton if it does not exist yet
func (r *sessionRepo) ensure(ctx context.Context) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": model.CurrentSessionID},
		bson.M{"$setOnInsert": bson.M{
			"version":                0,
			"round":                  0,
			"emergencyMeetingActive": false,
			"winnerAwarded":          false,
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("ensure session: %w", err)
	}
	return nil
}

func (r *sessionRepo) Get(ctx context.Context) (*model.GameSession, error) {
	var session model.GameSession
	err := r.collection.FindOne(ctx, bson.M{"_id": model.CurrentSessionID}).Decode(&session)
	if err == mongo.ErrNoDocuments {
		return model.NewGameSession(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	return &session, nil
}

func (r *sessionRepo) SetMeetingActive(ctx context.Context, from, to bool) (bool, error) {
	return r.compareAndSet(ctx, "emergencyMeetingActive", from, to)
}

func (r *sessionRepo) ClaimWinnerAward(ctx context.Context) (bool, error) {
	return r.compareAndSet(ctx, "winnerAwarded", false, true)
}

func (r *sessionRepo) ReleaseWinnerAward(ctx context.Context) error {
	_, err := r.compareAndSet(ctx, "winnerAwarded", true, false)
	return err
}

func (r *sessionRepo) compareAndSet(ctx context.Context, field string, from, to bool) (bool, error) {
	if err := r.ensure(ctx); err != nil {
		return false, err
	}

	// A missing field reads as false
	filter := bson.M{"_id": model.CurrentSessionID, field: from}
	if !from {
		filter[field] = bson.M{"$ne": true}
	}

	res, err := r.collection.UpdateOne(ctx, filter, bson.M{
		"$set": bson.M{field: to},
		"$inc": bson.M{"version": 1},
	})
	if err != nil {
		return false, fmt.Errorf("update session %s: %w", field, err)
	}
	return res.ModifiedCount == 1, nil
}

func (r *sessionRepo) StartRound(ctx context.Context, tasksPerPlayer, target int, at time.Time) (*model.GameSession, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var session model.GameSession
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": model.CurrentSessionID},
		bson.M{
			"$set": bson.M{
				"tasksPerPlayer":       tasksPerPlayer,
				"taskCompletionTarget": target,
				"winnerAwarded":        false,
				"roundStartedAt":       at,
			},
			"$inc": bson.M{"version": 1, "round": 1},
		},
		opts,
	).Decode(&session)
	if err != nil {
		return nil, fmt.Errorf("start round: %w", err)
	}
	return &session, nil
}
