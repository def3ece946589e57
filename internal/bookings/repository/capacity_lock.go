package repository

import (
	"context"
	"time"

	"vinbook/pkg/config"
	"vinbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CapacityLockRepository provides operations for advisory locks taken while
// confirming a booking against a provider's per-day machine capacity.
type CapacityLockRepository interface {
	Create(ctx context.Context, lock *model.CapacityLock) (*model.CapacityLock, error)
	Delete(ctx context.Context, lockID string) error
	DeleteExpired(ctx context.Context, lockID string, now time.Time) (bool, error)
}

type mongoCapacityLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewCapacityLockRepository(cfg *config.Config) CapacityLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	r := &mongoCapacityLockRepository{
		cfg:        cfg,
		collection: db.Collection("Capacity_locks"),
	}
	r.ensureTTLIndex()
	return r
}

// ensureTTLIndex makes Mongo reap locks once expires_at passes, so a crash
// between acquire and release cannot wedge a provider/service/day forever.
// Reaping lags up to a minute; acquisition also reclaims expired locks itself.
func (r *mongoCapacityLockRepository) ensureTTLIndex() {
	ctx, cancel := context.WithTimeout(context.Background(), r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		r.cfg.Log.Warn("Failed to create TTL index on capacity locks", "error", err)
	}
}

// Returns duplicate key error if lock already exists
func (r *mongoCapacityLockRepository) Create(ctx context.Context, lock *model.CapacityLock) (*model.CapacityLock, error) {
	lock.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, lock)
	if err != nil {
		return nil, err
	}

	return lock, nil
}

// Delete removes an advisory lock
func (r *mongoCapacityLockRepository) Delete(ctx context.Context, lockID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID})
	return err
}

// DeleteExpired removes the lock only if its expiry has passed. Reports
// whether a stale lock was actually reclaimed, so callers can retry the
// acquisition exactly when they freed the slot themselves.
func (r *mongoCapacityLockRepository) DeleteExpired(ctx context.Context, lockID string, now time.Time) (bool, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{
		"_id":        lockID,
		"expires_at": bson.M{"$lt": now},
	})
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}
