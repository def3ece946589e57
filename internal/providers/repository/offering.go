package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	providerserrors "vinbook/internal/providers/errors"
	"vinbook/pkg/config"
	"vinbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Provider_offerings"
)

type mongoOfferingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type OfferingRepository interface {
	FindByCompany(ctx context.Context, company string) (*model.ProviderOffering, error)
	Upsert(ctx context.Context, offering *model.ProviderOffering) error
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.ProviderOffering, error)
}

func NewMongoOfferingRepository(cfg *config.Config) OfferingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoOfferingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoOfferingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoOfferingRepository) FindByCompany(ctx context.Context, company string) (*model.ProviderOffering, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var offering model.ProviderOffering
	err := r.collection.FindOne(ctx, bson.M{"company": company}).Decode(&offering)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, providerserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find provider offering: %w", err)
	}

	return &offering, nil
}

// Upsert replaces a provider's offering record keyed by company name.
func (r *mongoOfferingRepository) Upsert(ctx context.Context, offering *model.ProviderOffering) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"company":            offering.Company,
			"services":           offering.Services,
			"filtration_options": offering.FiltrationOptions,
		},
		"$setOnInsert": bson.M{
			"created_at": time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateOne(ctx, bson.M{"company": offering.Company}, update, opts); err != nil {
		return fmt.Errorf("failed to upsert provider offering: %w", err)
	}

	return nil
}

func (r *mongoOfferingRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.ProviderOffering, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "company", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find provider offerings: %w", err)
	}
	defer cursor.Close(ctx)

	var offerings []*model.ProviderOffering
	if err = cursor.All(ctx, &offerings); err != nil {
		return nil, fmt.Errorf("failed to decode provider offerings: %w", err)
	}

	return offerings, nil
}
