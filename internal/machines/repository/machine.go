package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	machineserrors "vinbook/internal/machines/errors"
	"vinbook/pkg/config"
	"vinbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Machines"
)

type mongoMachineRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type MachineRepository interface {
	Create(ctx context.Context, machine *model.Machine) error
	FindByID(ctx context.Context, id string) (*model.Machine, error)
	FindByProvider(ctx context.Context, provider string, limit int, offset int64) ([]*model.Machine, error)
	CountByProvider(ctx context.Context, provider string) (int64, error)
	CountByProviderAndType(ctx context.Context, provider string, machineType model.MachineType) (int64, error)
	Update(ctx context.Context, id string, machine *model.Machine) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, id string) error
}

func NewMongoMachineRepository(cfg *config.Config) MachineRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoMachineRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoMachineRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoMachineRepository) Create(ctx context.Context, machine *model.Machine) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	machine.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, machine)
	if err != nil {
		return fmt.Errorf("failed to create machine: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		machine.ID = oid.Hex()
	}
	return nil
}

func (r *mongoMachineRepository) FindByID(ctx context.Context, id string) (*model.Machine, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", machineserrors.ErrInvalidID, id)
	}

	var machine model.Machine
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&machine)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, machineserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find machine: %w", err)
	}

	return &machine, nil
}

func (r *mongoMachineRepository) FindByProvider(ctx context.Context, provider string, limit int, offset int64) ([]*model.Machine, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cursor, err := r.collection.Find(ctx, bson.M{"service_provider_company": provider}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find machines: %w", err)
	}
	defer cursor.Close(ctx)

	var machines []*model.Machine
	if err = cursor.All(ctx, &machines); err != nil {
		return nil, fmt.Errorf("failed to decode machines: %w", err)
	}

	return machines, nil
}

func (r *mongoMachineRepository) CountByProvider(ctx context.Context, provider string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"service_provider_company": provider})
	if err != nil {
		return 0, fmt.Errorf("failed to count machines: %w", err)
	}
	return count, nil
}

// CountByProviderAndType counts every machine of a type regardless of status.
// Capacity is derived from ownership, not operational state.
func (r *mongoMachineRepository) CountByProviderAndType(ctx context.Context, provider string, machineType model.MachineType) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"service_provider_company": provider,
		"type":                     machineType,
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count machines by type: %w", err)
	}
	return count, nil
}

func (r *mongoMachineRepository) Update(ctx context.Context, id string, machine *model.Machine) (*mongo.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", machineserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"name":   machine.Name,
			"type":   machine.Type,
			"status": machine.Status,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update machine: %w", err)
	}

	if result.MatchedCount == 0 {
		return nil, machineserrors.ErrNotFound
	}

	return result, nil
}

func (r *mongoMachineRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", machineserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete machine: %w", err)
	}

	if result.DeletedCount == 0 {
		return machineserrors.ErrNotFound
	}

	return nil
}
