package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"roomly/pkg/config"
	"roomly/pkg/model"
)

const ClosureCollectionName = "Config"

// ClosureRepository manages the common weekly closure singleton. An absent
// document is treated as a fully open week.
type ClosureRepository interface {
	Get(ctx context.Context) (*model.CommonClosure, error)
	Replace(ctx context.Context, mask model.WeeklyMask) error
	Reset(ctx context.Context) error
}

type mongoClosureRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoClosureRepository(cfg *config.Config) ClosureRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoClosureRepository{
		cfg:        cfg,
		collection: db.Collection(ClosureCollectionName),
	}
}

func (r *mongoClosureRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		return context.WithTimeout(ctx, time.Until(deadline))
	}
	return context.WithTimeout(ctx, timeout)
}

// Get returns the singleton, or an empty closure when none is configured.
func (r *mongoClosureRepository) Get(ctx context.Context) (*model.CommonClosure, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var closure model.CommonClosure
	err := r.collection.FindOne(ctx, bson.M{"_id": model.CommonClosureID}).Decode(&closure)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &model.CommonClosure{ID: model.CommonClosureID}, nil
		}
		return nil, fmt.Errorf("failed to load common closure: %w", err)
	}

	return &closure, nil
}

func (r *mongoClosureRepository) Replace(ctx context.Context, mask model.WeeklyMask) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	doc := model.CommonClosure{ID: model.CommonClosureID, WeeklyMask: mask}
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": model.CommonClosureID}, doc, opts)
	if err != nil {
		return fmt.Errorf("failed to replace common closure: %w", err)
	}

	return nil
}

func (r *mongoClosureRepository) Reset(ctx context.Context) error {
	return r.Replace(ctx, model.WeeklyMask{})
}
