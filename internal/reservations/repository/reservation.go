package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	reservationserrors "roomly/internal/reservations/errors"
	"roomly/pkg/config"
	"roomly/pkg/model"
)

const CollectionName = "Reservations"

// ReservationRepository is the reservation store. InsertIfFree is the single
// synchronization point of the engine: the collection carries a unique
// multikey index on (room_id, date, hours), so two documents sharing any
// hour on the same room and day cannot both exist. The insert either fully
// commits a non-conflicting reservation or fails with ErrConflict.
type ReservationRepository interface {
	InsertIfFree(ctx context.Context, res *model.Reservation) error
	FindOccupiedMask(ctx context.Context, roomID string, date time.Time) (uint32, error)
	FindOccupiedMaskRange(ctx context.Context, roomID string, from, until time.Time) (map[time.Time]uint32, error)
	FindOccupiedMaskAllRooms(ctx context.Context, date time.Time) (map[string]uint32, error)
	ListActiveForUser(ctx context.Context, userID string, from time.Time) ([]string, error)
	GetByIDForUser(ctx context.Context, userID, id string) (*model.Reservation, error)
	DeleteByIDForUser(ctx context.Context, userID, id string) (*model.Reservation, error)
	DeleteAllForRoom(ctx context.Context, roomID string) (int64, error)
}

type mongoReservationRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoReservationRepository(cfg *config.Config) ReservationRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoReservationRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoReservationRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		return context.WithTimeout(ctx, time.Until(deadline))
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoReservationRepository) InsertIfFree(ctx context.Context, res *model.Reservation) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	res.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, res)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return reservationserrors.ErrConflict
		}
		return fmt.Errorf("failed to insert reservation: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		res.ID = oid.Hex()
	}
	return nil
}

func (r *mongoReservationRepository) FindOccupiedMask(ctx context.Context, roomID string, date time.Time) (uint32, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"room_id": roomID, "date": date}
	opts := options.Find().SetProjection(bson.M{"mask": 1})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return 0, fmt.Errorf("failed to query occupied hours: %w", err)
	}
	defer cursor.Close(ctx)

	var mask uint32
	for cursor.Next(ctx) {
		var res model.Reservation
		if err := cursor.Decode(&res); err != nil {
			return 0, fmt.Errorf("failed to decode reservation: %w", err)
		}
		mask |= res.Mask
	}
	if err := cursor.Err(); err != nil {
		return 0, fmt.Errorf("failed to iterate reservations: %w", err)
	}

	return mask, nil
}

func (r *mongoReservationRepository) FindOccupiedMaskRange(ctx context.Context, roomID string, from, until time.Time) (map[time.Time]uint32, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"room_id": roomID,
		"date":    bson.M{"$gte": from, "$lt": until},
	}
	opts := options.Find().SetProjection(bson.M{"date": 1, "mask": 1})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query occupied hours: %w", err)
	}
	defer cursor.Close(ctx)

	masks := make(map[time.Time]uint32)
	for cursor.Next(ctx) {
		var res model.Reservation
		if err := cursor.Decode(&res); err != nil {
			return nil, fmt.Errorf("failed to decode reservation: %w", err)
		}
		day := res.Date.UTC()
		masks[day] |= res.Mask
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reservations: %w", err)
	}

	return masks, nil
}

func (r *mongoReservationRepository) FindOccupiedMaskAllRooms(ctx context.Context, date time.Time) (map[string]uint32, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"room_id": 1, "mask": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"date": date}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query occupied hours: %w", err)
	}
	defer cursor.Close(ctx)

	masks := make(map[string]uint32)
	for cursor.Next(ctx) {
		var res model.Reservation
		if err := cursor.Decode(&res); err != nil {
			return nil, fmt.Errorf("failed to decode reservation: %w", err)
		}
		masks[res.RoomID] |= res.Mask
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reservations: %w", err)
	}

	return masks, nil
}

func (r *mongoReservationRepository) ListActiveForUser(ctx context.Context, userID string, from time.Time) ([]string, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"user_id": userID,
		"date":    bson.M{"$gte": from},
	}
	opts := options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetSort(bson.D{{Key: "date", Value: 1}, {Key: "created_at", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode reservation id: %w", err)
		}
		ids = append(ids, doc.ID.Hex())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reservations: %w", err)
	}

	return ids, nil
}

func (r *mongoReservationRepository) GetByIDForUser(ctx context.Context, userID, id string) (*model.Reservation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", reservationserrors.ErrInvalidID, id)
	}

	// Ownership is part of the lookup predicate: a reservation owned by
	// someone else is indistinguishable from a missing one.
	filter := bson.M{"_id": objectID, "user_id": userID}

	var res model.Reservation
	err = r.collection.FindOne(ctx, filter).Decode(&res)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reservationserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reservation: %w", err)
	}

	return &res, nil
}

func (r *mongoReservationRepository) DeleteByIDForUser(ctx context.Context, userID, id string) (*model.Reservation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", reservationserrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID, "user_id": userID}

	var res model.Reservation
	err = r.collection.FindOneAndDelete(ctx, filter).Decode(&res)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reservationserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to delete reservation: %w", err)
	}

	return &res, nil
}

func (r *mongoReservationRepository) DeleteAllForRoom(ctx context.Context, roomID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, bson.M{"room_id": roomID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete room reservations: %w", err)
	}

	return result.DeletedCount, nil
}
