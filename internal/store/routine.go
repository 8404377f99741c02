package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devika/wellnest/backend/internal/models"
)

// RoutineStore handles routine records in MongoDB, one per (email, date).
type RoutineStore struct {
	col *mongo.Collection
}

func NewRoutineStore(db *mongo.Database) *RoutineStore {
	return &RoutineStore{col: db.Collection("routines")}
}

// EnsureIndexes creates the compound unique index on (email, date). The
// one-submission-per-day invariant lives here rather than in a pre-check.
func (s *RoutineStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}, {Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("ensure routine indexes: %w", err)
	}
	return nil
}

// Insert stores a routine record. ErrDuplicate means the identity already
// submitted for that day.
func (s *RoutineStore) Insert(ctx context.Context, rec *models.RoutineRecord) (*models.RoutineRecord, error) {
	res, err := s.col.InsertOne(ctx, rec)
	if mongo.IsDuplicateKeyError(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("insert routine: %w", err)
	}
	rec.ID = res.InsertedID.(primitive.ObjectID)
	return rec, nil
}

// Get returns the record for (email, date), or ErrNotFound.
func (s *RoutineStore) Get(ctx context.Context, email, date string) (*models.RoutineRecord, error) {
	var rec models.RoutineRecord
	err := s.col.FindOne(ctx, bson.M{"email": email, "date": date}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Find returns all records for (email, date). Kept separate from Get for the
// query endpoint, which reports an empty list rather than 404.
func (s *RoutineStore) Find(ctx context.Context, email, date string) ([]models.RoutineRecord, error) {
	return s.find(ctx, bson.M{"email": email, "date": date})
}

// List returns every record, newest day first.
func (s *RoutineStore) List(ctx context.Context) ([]models.RoutineRecord, error) {
	return s.find(ctx, bson.M{})
}

func (s *RoutineStore) find(ctx context.Context, filter bson.M) ([]models.RoutineRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cur, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var recs []models.RoutineRecord
	if err := cur.All(ctx, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// Summary returns the (date, email) pairs for which a record exists.
func (s *RoutineStore) Summary(ctx context.Context) ([]models.RoutineDay, error) {
	opts := options.Find().SetProjection(bson.M{"date": 1, "email": 1, "_id": 0})
	cur, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var days []models.RoutineDay
	if err := cur.All(ctx, &days); err != nil {
		return nil, err
	}
	return days, nil
}
