package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devika/wellnest/backend/internal/models"
)

// ContentStore handles one content type's documents in MongoDB. Three
// instances are created, one per collection.
type ContentStore struct {
	col *mongo.Collection
}

func NewContentStore(db *mongo.Database, collection string) *ContentStore {
	return &ContentStore{col: db.Collection(collection)}
}

// EnsureIndexes creates the unique index on name. Uniqueness is enforced
// here, not by a pre-check, so concurrent creates cannot both slip through.
func (s *ContentStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("ensure %s indexes: %w", s.col.Name(), err)
	}
	return nil
}

func (s *ContentStore) Insert(ctx context.Context, item *models.ContentItem) (*models.ContentItem, error) {
	item.CreatedAt = time.Now()
	res, err := s.col.InsertOne(ctx, item)
	if mongo.IsDuplicateKeyError(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("insert %s: %w", s.col.Name(), err)
	}
	item.ID = res.InsertedID.(primitive.ObjectID)
	return item, nil
}

// UpdateByID merges the given fields into the document and returns the
// updated record. Absent fields keep their stored values.
func (s *ContentStore) UpdateByID(ctx context.Context, id string, fields map[string]any) (*models.ContentItem, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	if len(fields) == 0 {
		return s.GetByID(ctx, id)
	}
	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var item models.ContentItem
	err = s.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", s.col.Name(), err)
	}
	return &item, nil
}

// List returns all items, newest created first.
func (s *ContentStore) List(ctx context.Context) ([]models.ContentItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var items []models.ContentItem
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *ContentStore) GetByID(ctx context.Context, id string) (*models.ContentItem, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var item models.ContentItem
	err = s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteByID removes the document and returns it, so the caller can clean up
// the backing image file.
func (s *ContentStore) DeleteByID(ctx context.Context, id string) (*models.ContentItem, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var item models.ContentItem
	err = s.col.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("delete %s: %w", s.col.Name(), err)
	}
	return &item, nil
}

// Names returns the name-only projection used by GET /filter.
func (s *ContentStore) Names(ctx context.Context) ([]models.ContentName, error) {
	opts := options.Find().SetProjection(bson.M{"name": 1})
	cur, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var names []models.ContentName
	if err := cur.All(ctx, &names); err != nil {
		return nil, err
	}
	return names, nil
}
