package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContentItem is a single care/food entry stored in MongoDB. All three
// content types (body care, face & hair care, healthy food) share this shape;
// they differ only in collection and image directory.
type ContentItem struct {
	ID          primitive.ObjectID `json:"id"          bson:"_id,omitempty"`
	Name        string             `json:"name"        bson:"name"`
	Description string             `json:"description" bson:"description"` // HTML
	Making      string             `json:"making"      bson:"making"`      // HTML
	Chart       string             `json:"chart"       bson:"chart"`       // HTML
	Image       string             `json:"image"       bson:"image"`       // public path
	Context     int                `json:"context"     bson:"context"`
	CreatedAt   time.Time          `json:"created_at"  bson:"created_at"`
}

// ContentName is the name-only projection returned by GET /filter.
type ContentName struct {
	ID   primitive.ObjectID `json:"id"   bson:"_id,omitempty"`
	Name string             `json:"name" bson:"name"`
}
