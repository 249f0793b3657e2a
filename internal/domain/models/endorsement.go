// internal/domain/models/endorsement.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Rating bounds for endorsements (inclusive).
const (
	MinRating = 1
	MaxRating = 5
)

// Endorsement is a rating given by an org (EndorsedBy) to a player (EndorsedID).
// Endorsements are immutable once written; only the creator may delete one.
type Endorsement struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EndorsedID string             `bson:"endorsed_id" json:"endorsed_id"`
	EndorsedBy string             `bson:"endorsed_by" json:"endorsed_by"`
	Rating     int                `bson:"rating" json:"rating"`
	Comment    *string            `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
