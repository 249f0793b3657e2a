// internal/domain/models/badge.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Badge is the one-time reputation marker ("soulbound NFT") issued to a user
// whose endorsements meet the minting thresholds. At most one exists per user.
type Badge struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	TokenID          string             `bson:"token_id" json:"token_id"`
	UserID           string             `bson:"user_id" json:"user_id"`
	Name             string             `bson:"name" json:"name"`
	ReputationTier   string             `bson:"reputation_tier" json:"reputation"`
	AverageRating    float64            `bson:"average_rating" json:"average_rating"`
	EndorsementCount int                `bson:"endorsement_count" json:"endorsement_count"`
	MintedAt         time.Time          `bson:"minted_at" json:"minted_at"`
}
