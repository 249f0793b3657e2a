// internal/domain/models/records.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The records below are auxiliary attribute documents with no business rules
// beyond storage. Each carries an owner reference used for listing.

// Team is a player roster led by a captain.
type Team struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description *string            `bson:"description,omitempty" json:"description,omitempty"`
	CaptainID   string             `bson:"captain_id" json:"captain_id"`
	Members     []string           `bson:"members" json:"members"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

// Sponsor is a sponsorship entry owned by an org.
type Sponsor struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	OrgID     string             `bson:"org_id" json:"org_id"`
	Verified  bool               `bson:"verified" json:"verified"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// Profile holds extended player attributes.
type Profile struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID string             `bson:"user_id" json:"user_id"`
	Bio    *string            `bson:"bio,omitempty" json:"bio,omitempty"`
	Region *string            `bson:"region,omitempty" json:"region,omitempty"`
	Roles  []string           `bson:"roles" json:"roles"`
	Badges []string           `bson:"badges" json:"badges"`
}

// Game is a per-player game record (rank, win rate, preferred roles).
type Game struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"user_id" json:"user_id"`
	GameName  string             `bson:"game_name" json:"game_name"`
	Rank      *string            `bson:"rank,omitempty" json:"rank,omitempty"`
	Winrate   *float64           `bson:"winrate,omitempty" json:"winrate,omitempty"`
	TopRoles  []string           `bson:"top_roles" json:"top_roles"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// Highlight is a clip a player showcases.
type Highlight struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"user_id" json:"user_id"`
	Title     string             `bson:"title" json:"title"`
	ClipURL   string             `bson:"clip_url" json:"clip_url"`
	Tags      []string           `bson:"tags" json:"tags"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// RecordOwnerField maps each auxiliary collection to its owner reference
// field. The collection name doubles as the kind in /records/{kind}.
var RecordOwnerField = map[string]string{
	"teams":      "captain_id",
	"sponsors":   "org_id",
	"profiles":   "user_id",
	"games":      "user_id",
	"highlights": "user_id",
}

// RecordKinds returns the auxiliary collection names in a stable order.
func RecordKinds() []string {
	return []string{"teams", "sponsors", "profiles", "games", "highlights"}
}
