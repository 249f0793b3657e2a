package badgestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/skilllink/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when the user holds no badge.
var ErrNotFound = errors.New("NFT not minted for this user")

// DefaultName is the display name stamped on every badge.
const DefaultName = "SkillLink Reputation Badge"

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("soulbound_nfts")}
}

// GetByUser returns the badge held by userID.
func (s *Store) GetByUser(ctx context.Context, userID string) (models.Badge, error) {
	var b models.Badge
	if err := s.c.FindOne(ctx, bson.M{"user_id": userID}).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Badge{}, ErrNotFound
		}
		return models.Badge{}, err
	}
	return b, nil
}

// Mint stores a new badge for b.UserID with a fresh token id.
// The unique index on user_id decides concurrent mints: a loser gets the
// stored badge back with created=false.
func (s *Store) Mint(ctx context.Context, b models.Badge) (badge models.Badge, created bool, err error) {
	b.ID = primitive.NewObjectID()
	b.TokenID = uuid.NewString()
	if b.Name == "" {
		b.Name = DefaultName
	}
	b.MintedAt = time.Now().UTC()

	if _, err := s.c.InsertOne(ctx, b); err != nil {
		if wafflemongo.IsDup(err) {
			existing, getErr := s.GetByUser(ctx, b.UserID)
			if getErr != nil {
				return models.Badge{}, false, getErr
			}
			return existing, false, nil
		}
		return models.Badge{}, false, err
	}
	return b, true, nil
}
