// Package recordstore stores the auxiliary owner-referenced records
// (teams, sponsors, profiles, games, highlights). Records carry no business
// rules; they are inserted and listed by owner.
package recordstore

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/skilllink/internal/app/system/paging"
	"github.com/dalemusser/skilllink/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrUnknownKind is returned by New for a collection outside models.RecordKinds.
var ErrUnknownKind = errors.New("unknown record kind")

// Store reads and writes records of type T in one collection.
type Store[T any] struct {
	c     *mongo.Collection
	owner string
}

// New returns the store for kind. T must be the model stored in that
// collection.
func New[T any](db *mongo.Database, kind string) (*Store[T], error) {
	owner, ok := models.RecordOwnerField[kind]
	if !ok {
		return nil, ErrUnknownKind
	}
	return &Store[T]{c: db.Collection(kind), owner: owner}, nil
}

// OwnerField names the field List filters on.
func (s *Store[T]) OwnerField() string { return s.owner }

// Insert stores doc as given; callers assign the ID and timestamps.
func (s *Store[T]) Insert(ctx context.Context, doc T) error {
	_, err := s.c.InsertOne(ctx, doc)
	return err
}

// List returns one page of records, oldest first, optionally restricted to
// ownerID, plus the total match count.
func (s *Store[T]) List(ctx context.Context, ownerID string, p paging.Params) ([]T, int64, error) {
	filter := bson.M{}
	if v := strings.TrimSpace(ownerID); v != "" {
		filter[s.owner] = v
	}

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := p.ApplyToFind(options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var out []T
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
