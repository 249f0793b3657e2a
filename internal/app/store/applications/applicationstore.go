package applicationstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/skilllink/internal/app/system/normalize"
	"github.com/dalemusser/skilllink/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no application matches.
	ErrNotFound = errors.New("application not found")
	// ErrBadStatus is returned for a status outside pending|accepted|rejected.
	ErrBadStatus = errors.New("invalid status value")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("applications")}
}

// ActiveExists reports whether the player already holds a non-rejected
// application to the gig.
func (s *Store) ActiveExists(ctx context.Context, gigID, playerID string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{
		"gig_id":    gigID,
		"player_id": playerID,
		"status":    bson.M{"$ne": models.ApplicationRejected},
	}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Create inserts a new application. Status defaults to pending.
func (s *Store) Create(ctx context.Context, a models.Application) (models.Application, error) {
	a.ID = primitive.NewObjectID()
	a.Status = normalize.Status(a.Status)
	if a.Status == "" {
		a.Status = models.ApplicationPending
	}
	if !models.IsValidApplicationStatus(a.Status) {
		return models.Application{}, ErrBadStatus
	}
	a.CreatedAt = time.Now().UTC()

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.Application{}, err
	}
	return a, nil
}

// GetByID returns an application by its ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Application, error) {
	var a models.Application
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Application{}, ErrNotFound
		}
		return models.Application{}, err
	}
	return a, nil
}

// UpdateStatus sets the status of the application with id.
func (s *Store) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	status = normalize.Status(status)
	if !models.IsValidApplicationStatus(status) {
		return ErrBadStatus
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an application by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
