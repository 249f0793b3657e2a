package endorsementstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/skilllink/internal/app/system/paging"
	"github.com/dalemusser/skilllink/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no endorsement matches.
	ErrNotFound = errors.New("endorsement not found")
	// ErrSelfEndorsement is returned when endorser and endorsee are the same user.
	ErrSelfEndorsement = errors.New("you can't endorse yourself")
	// ErrBadRating is returned for a rating outside [MinRating, MaxRating].
	ErrBadRating = fmt.Errorf("rating must be between %d and %d", models.MinRating, models.MaxRating)
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("endorsements")}
}

// Create inserts a new endorsement. Endorsements are never edited afterwards.
func (s *Store) Create(ctx context.Context, e models.Endorsement) (models.Endorsement, error) {
	if e.EndorsedID == e.EndorsedBy {
		return models.Endorsement{}, ErrSelfEndorsement
	}
	if e.Rating < models.MinRating || e.Rating > models.MaxRating {
		return models.Endorsement{}, ErrBadRating
	}
	e.ID = primitive.NewObjectID()
	e.CreatedAt = time.Now().UTC()

	if _, err := s.c.InsertOne(ctx, e); err != nil {
		return models.Endorsement{}, err
	}
	return e, nil
}

// GetByID returns an endorsement by its ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Endorsement, error) {
	var e models.Endorsement
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Endorsement{}, ErrNotFound
		}
		return models.Endorsement{}, err
	}
	return e, nil
}

// Delete removes an endorsement by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Filter narrows List. Bounds are inclusive; nil bounds are ignored.
type Filter struct {
	EndorsedID    string
	EndorsedBy    string
	MinRating     *int
	MaxRating     *int
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

// BSON builds the Mongo filter. Lower and upper bounds on the same field
// share one range document.
func (f Filter) BSON() bson.M {
	filter := bson.M{"endorsed_id": f.EndorsedID}
	if v := strings.TrimSpace(f.EndorsedBy); v != "" {
		filter["endorsed_by"] = v
	}

	rating := bson.M{}
	if f.MinRating != nil {
		rating["$gte"] = *f.MinRating
	}
	if f.MaxRating != nil {
		rating["$lte"] = *f.MaxRating
	}
	if len(rating) > 0 {
		filter["rating"] = rating
	}

	created := bson.M{}
	if f.CreatedAfter != nil {
		created["$gte"] = f.CreatedAfter.UTC()
	}
	if f.CreatedBefore != nil {
		created["$lte"] = f.CreatedBefore.UTC()
	}
	if len(created) > 0 {
		filter["created_at"] = created
	}
	return filter
}

// List returns one page of endorsements matching f and the total match count.
func (s *Store) List(ctx context.Context, f Filter, sort paging.Sort, p paging.Params) ([]models.Endorsement, int64, error) {
	filter := f.BSON()

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	cur, err := s.c.Find(ctx, filter, p.ApplyToFind(options.Find().SetSort(sort.Doc())))
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var out []models.Endorsement
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// RatingsFor returns every rating received by userID.
func (s *Store) RatingsFor(ctx context.Context, userID string) ([]int, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"endorsed_id": userID},
		options.Find().SetProjection(bson.M{"rating": 1, "_id": 0}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Rating int `bson:"rating"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	ratings := make([]int, len(rows))
	for i, r := range rows {
		ratings[i] = r.Rating
	}
	return ratings, nil
}
