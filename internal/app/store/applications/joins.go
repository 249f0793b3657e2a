package applicationstore

import (
	"context"

	"github.com/dalemusser/skilllink/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// PlayerSummary is the applicant attached to each row of ListForGig.
type PlayerSummary struct {
	ID       string `bson:"id" json:"id"`
	Name     string `bson:"name" json:"name"`
	Email    string `bson:"email" json:"email"`
	UserType string `bson:"user_type" json:"user_type"`
}

// WithPlayer is an application joined with its applicant. Player is nil when
// the applicant account no longer exists.
type WithPlayer struct {
	models.Application `bson:",inline"`
	Player             *PlayerSummary `bson:"player,omitempty" json:"player"`
}

// GigSummary is the gig attached to each row of ListForPlayer.
type GigSummary struct {
	ID          string `bson:"id" json:"id"`
	Title       string `bson:"title" json:"title"`
	Description string `bson:"description" json:"description"`
	OrgID       string `bson:"org_id" json:"org_id"`
}

// WithGig is an application joined with its gig. Gig is nil when the gig
// has been deleted.
type WithGig struct {
	models.Application `bson:",inline"`
	Gig                *GigSummary `bson:"gig,omitempty" json:"gig"`
}

// lookupByHex joins coll on _id using the hex string held in localField.
// Malformed ids join nothing rather than failing the pipeline.
func lookupByHex(coll, localField, as string, project bson.M) bson.D {
	return bson.D{{Key: "$lookup", Value: bson.M{
		"from": coll,
		"let": bson.M{"ref": bson.M{"$convert": bson.M{
			"input":   "$" + localField,
			"to":      "objectId",
			"onError": nil,
			"onNull":  nil,
		}}},
		"pipeline": bson.A{
			bson.M{"$match": bson.M{"$expr": bson.M{"$eq": bson.A{"$_id", "$$ref"}}}},
			bson.M{"$project": project},
		},
		"as": as,
	}}}
}

// unwindOptional flattens a single-element lookup array, keeping rows whose
// lookup found nothing.
func unwindOptional(field string) bson.D {
	return bson.D{{Key: "$unwind", Value: bson.M{
		"path":                       "$" + field,
		"preserveNullAndEmptyArrays": true,
	}}}
}

// ListForGig returns every application to gigID, oldest first, each joined
// with its applicant's public fields.
func (s *Store) ListForGig(ctx context.Context, gigID string) ([]WithPlayer, error) {
	pipe := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"gig_id": gigID}}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}}},
		lookupByHex("users", "player_id", "player", bson.M{
			"_id":       0,
			"id":        bson.M{"$toString": "$_id"},
			"name":      "$username",
			"email":     1,
			"user_type": 1,
		}),
		unwindOptional("player"),
	}

	cur, err := s.c.Aggregate(ctx, pipe)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []WithPlayer{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListForPlayer returns every application by playerID, newest first, each
// joined with its gig's summary fields.
func (s *Store) ListForPlayer(ctx context.Context, playerID string) ([]WithGig, error) {
	pipe := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"player_id": playerID}}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}}},
		lookupByHex("gigs", "gig_id", "gig", bson.M{
			"_id":         0,
			"id":          bson.M{"$toString": "$_id"},
			"title":       1,
			"description": 1,
			"org_id":      1,
		}),
		unwindOptional("gig"),
	}

	cur, err := s.c.Aggregate(ctx, pipe)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []WithGig{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
