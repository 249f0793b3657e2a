package userstore

import (
	"context"
	"strings"
	"time"

	"github.com/dalemusser/skilllink/internal/app/system/normalize"
	"github.com/dalemusser/skilllink/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureAdmin creates the operator account for email when no user holds it.
// An existing account is left alone, whatever its type.
// Returns (created=true) only when a new document was inserted.
func (s *Store) EnsureAdmin(ctx context.Context, email, passwordHash string) (id primitive.ObjectID, created bool, err error) {
	email = normalize.Email(email)
	if email == "" || passwordHash == "" {
		return primitive.NilObjectID, false, errMissing
	}

	now := time.Now().UTC()
	username := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		username = email[:at]
	}

	res, err := s.c.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$setOnInsert": bson.M{
			"username":      username,
			"email":         email,
			"password_hash": passwordHash,
			"user_type":     models.UserTypeAdmin,
			"created_at":    now,
			"updated_at":    now,
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return primitive.NilObjectID, false, err
	}
	if res.UpsertedID != nil {
		if oid, ok := res.UpsertedID.(primitive.ObjectID); ok {
			return oid, true, nil
		}
	}

	u, err := s.GetByEmail(ctx, email)
	if err != nil {
		return primitive.NilObjectID, false, err
	}
	return u.ID, false, nil
}
