// internal/app/policy/gigpolicy/gigpolicy.go
package gigpolicy

import (
	"context"
	"net/http"

	"github.com/dalemusser/skilllink/internal/app/system/authz"
	"github.com/dalemusser/skilllink/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OwnsGig reports whether the request user is the org that posted gig.
func OwnsGig(r *http.Request, gig models.Gig) bool {
	uid := authz.UserID(r)
	return uid != "" && uid == gig.OrgID
}

// IsGigOwner reports whether orgID posted the gig with gigID, according to
// the gigs collection. A malformed or unknown gig id yields (false, nil).
func IsGigOwner(ctx context.Context, db *mongo.Database, gigID, orgID string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(gigID)
	if err != nil || orgID == "" {
		return false, nil
	}
	n, err := db.Collection("gigs").CountDocuments(ctx,
		bson.M{"_id": oid, "org_id": orgID},
		options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CanManageApplications reports whether the request user may review the
// applications to gigID: only the org that owns the gig can.
// Returns an error if the database check fails, allowing callers to distinguish
// between "not authorized" (false, nil) and "database error" (false, err).
func CanManageApplications(ctx context.Context, db *mongo.Database, r *http.Request, gigID string) (bool, error) {
	userType, uid, ok := authz.UserCtx(r)
	if !ok || userType != models.UserTypeOrg {
		return false, nil
	}
	return IsGigOwner(ctx, db, gigID, uid.Hex())
}
