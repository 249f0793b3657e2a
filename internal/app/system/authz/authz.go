// Package authz answers identity questions about the caller of a request.
// It sits on top of auth, which only knows about tokens.
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/skilllink/internal/app/system/auth"
	"github.com/dalemusser/skilllink/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Anonymous is the user type reported for requests without a usable token.
const Anonymous = "visitor"

// UserCtx resolves the caller to a lowercased user type and ObjectID.
// A token whose subject is not an ObjectID counts as anonymous.
func UserCtx(r *http.Request) (userType string, userID primitive.ObjectID, ok bool) {
	user, found := auth.CurrentUser(r)
	if !found {
		return Anonymous, primitive.NilObjectID, false
	}
	oid, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return Anonymous, primitive.NilObjectID, false
	}
	return strings.ToLower(user.UserType), oid, true
}

// UserID is the caller's hex id, "" for anonymous requests.
func UserID(r *http.Request) string {
	if _, oid, ok := UserCtx(r); ok {
		return oid.Hex()
	}
	return ""
}

// Is reports whether the caller is signed in as userType.
func Is(r *http.Request, userType string) bool {
	t, _, ok := UserCtx(r)
	return ok && t == userType
}

// IsOrg reports whether the caller is an organization account.
func IsOrg(r *http.Request) bool { return Is(r, models.UserTypeOrg) }

// IsSelf reports whether the caller is the user with the given hex id.
func IsSelf(r *http.Request, id string) bool {
	uid := UserID(r)
	return uid != "" && uid == strings.TrimSpace(id)
}
