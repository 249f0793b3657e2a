// internal/app/policy/endorsementpolicy/endorsementpolicy.go
package endorsementpolicy

import (
	"net/http"

	"github.com/dalemusser/skilllink/internal/app/system/authz"
	"github.com/dalemusser/skilllink/internal/domain/models"
)

// CanEndorse reports whether the request user may issue endorsements.
// Only orgs can.
func CanEndorse(r *http.Request) bool {
	return authz.IsOrg(r)
}

// IsSelfEndorsement reports whether the request user is endorsing themselves.
func IsSelfEndorsement(r *http.Request, endorsedID string) bool {
	return authz.IsSelf(r, endorsedID)
}

// CanDelete reports whether the request user created e.
func CanDelete(r *http.Request, e models.Endorsement) bool {
	uid := authz.UserID(r)
	return uid != "" && uid == e.EndorsedBy
}
