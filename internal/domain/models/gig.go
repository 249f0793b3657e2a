// internal/domain/models/gig.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Gig statuses.
const (
	GigStatusOpen   = "open"
	GigStatusClosed = "closed"
)

// Gig is an opportunity posted by an organization.
// Tags are always stored lower-cased. OrgID is the owning org's hex id.
type Gig struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title          string             `bson:"title" json:"title"`
	Description    string             `bson:"description" json:"description"`
	Location       string             `bson:"location" json:"location"`
	Game           *string            `bson:"game,omitempty" json:"game"`
	Budget         *string            `bson:"budget,omitempty" json:"budget"`
	SkillsRequired []string           `bson:"skills_required" json:"skills_required"`
	Tags           []string           `bson:"tags" json:"tags"`
	Deadline       *time.Time         `bson:"deadline,omitempty" json:"deadline"`
	Status         string             `bson:"status" json:"status"` // open | closed
	OrgID          string             `bson:"org_id" json:"org_id"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`

	// ApplicantCount is computed per request from the applications
	// collection and never persisted.
	ApplicantCount int64 `bson:"-" json:"applicant_count"`
}

// IsValidGigStatus reports whether s is a known gig status.
func IsValidGigStatus(s string) bool {
	return s == GigStatusOpen || s == GigStatusClosed
}
