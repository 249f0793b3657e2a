// internal/domain/models/application.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Application statuses.
const (
	ApplicationPending  = "pending"
	ApplicationAccepted = "accepted"
	ApplicationRejected = "rejected"
)

// Application links a player to a gig. A player holds at most one
// non-rejected application per gig.
type Application struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GigID      string             `bson:"gig_id" json:"gig_id"`
	PlayerID   string             `bson:"player_id" json:"player_id"`
	ResumeLink *string            `bson:"resume_link,omitempty" json:"resume_link,omitempty"`
	Message    *string            `bson:"message,omitempty" json:"message,omitempty"`
	Status     string             `bson:"status" json:"status"` // pending | accepted | rejected
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}

// IsValidApplicationStatus reports whether s is a known application status.
func IsValidApplicationStatus(s string) bool {
	switch s {
	case ApplicationPending, ApplicationAccepted, ApplicationRejected:
		return true
	}
	return false
}
