// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User types. Players apply to gigs and receive endorsements; orgs post gigs
// and issue endorsements. Admins are operator accounts seeded at startup.
const (
	UserTypePlayer = "player"
	UserTypeOrg    = "org"
	UserTypeAdmin  = "admin"
)

// User is a registered account.
//
// NOTE:
//   - PasswordHash is never rendered; use PublicUser for responses.
//   - Email is stored trimmed and lower-cased; a unique index backs it.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	UserType     string             `bson:"user_type" json:"user_type"` // player | org | admin

	Bio      *string           `bson:"bio,omitempty" json:"bio,omitempty"`
	Location *string           `bson:"location,omitempty" json:"location,omitempty"`
	Socials  map[string]string `bson:"socials,omitempty" json:"socials,omitempty"` // e.g. {"twitch": "..."}
	Games    []string          `bson:"games,omitempty" json:"games,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// PublicUser is the projection returned by the directory endpoints.
type PublicUser struct {
	ID       string            `json:"id"`
	Username string            `json:"username"`
	Email    string            `json:"email"`
	UserType string            `json:"user_type"`
	Bio      *string           `json:"bio,omitempty"`
	Location *string           `json:"location,omitempty"`
	Socials  map[string]string `json:"socials,omitempty"`
	Games    []string          `json:"games,omitempty"`
}

// Public returns the API projection of u.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID.Hex(),
		Username: u.Username,
		Email:    u.Email,
		UserType: u.UserType,
		Bio:      u.Bio,
		Location: u.Location,
		Socials:  u.Socials,
		Games:    u.Games,
	}
}

// IsValidUserType reports whether t may be chosen at registration.
func IsValidUserType(t string) bool {
	return t == UserTypePlayer || t == UserTypeOrg
}
