package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/skilllink/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// FixturePassword is the plain-text password of every fixture user.
const FixturePassword = "secret123"

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that call a handler method directly.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, _ := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a user whose password is FixturePassword.
// MinCost keeps the fixture fast; production hashing uses the default cost.
func (f *Fixtures) CreateUser(ctx context.Context, username, email, userType string) models.User {
	f.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(FixturePassword), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("failed to hash fixture password: %v", err)
	}

	now := time.Now().UTC()
	user := models.User{
		ID:           primitive.NewObjectID(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		UserType:     userType,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreatePlayer creates a test player.
func (f *Fixtures) CreatePlayer(ctx context.Context, username, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, username, email, models.UserTypePlayer)
}

// CreateOrg creates a test organization account.
func (f *Fixtures) CreateOrg(ctx context.Context, username, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, username, email, models.UserTypeOrg)
}

// CreateAdmin creates a test admin.
func (f *Fixtures) CreateAdmin(ctx context.Context, username, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, username, email, models.UserTypeAdmin)
}

// CreateGig inserts an open gig owned by orgID.
func (f *Fixtures) CreateGig(ctx context.Context, orgID primitive.ObjectID, title string) models.Gig {
	f.t.Helper()
	return f.CreateGigWith(ctx, models.Gig{OrgID: orgID.Hex(), Title: title})
}

// CreateGigWith inserts g after filling the required fields it leaves empty.
func (f *Fixtures) CreateGigWith(ctx context.Context, g models.Gig) models.Gig {
	f.t.Helper()

	if g.ID.IsZero() {
		g.ID = primitive.NewObjectID()
	}
	if g.Description == "" {
		g.Description = "Test gig description"
	}
	if g.Location == "" {
		g.Location = "Remote"
	}
	if g.Status == "" {
		g.Status = models.GigStatusOpen
	}
	if g.Tags == nil {
		g.Tags = []string{}
	}
	if g.SkillsRequired == nil {
		g.SkillsRequired = []string{}
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}

	if _, err := f.db.Collection("gigs").InsertOne(ctx, g); err != nil {
		f.t.Fatalf("failed to create test gig: %v", err)
	}
	return g
}

// CreateApplication inserts an application with the given status.
func (f *Fixtures) CreateApplication(ctx context.Context, gigID, playerID primitive.ObjectID, status string) models.Application {
	f.t.Helper()

	app := models.Application{
		ID:        primitive.NewObjectID(),
		GigID:     gigID.Hex(),
		PlayerID:  playerID.Hex(),
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("applications").InsertOne(ctx, app); err != nil {
		f.t.Fatalf("failed to create test application: %v", err)
	}
	return app
}

// CreateEndorsement inserts an endorsement of endorsedID by endorsedBy.
func (f *Fixtures) CreateEndorsement(ctx context.Context, endorsedID, endorsedBy primitive.ObjectID, rating int) models.Endorsement {
	f.t.Helper()
	return f.CreateEndorsementAt(ctx, endorsedID, endorsedBy, rating, time.Now().UTC())
}

// CreateEndorsementAt is CreateEndorsement with an explicit created_at.
func (f *Fixtures) CreateEndorsementAt(ctx context.Context, endorsedID, endorsedBy primitive.ObjectID, rating int, at time.Time) models.Endorsement {
	f.t.Helper()

	e := models.Endorsement{
		ID:         primitive.NewObjectID(),
		EndorsedID: endorsedID.Hex(),
		EndorsedBy: endorsedBy.Hex(),
		Rating:     rating,
		CreatedAt:  at,
	}
	if _, err := f.db.Collection("endorsements").InsertOne(ctx, e); err != nil {
		f.t.Fatalf("failed to create test endorsement: %v", err)
	}
	return e
}
