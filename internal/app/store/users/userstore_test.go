package userstore_test

import (
	"errors"
	"testing"

	userstore "github.com/dalemusser/skilllink/internal/app/store/users"
	"github.com/dalemusser/skilllink/internal/app/system/indexes"
	"github.com/dalemusser/skilllink/internal/domain/models"
	"github.com/dalemusser/skilllink/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func strPtr(s string) *string { return &s }

func TestStore_Create_NormalizesEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		Username:     "  ace  ",
		Email:        "  Ace@Example.COM ",
		PasswordHash: "hash",
		UserType:     models.UserTypePlayer,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.Email != "ace@example.com" {
		t.Errorf("Email = %q, want ace@example.com", created.Email)
	}
	if created.Username != "ace" {
		t.Errorf("Username = %q, want ace", created.Username)
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}

	got, err := store.GetByEmail(ctx, "ACE@example.com")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("GetByEmail returned %s, want %s", got.ID.Hex(), created.ID.Hex())
	}
}

func TestStore_Create_RejectsBadUserType(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Create(ctx, models.User{
		Username: "x", Email: "x@example.com", PasswordHash: "h", UserType: "coach",
	})
	if err == nil {
		t.Fatal("expected error for unknown user type")
	}
}

func TestStore_Create_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	u := models.User{Username: "a", Email: "dup@example.com", PasswordHash: "h", UserType: models.UserTypeOrg}
	if _, err := store.Create(ctx, u); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	u.Email = "DUP@example.com"
	_, err := store.Create(ctx, u)
	if !errors.Is(err, userstore.ErrDuplicateEmail) {
		t.Fatalf("second Create error = %v, want ErrDuplicateEmail", err)
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetByID(ctx, primitive.NewObjectID())
	if !errors.Is(err, userstore.ErrNotFound) {
		t.Fatalf("GetByID error = %v, want ErrNotFound", err)
	}
}

func TestStore_GetByIDAndType(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrg(ctx, "Team Liquid", "org@example.com")
	player := fixtures.CreatePlayer(ctx, "ace", "ace@example.com")

	if _, err := store.GetByIDAndType(ctx, org.ID, models.UserTypeOrg); err != nil {
		t.Errorf("org lookup failed: %v", err)
	}
	if _, err := store.GetByIDAndType(ctx, player.ID, models.UserTypeOrg); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("player as org: error = %v, want ErrNotFound", err)
	}
}

func TestStore_EmailExists(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreatePlayer(ctx, "ace", "ace@example.com")

	exists, err := store.EmailExists(ctx, " ACE@example.com")
	if err != nil {
		t.Fatalf("EmailExists failed: %v", err)
	}
	if !exists {
		t.Error("expected email to exist")
	}
	exists, err = store.EmailExists(ctx, "nobody@example.com")
	if err != nil {
		t.Fatalf("EmailExists failed: %v", err)
	}
	if exists {
		t.Error("expected email not to exist")
	}
}

func TestStore_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreatePlayer(ctx, "ace", "ace@example.com")

	updated, err := store.Update(ctx, u.ID, userstore.ProfileUpdate{
		Bio:     strPtr("  support main "),
		Socials: map[string]string{"twitch": "ace_tv"},
		Games:   []string{" Valorant ", ""},
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Username != "ace" {
		t.Errorf("Username changed to %q", updated.Username)
	}
	if updated.Bio == nil || *updated.Bio != "support main" {
		t.Errorf("Bio = %v, want support main", updated.Bio)
	}
	if updated.Socials["twitch"] != "ace_tv" {
		t.Errorf("Socials = %v", updated.Socials)
	}
	if len(updated.Games) != 1 || updated.Games[0] != "Valorant" {
		t.Errorf("Games = %v, want [Valorant]", updated.Games)
	}
}

func TestStore_Update_Errors(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Update(ctx, primitive.NewObjectID(), userstore.ProfileUpdate{}); !errors.Is(err, userstore.ErrNoChanges) {
		t.Errorf("empty patch error = %v, want ErrNoChanges", err)
	}
	_, err := store.Update(ctx, primitive.NewObjectID(), userstore.ProfileUpdate{Location: strPtr("Berlin")})
	if !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("missing user error = %v, want ErrNotFound", err)
	}
}

func TestStore_EnsureAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	id, created, err := store.EnsureAdmin(ctx, "Root@Example.com", "hash")
	if err != nil {
		t.Fatalf("EnsureAdmin failed: %v", err)
	}
	if !created {
		t.Error("expected first call to create the admin")
	}

	again, created, err := store.EnsureAdmin(ctx, "root@example.com", "other")
	if err != nil {
		t.Fatalf("second EnsureAdmin failed: %v", err)
	}
	if created {
		t.Error("expected second call to leave the admin alone")
	}
	if again != id {
		t.Errorf("second call returned %s, want %s", again.Hex(), id.Hex())
	}

	u, err := store.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if u.UserType != models.UserTypeAdmin || u.Username != "root" || u.PasswordHash != "hash" {
		t.Errorf("unexpected admin: %+v", u)
	}
}
