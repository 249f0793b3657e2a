package validators_test

import (
	"testing"
	"time"

	"github.com/dalemusser/skilllink/internal/app/system/validators"
	"github.com/dalemusser/skilllink/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}
	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesCollections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		t.Fatalf("ListCollectionNames failed: %v", err)
	}
	collMap := make(map[string]bool)
	for _, name := range names {
		collMap[name] = true
	}

	for _, expected := range []string{
		"users", "gigs", "applications", "endorsements", "soulbound_nfts",
		"audit_events", "teams", "sponsors", "profiles", "games", "highlights",
	} {
		if !collMap[expected] {
			t.Errorf("expected collection %q to exist", expected)
		}
	}
}

func TestValidators(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	now := time.Now().UTC()
	tests := []struct {
		name    string
		coll    string
		doc     bson.M
		wantErr bool
	}{
		{"user missing fields", "users", bson.M{"username": "x"}, true},
		{"user bad type", "users", bson.M{"username": "x", "email": "x@y.z", "password_hash": "h", "user_type": "wizard"}, true},
		{"user valid", "users", bson.M{"username": "x", "email": "x@y.z", "password_hash": "h", "user_type": "player"}, false},
		{"gig bad status", "gigs", bson.M{"title": "t", "description": "d", "location": "l", "status": "paused", "org_id": "o"}, true},
		{"gig blank title", "gigs", bson.M{"title": "   ", "description": "d", "location": "l", "status": "open", "org_id": "o"}, true},
		{"gig valid", "gigs", bson.M{"title": "t", "description": "d", "location": "l", "status": "open", "org_id": "o", "tags": bson.A{"fps"}}, false},
		{"application bad status", "applications", bson.M{"gig_id": "g", "player_id": "p", "status": "maybe"}, true},
		{"application valid", "applications", bson.M{"gig_id": "g", "player_id": "p", "status": "pending"}, false},
		{"endorsement rating too high", "endorsements", bson.M{"endorsed_id": "a", "endorsed_by": "b", "rating": 6}, true},
		{"endorsement rating too low", "endorsements", bson.M{"endorsed_id": "a", "endorsed_by": "b", "rating": 0}, true},
		{"endorsement valid", "endorsements", bson.M{"endorsed_id": "a", "endorsed_by": "b", "rating": 5}, false},
		{"badge missing tier", "soulbound_nfts", bson.M{"token_id": "t", "user_id": "u", "minted_at": now}, true},
		{"badge valid", "soulbound_nfts", bson.M{"token_id": "t", "user_id": "u", "reputation_tier": "gold", "minted_at": now, "average_rating": 4.8}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := db.Collection(tt.coll).InsertOne(ctx, tt.doc)
			if tt.wantErr && err == nil {
				t.Errorf("expected validation error inserting into %s", tt.coll)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("insert into %s failed: %v", tt.coll, err)
			}
		})
	}
}
