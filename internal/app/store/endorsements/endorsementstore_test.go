package endorsementstore_test

import (
	"errors"
	"sort"
	"testing"
	"time"

	endorsementstore "github.com/dalemusser/skilllink/internal/app/store/endorsements"
	"github.com/dalemusser/skilllink/internal/app/system/paging"
	"github.com/dalemusser/skilllink/internal/domain/models"
	"github.com/dalemusser/skilllink/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func intPtr(i int) *int { return &i }

func TestFilter_BSON_MergesRanges(t *testing.T) {
	after := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	before := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	f := endorsementstore.Filter{
		EndorsedID:    "player",
		EndorsedBy:    "org",
		MinRating:     intPtr(3),
		MaxRating:     intPtr(5),
		CreatedAfter:  &after,
		CreatedBefore: &before,
	}.BSON()

	rating, ok := f["rating"].(bson.M)
	if !ok {
		t.Fatalf("rating = %T, want bson.M", f["rating"])
	}
	if rating["$gte"] != 3 || rating["$lte"] != 5 {
		t.Errorf("rating range = %v, want {$gte:3 $lte:5}", rating)
	}
	created, ok := f["created_at"].(bson.M)
	if !ok {
		t.Fatalf("created_at = %T, want bson.M", f["created_at"])
	}
	if created["$gte"] != after || created["$lte"] != before {
		t.Errorf("created_at range = %v", created)
	}
	if f["endorsed_id"] != "player" || f["endorsed_by"] != "org" {
		t.Errorf("filter = %v", f)
	}
}

func TestFilter_BSON_SingleBound(t *testing.T) {
	f := endorsementstore.Filter{EndorsedID: "p", MaxRating: intPtr(2)}.BSON()
	rating := f["rating"].(bson.M)
	if len(rating) != 1 || rating["$lte"] != 2 {
		t.Errorf("rating range = %v, want {$lte:2}", rating)
	}
	if _, has := f["created_at"]; has {
		t.Error("no date bounds should leave created_at unfiltered")
	}
	if _, has := f["endorsed_by"]; has {
		t.Error("blank endorsed_by should not filter")
	}
}

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := endorsementstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	player := primitive.NewObjectID().Hex()
	org := primitive.NewObjectID().Hex()

	e, err := store.Create(ctx, models.Endorsement{EndorsedID: player, EndorsedBy: org, Rating: 5})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if e.ID.IsZero() || e.CreatedAt.IsZero() {
		t.Error("expected ID and CreatedAt to be set")
	}

	tests := []struct {
		name string
		e    models.Endorsement
		want error
	}{
		{"self", models.Endorsement{EndorsedID: org, EndorsedBy: org, Rating: 5}, endorsementstore.ErrSelfEndorsement},
		{"zero rating", models.Endorsement{EndorsedID: player, EndorsedBy: org, Rating: 0}, endorsementstore.ErrBadRating},
		{"six rating", models.Endorsement{EndorsedID: player, EndorsedBy: org, Rating: 6}, endorsementstore.ErrBadRating},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := store.Create(ctx, tt.e); !errors.Is(err, tt.want) {
				t.Errorf("Create error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestStore_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := endorsementstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	player := primitive.NewObjectID()
	orgA := primitive.NewObjectID()
	orgB := primitive.NewObjectID()
	jan := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	jun := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	dec := time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC)

	fixtures.CreateEndorsementAt(ctx, player, orgA, 3, jan)
	fixtures.CreateEndorsementAt(ctx, player, orgA, 5, jun)
	fixtures.CreateEndorsementAt(ctx, player, orgB, 4, dec)
	fixtures.CreateEndorsementAt(ctx, primitive.NewObjectID(), orgA, 5, jun)

	byRating := paging.Sort{Field: "rating", Order: -1}
	all := paging.Params{Page: 1, Limit: 10}

	rows, total, err := store.List(ctx, endorsementstore.Filter{EndorsedID: player.Hex()}, byRating, all)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 3 || len(rows) != 3 {
		t.Fatalf("got %d rows (total %d), want 3", len(rows), total)
	}
	if rows[0].Rating != 5 || rows[2].Rating != 3 {
		t.Errorf("ratings not sorted desc: %d %d %d", rows[0].Rating, rows[1].Rating, rows[2].Rating)
	}

	after := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	before := jun
	rows, total, err = store.List(ctx, endorsementstore.Filter{
		EndorsedID:    player.Hex(),
		CreatedAfter:  &after,
		CreatedBefore: &before,
	}, byRating, all)
	if err != nil {
		t.Fatalf("List by date failed: %v", err)
	}
	if total != 1 || rows[0].Rating != 5 {
		t.Errorf("inclusive date window returned %d rows", total)
	}

	_, total, err = store.List(ctx, endorsementstore.Filter{
		EndorsedID: player.Hex(),
		EndorsedBy: orgA.Hex(),
		MinRating:  intPtr(4),
	}, byRating, all)
	if err != nil {
		t.Fatalf("List by endorser failed: %v", err)
	}
	if total != 1 {
		t.Errorf("endorser + min rating total = %d, want 1", total)
	}

	rows, total, err = store.List(ctx, endorsementstore.Filter{EndorsedID: player.Hex()},
		paging.Sort{Field: "created_at", Order: 1}, paging.Params{Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("List page 2 failed: %v", err)
	}
	if total != 3 || len(rows) != 1 || !rows[0].CreatedAt.Equal(dec) {
		t.Errorf("page 2 = %+v (total %d), want the December endorsement", rows, total)
	}
}

func TestStore_DeleteAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := endorsementstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	e := fixtures.CreateEndorsement(ctx, primitive.NewObjectID(), primitive.NewObjectID(), 4)

	got, err := store.GetByID(ctx, e.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Rating != 4 {
		t.Errorf("Rating = %d, want 4", got.Rating)
	}

	n, err := store.Delete(ctx, e.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted %d, want 1", n)
	}
	if _, err := store.GetByID(ctx, e.ID); !errors.Is(err, endorsementstore.ErrNotFound) {
		t.Errorf("GetByID after delete error = %v, want ErrNotFound", err)
	}
}

func TestStore_RatingsFor(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := endorsementstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	player := primitive.NewObjectID()
	org := primitive.NewObjectID()
	for _, r := range []int{5, 4, 5} {
		fixtures.CreateEndorsement(ctx, player, org, r)
	}
	fixtures.CreateEndorsement(ctx, org, player, 1)

	got, err := store.RatingsFor(ctx, player.Hex())
	if err != nil {
		t.Fatalf("RatingsFor failed: %v", err)
	}
	sort.Ints(got)
	if len(got) != 3 || got[0] != 4 || got[1] != 5 || got[2] != 5 {
		t.Errorf("RatingsFor = %v, want [4 5 5]", got)
	}

	none, err := store.RatingsFor(ctx, primitive.NewObjectID().Hex())
	if err != nil {
		t.Fatalf("RatingsFor failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("RatingsFor unknown user = %v, want empty", none)
	}
}
