package recordstore_test

import (
	"errors"
	"testing"
	"time"

	recordstore "github.com/dalemusser/skilllink/internal/app/store/records"
	"github.com/dalemusser/skilllink/internal/app/system/paging"
	"github.com/dalemusser/skilllink/internal/domain/models"
	"github.com/dalemusser/skilllink/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNew_UnknownKind(t *testing.T) {
	db := testutil.SetupTestDB(t)
	if _, err := recordstore.New[models.Team](db, "tournaments"); !errors.Is(err, recordstore.ErrUnknownKind) {
		t.Errorf("New error = %v, want ErrUnknownKind", err)
	}
}

func TestStore_InsertAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store, err := recordstore.New[models.Team](db, "teams")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if store.OwnerField() != "captain_id" {
		t.Errorf("OwnerField = %q, want captain_id", store.OwnerField())
	}

	captain := primitive.NewObjectID().Hex()
	for _, name := range []string{"Alpha", "Bravo", "Charlie"} {
		err := store.Insert(ctx, models.Team{
			ID:        primitive.NewObjectID(),
			Name:      name,
			CaptainID: captain,
			Members:   []string{captain},
			CreatedAt: time.Now().UTC(),
		})
		if err != nil {
			t.Fatalf("Insert %s failed: %v", name, err)
		}
	}
	if err := store.Insert(ctx, models.Team{ID: primitive.NewObjectID(), Name: "Other", CaptainID: "x", Members: []string{}}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	rows, total, err := store.List(ctx, captain, paging.Params{Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(rows) != 2 || rows[0].Name != "Alpha" || rows[1].Name != "Bravo" {
		t.Errorf("page 1 = %+v", rows)
	}

	_, total, err = store.List(ctx, "", paging.Params{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List all failed: %v", err)
	}
	if total != 4 {
		t.Errorf("unfiltered total = %d, want 4", total)
	}
}
