// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/skilllink/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	sets := []struct {
		name string
		fn   func(context.Context, *mongo.Database) error
	}{
		{"users", ensureUsers},
		{"gigs", ensureGigs},
		{"applications", ensureApplications},
		{"endorsements", ensureEndorsements},
		{"soulbound_nfts", ensureBadges},
		{"audit_events", ensureAuditEvents},
		{"records", ensureRecords},
	}
	for _, s := range sets {
		if err := s.fn(ctx, db); err != nil {
			problems = append(problems, s.name+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func sameBoolPtr(a, b *bool) bool {
	return (a != nil && *a) == (b != nil && *b)
}

// Best-effort duplicate-detector (works cross-vendors)
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if mongo.IsDuplicateKeyError(err) {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

// Mongo/DocDB sometimes returns IndexOptionsConflict when an index with the
// same keys already exists under a different name (or options differ).
func isOptionsConflictErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "IndexOptionsConflict")
}

// duplicatesHint explains how to find the rows that block a unique index.
func duplicatesHint(coll, field string) string {
	return fmt.Sprintf(" (duplicates exist on %s.%s; find them with "+
		`db.%s.aggregate([{ $group: { _id: "$%s", n: { $sum: 1 } } }, { $match: { n: { $gt: 1 } } }]))`,
		coll, field, coll, field)
}

func listIndexes(ctx context.Context, coll *mongo.Collection) map[string]existingIndex {
	existing := map[string]existingIndex{} // sig -> index
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return existing
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		existing[keySig(idx.Key)] = idx
	}
	return existing
}

// recreate drops the index named old and creates m in its place.
func recreate(ctx context.Context, coll *mongo.Collection, old string, m mongo.IndexModel) error {
	if _, err := coll.Indexes().DropOne(ctx, old); err != nil {
		return fmt.Errorf("drop %s: %w", old, err)
	}
	if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
		return err
	}
	return nil
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string

	for _, m := range models {
		var desiredName string
		var desiredUnique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				desiredName = *m.Options.Name
			}
			desiredUnique = m.Options.Unique
		}
		keys := m.Keys.(bson.D)
		desiredSig := keySig(keys)
		unique := desiredUnique != nil && *desiredUnique

		start := time.Now()
		log := zap.L().With(
			zap.String("collection", coll.Name()),
			zap.String("name", desiredName),
			zap.String("keys", desiredSig),
			zap.Bool("unique", unique))
		log.Info("ensuring index")

		fail := func(err error) {
			msg := fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err)
			if isDuplicateKeyErr(err) && unique {
				msg = fmt.Sprintf("%s(%s): cannot create unique index%s",
					coll.Name(), desiredName, duplicatesHint(coll.Name(), keys[0].Key))
			}
			log.Warn("index ensure failed", zap.Error(err))
			errs = append(errs, msg)
		}

		ex, found := listIndexes(ctx, coll)[desiredSig]
		switch {
		case found && sameBoolPtr(desiredUnique, ex.Unique) && (desiredName == "" || ex.Name == desiredName):
			log.Info("reusing existing index", zap.Duration("took", time.Since(start)))

		case found:
			// Same keys but a different name or uniqueness: drop & recreate.
			if err := recreate(ctx, coll, ex.Name, m); err != nil {
				fail(err)
				continue
			}
			log.Info("index dropped and recreated",
				zap.String("from", ex.Name),
				zap.Duration("took", time.Since(start)))

		default:
			created, err := coll.Indexes().CreateOne(ctx, m)
			if err != nil && isOptionsConflictErr(err) {
				// Raced with another writer or a differently named twin.
				if twin, ok := listIndexes(ctx, coll)[desiredSig]; ok {
					if sameBoolPtr(desiredUnique, twin.Unique) {
						log.Info("reusing existing index (post-conflict)", zap.String("existing", twin.Name))
						continue
					}
					err = recreate(ctx, coll, twin.Name, m)
				}
			}
			if err != nil {
				fail(err)
				continue
			}
			log.Info("index ensured",
				zap.String("created_name", created),
				zap.Duration("took", time.Since(start)))
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                              */
/* -------------------------------------------------------------------------- */

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("users"), []mongo.IndexModel{
		// Email is the login identifier.
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_users_email"),
		},
		// Admin stats counts by type.
		{
			Keys:    bson.D{{Key: "user_type", Value: 1}},
			Options: options.Index().SetName("idx_users_type"),
		},
	})
}

func ensureGigs(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("gigs"), []mongo.IndexModel{
		// Expiry sweep: {status: open, deadline < now}
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "deadline", Value: 1}},
			Options: options.Index().SetName("idx_gigs_status_deadline"),
		},
		// my_gigs and org_id filter, newest first
		{
			Keys:    bson.D{{Key: "org_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_gigs_org_created"),
		},
		// Default browse sort
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
			Options: options.Index().SetName("idx_gigs_created__id"),
		},
		{
			Keys:    bson.D{{Key: "tags", Value: 1}},
			Options: options.Index().SetName("idx_gigs_tags"),
		},
	})
}

func ensureApplications(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("applications"), []mongo.IndexModel{
		// Duplicate-application check and per-gig listing/counts.
		{
			Keys:    bson.D{{Key: "gig_id", Value: 1}, {Key: "player_id", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_apps_gig_player_status"),
		},
		{
			Keys:    bson.D{{Key: "player_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_apps_player_created"),
		},
	})
}

func ensureEndorsements(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("endorsements"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "endorsed_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_endorse_endorsed_created"),
		},
		{
			Keys:    bson.D{{Key: "endorsed_id", Value: 1}, {Key: "rating", Value: -1}},
			Options: options.Index().SetName("idx_endorse_endorsed_rating"),
		},
		{
			Keys:    bson.D{{Key: "endorsed_by", Value: 1}},
			Options: options.Index().SetName("idx_endorse_by"),
		},
	})
}

func ensureBadges(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("soulbound_nfts"), []mongo.IndexModel{
		// One badge per user; closes the concurrent mint race.
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_nfts_user"),
		},
		{
			Keys:    bson.D{{Key: "token_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_nfts_token"),
		},
	})
}

func ensureAuditEvents(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("audit_events"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_timestamp"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_user_timestamp"),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}, {Key: "event_type", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_category_type_timestamp"),
		},
	})
}

func ensureRecords(ctx context.Context, db *mongo.Database) error {
	var errs []string
	for _, name := range models.RecordKinds() {
		owner := models.RecordOwnerField[name]
		err := ensureIndexSet(ctx, db.Collection(name), []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: owner, Value: 1}, {Key: "_id", Value: 1}},
				Options: options.Index().SetName("idx_" + name + "_owner__id"),
			},
		})
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
