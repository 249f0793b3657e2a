package gigstore

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/dalemusser/skilllink/internal/app/system/normalize"
	"github.com/dalemusser/skilllink/internal/app/system/paging"
	"github.com/dalemusser/skilllink/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no gig matches.
	ErrNotFound = errors.New("gig not found")
	// ErrRequired is returned when title, description or location is blank.
	ErrRequired = errors.New("title, description and location are required")
	// ErrBadStatus is returned for a status other than open or closed.
	ErrBadStatus = errors.New(`status must be "open"|"closed"`)
	// ErrNoChanges is returned by Update when the patch sets nothing.
	ErrNoChanges = errors.New("no valid fields to update")
)

type Store struct {
	c    *mongo.Collection
	apps *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:    db.Collection("gigs"),
		apps: db.Collection("applications"),
	}
}

// Create inserts g owned by g.OrgID. Status defaults to open and tags are
// lower-cased; list fields are never stored as null.
func (s *Store) Create(ctx context.Context, g models.Gig) (models.Gig, error) {
	g.ID = primitive.NewObjectID()
	g.Title = strings.TrimSpace(g.Title)
	g.Description = strings.TrimSpace(g.Description)
	g.Location = strings.TrimSpace(g.Location)
	g.Tags = normalize.Tags(g.Tags)
	g.SkillsRequired = normalize.Strings(g.SkillsRequired)
	g.Status = normalize.Status(g.Status)
	if g.Status == "" {
		g.Status = models.GigStatusOpen
	}
	g.CreatedAt = time.Now().UTC()

	if g.Title == "" || g.Description == "" || g.Location == "" {
		return models.Gig{}, ErrRequired
	}
	if !models.IsValidGigStatus(g.Status) {
		return models.Gig{}, ErrBadStatus
	}

	if _, err := s.c.InsertOne(ctx, g); err != nil {
		return models.Gig{}, err
	}
	return g, nil
}

// GetByID returns a gig by its ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Gig, error) {
	var g models.Gig
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Gig{}, ErrNotFound
		}
		return models.Gig{}, err
	}
	return g, nil
}

// Filter narrows List. Empty fields are ignored.
type Filter struct {
	Title    string // case-insensitive substring
	Location string // case-insensitive substring
	OrgID    string
	Status   string
	Tag      string
	Search   string // substring of title or description
}

// BSON builds the Mongo filter. User input is regex-escaped.
func (f Filter) BSON() bson.M {
	filter := bson.M{}
	if v := strings.TrimSpace(f.Title); v != "" {
		filter["title"] = contains(v)
	}
	if v := strings.TrimSpace(f.Location); v != "" {
		filter["location"] = contains(v)
	}
	if v := strings.TrimSpace(f.OrgID); v != "" {
		filter["org_id"] = v
	}
	if v := normalize.Status(f.Status); v != "" {
		filter["status"] = v
	}
	if v := normalize.Tag(f.Tag); v != "" {
		filter["tags"] = v
	}
	if v := strings.TrimSpace(f.Search); v != "" {
		filter["$or"] = bson.A{
			bson.M{"title": contains(v)},
			bson.M{"description": contains(v)},
		}
	}
	return filter
}

func contains(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

// List returns one page of gigs matching f and the total match count.
func (s *Store) List(ctx context.Context, f Filter, sort paging.Sort, p paging.Params) ([]models.Gig, int64, error) {
	filter := f.BSON()

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := p.ApplyToFind(options.Find().SetSort(sort.Doc()))
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var gigs []models.Gig
	if err := cur.All(ctx, &gigs); err != nil {
		return nil, 0, err
	}
	return gigs, total, nil
}

// FillApplicantCounts sets ApplicantCount on each gig by counting its
// applications in a single aggregation.
func (s *Store) FillApplicantCounts(ctx context.Context, gigs []models.Gig) error {
	if len(gigs) == 0 {
		return nil
	}
	ids := make([]string, 0, len(gigs))
	for _, g := range gigs {
		ids = append(ids, g.ID.Hex())
	}

	cur, err := s.apps.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"gig_id": bson.M{"$in": ids}}}},
		{{Key: "$group", Value: bson.M{"_id": "$gig_id", "n": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return err
	}
	defer cur.Close(ctx)

	var rows []struct {
		GigID string `bson:"_id"`
		N     int64  `bson:"n"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return err
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.GigID] = r.N
	}
	for i := range gigs {
		gigs[i].ApplicantCount = counts[gigs[i].ID.Hex()]
	}
	return nil
}

// SweepExpired closes every open gig whose deadline is before now and
// returns how many were closed. Safe to run concurrently and repeatedly.
func (s *Store) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"status": models.GigStatusOpen, "deadline": bson.M{"$lt": now}},
		bson.M{"$set": bson.M{"status": models.GigStatusClosed}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// Update holds the mutable fields of a gig. Nil fields are left untouched.
type Update struct {
	Title          *string
	Description    *string
	Location       *string
	Game           *string
	Budget         *string
	SkillsRequired []string
	Tags           []string
	Deadline       *time.Time
	Status         *string
}

// IsEmpty reports whether the patch sets nothing.
func (u Update) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Location == nil &&
		u.Game == nil && u.Budget == nil && u.SkillsRequired == nil &&
		u.Tags == nil && u.Deadline == nil && u.Status == nil
}

// Update applies upd to the gig with id.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) error {
	if upd.IsEmpty() {
		return ErrNoChanges
	}

	set := bson.M{}
	required := map[string]*string{"title": upd.Title, "description": upd.Description, "location": upd.Location}
	for field, v := range required {
		if v == nil {
			continue
		}
		trimmed := strings.TrimSpace(*v)
		if trimmed == "" {
			return ErrRequired
		}
		set[field] = trimmed
	}
	if upd.Game != nil {
		set["game"] = strings.TrimSpace(*upd.Game)
	}
	if upd.Budget != nil {
		set["budget"] = strings.TrimSpace(*upd.Budget)
	}
	if upd.SkillsRequired != nil {
		set["skills_required"] = normalize.Strings(upd.SkillsRequired)
	}
	if upd.Tags != nil {
		set["tags"] = normalize.Tags(upd.Tags)
	}
	if upd.Deadline != nil {
		set["deadline"] = upd.Deadline.UTC()
	}
	if upd.Status != nil {
		st := normalize.Status(*upd.Status)
		if !models.IsValidGigStatus(st) {
			return ErrBadStatus
		}
		set["status"] = st
	}

	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a gig by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
