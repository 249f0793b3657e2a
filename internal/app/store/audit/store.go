// Package audit persists security-relevant events (sign-ins, registrations,
// admin actions) in the audit_events collection.
package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collection = "audit_events"

const (
	CategoryAuth  = "auth"
	CategoryAdmin = "admin"
)

const (
	EventRegisterSuccess          = "register_success"
	EventRegisterFailedDuplicate  = "register_failed_duplicate"
	EventLoginSuccess             = "login_success"
	EventLoginFailedUserNotFound  = "login_failed_user_not_found"
	EventLoginFailedWrongPassword = "login_failed_wrong_password"
	EventLoginFailedRateLimit     = "login_failed_rate_limit"

	EventAdminSeeded   = "admin_seeded"
	EventRecordCreated = "record_created"
	EventBadgeMinted   = "badge_minted"
	EventGigDeleted    = "gig_deleted"
)

// defaultLimit caps Query when the filter leaves Limit unset.
const defaultLimit = 100

type Event struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty"`
	Timestamp     time.Time           `bson:"timestamp"`
	Category      string              `bson:"category"`
	EventType     string              `bson:"event_type"`
	UserID        *primitive.ObjectID `bson:"user_id,omitempty"`  // subject of the event
	ActorID       *primitive.ObjectID `bson:"actor_id,omitempty"` // set when someone else acted
	IP            string              `bson:"ip"`
	UserAgent     string              `bson:"user_agent,omitempty"`
	Success       bool                `bson:"success"`
	FailureReason string              `bson:"failure_reason,omitempty"`
	Details       map[string]string   `bson:"details,omitempty"`
}

// QueryFilter narrows Query and CountByFilter. Zero fields match anything;
// Start and End bound the timestamp inclusively.
type QueryFilter struct {
	UserID    *primitive.ObjectID
	Category  string
	EventType string
	Success   *bool
	StartTime *time.Time
	EndTime   *time.Time
	Limit     int64
	Offset    int64
}

func (f QueryFilter) bson() bson.M {
	m := bson.M{}
	if f.UserID != nil {
		m["user_id"] = *f.UserID
	}
	if f.Category != "" {
		m["category"] = f.Category
	}
	if f.EventType != "" {
		m["event_type"] = f.EventType
	}
	if f.Success != nil {
		m["success"] = *f.Success
	}
	span := bson.M{}
	if f.StartTime != nil {
		span["$gte"] = *f.StartTime
	}
	if f.EndTime != nil {
		span["$lte"] = *f.EndTime
	}
	if len(span) > 0 {
		m["timestamp"] = span
	}
	return m
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(collection)}
}

// Log inserts e, filling in an id and a UTC timestamp when absent.
func (s *Store) Log(ctx context.Context, e Event) error {
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, e)
	return err
}

// Query returns matching events, newest first.
func (s *Store) Query(ctx context.Context, f QueryFilter) ([]Event, error) {
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	cur, err := s.c.Find(ctx, f.bson(), options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(f.Offset).
		SetLimit(f.Limit))
	if err != nil {
		return nil, err
	}
	events := []Event{}
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *Store) CountByFilter(ctx context.Context, f QueryFilter) (int64, error) {
	return s.c.CountDocuments(ctx, f.bson())
}

// ForUser returns the latest events about one user.
func (s *Store) ForUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]Event, error) {
	return s.Query(ctx, QueryFilter{UserID: &userID, Limit: limit})
}
