package userstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/skilllink/internal/app/system/normalize"
	"github.com/dalemusser/skilllink/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no user matches.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	// ErrNoChanges is returned by Update when the patch sets nothing.
	ErrNoChanges = errors.New("no fields provided for update")

	errBadUserType = errors.New(`user_type must be "player"|"org"|"admin"`)
	errMissing     = errors.New("username, email and password hash are required")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// GetByIDAndType loads a user by ObjectID only if it has the given user type.
func (s *Store) GetByIDAndType(ctx context.Context, id primitive.ObjectID, userType string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id, "user_type": userType})
}

// GetByEmail looks up a user by case-insensitive email.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": normalize.Email(email)})
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// EmailExists reports whether any user holds email.
func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"email": normalize.Email(email)}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Create inserts a new user after normalizing & validating fields.
// The caller supplies PasswordHash; plain passwords never reach the store.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Username = normalize.Name(u.Username)
	u.Email = normalize.Email(u.Email)
	u.UserType = normalize.UserType(u.UserType)
	if u.Games != nil {
		u.Games = normalize.Strings(u.Games)
	}

	switch u.UserType {
	case models.UserTypePlayer, models.UserTypeOrg, models.UserTypeAdmin:
	default:
		return models.User{}, errBadUserType
	}
	if u.Username == "" || u.Email == "" || u.PasswordHash == "" {
		return models.User{}, errMissing
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// ProfileUpdate holds the self-service fields of a user. Nil fields are left
// untouched.
type ProfileUpdate struct {
	Username *string
	Bio      *string
	Location *string
	Socials  map[string]string
	Games    []string
}

// IsEmpty reports whether the patch sets nothing.
func (p ProfileUpdate) IsEmpty() bool {
	return p.Username == nil && p.Bio == nil && p.Location == nil && p.Socials == nil && p.Games == nil
}

// Update applies upd and returns the updated user.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd ProfileUpdate) (*models.User, error) {
	if upd.IsEmpty() {
		return nil, ErrNoChanges
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Username != nil {
		name := normalize.Name(*upd.Username)
		if name == "" {
			return nil, errMissing
		}
		set["username"] = name
	}
	if upd.Bio != nil {
		set["bio"] = strings.TrimSpace(*upd.Bio)
	}
	if upd.Location != nil {
		set["location"] = strings.TrimSpace(*upd.Location)
	}
	if upd.Socials != nil {
		set["socials"] = upd.Socials
	}
	if upd.Games != nil {
		set["games"] = normalize.Strings(upd.Games)
	}

	var u models.User
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
