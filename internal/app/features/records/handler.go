// internal/app/features/records/handler.go
package records

import (
	"context"
	"net/http"
	"time"

	recordstore "github.com/dalemusser/skilllink/internal/app/store/records"
	"github.com/dalemusser/skilllink/internal/app/system/apperr"
	"github.com/dalemusser/skilllink/internal/app/system/auditlog"
	"github.com/dalemusser/skilllink/internal/app/system/authz"
	"github.com/dalemusser/skilllink/internal/app/system/inputval"
	"github.com/dalemusser/skilllink/internal/app/system/paging"
	"github.com/dalemusser/skilllink/internal/app/system/timeouts"
	"github.com/dalemusser/skilllink/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the auxiliary record collections.
type Handler struct {
	AuditLog *auditlog.Logger
	Log      *zap.Logger

	kinds map[string]kind
	now   func() time.Time
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		AuditLog: audit,
		Log:      logger,
		kinds: map[string]kind{
			"teams": newTyped(db, "teams", func(d *models.Team, now time.Time) string {
				d.CreatedAt = now
				return d.CaptainID
			}, func(d *models.Team) *primitive.ObjectID { return &d.ID }),
			"sponsors": newTyped(db, "sponsors", func(d *models.Sponsor, now time.Time) string {
				d.CreatedAt = now
				return d.OrgID
			}, func(d *models.Sponsor) *primitive.ObjectID { return &d.ID }),
			"profiles": newTyped(db, "profiles", func(d *models.Profile, _ time.Time) string {
				return d.UserID
			}, func(d *models.Profile) *primitive.ObjectID { return &d.ID }),
			"games": newTyped(db, "games", func(d *models.Game, now time.Time) string {
				d.UpdatedAt = now
				return d.UserID
			}, func(d *models.Game) *primitive.ObjectID { return &d.ID }),
			"highlights": newTyped(db, "highlights", func(d *models.Highlight, now time.Time) string {
				d.CreatedAt = now
				return d.UserID
			}, func(d *models.Highlight) *primitive.ObjectID { return &d.ID }),
		},
		now: time.Now,
	}
}

// kind erases the record type so one handler serves every collection.
type kind interface {
	list(ctx context.Context, ownerID string, p paging.Params) (any, error)
	// decode reads and stamps a new document; it returns the document,
	// its id and its owner reference.
	decode(w http.ResponseWriter, r *http.Request, now time.Time) (doc any, id, owner string, err error)
	insert(ctx context.Context, doc any) error
	ownerField() string
}

type typed[T any] struct {
	store *recordstore.Store[T]
	stamp func(*T, time.Time) string
	idOf  func(*T) *primitive.ObjectID
}

func newTyped[T any](db *mongo.Database, name string, stamp func(*T, time.Time) string, idOf func(*T) *primitive.ObjectID) typed[T] {
	s, err := recordstore.New[T](db, name)
	if err != nil {
		panic("records: " + name + ": " + err.Error())
	}
	return typed[T]{store: s, stamp: stamp, idOf: idOf}
}

func (k typed[T]) list(ctx context.Context, ownerID string, p paging.Params) (any, error) {
	rows, total, err := k.store.List(ctx, ownerID, p)
	if err != nil {
		return nil, err
	}
	return paging.NewPage(p, rows, total), nil
}

func (k typed[T]) decode(w http.ResponseWriter, r *http.Request, now time.Time) (any, string, string, error) {
	var doc T
	if err := inputval.DecodeJSON(w, r, &doc); err != nil {
		return nil, "", "", err
	}
	id := primitive.NewObjectID()
	*k.idOf(&doc) = id
	owner := k.stamp(&doc, now.UTC())
	return doc, id.Hex(), owner, nil
}

func (k typed[T]) insert(ctx context.Context, doc any) error {
	return k.store.Insert(ctx, doc.(T))
}

func (k typed[T]) ownerField() string { return k.store.OwnerField() }

func (h *Handler) kindFor(w http.ResponseWriter, r *http.Request) (string, kind, bool) {
	name := chi.URLParam(r, "kind")
	k, ok := h.kinds[name]
	if !ok {
		apperr.Write(w, r, h.Log, apperr.Missing("Unknown record kind."))
		return "", nil, false
	}
	return name, k, true
}

// ServeList handles GET /records/{kind}?owner_id=&page=&limit=.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	_, k, ok := h.kindFor(w, r)
	if !ok {
		return
	}
	p, err := paging.Parse(r)
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "record list")
	defer cancel()

	page, err := k.list(ctx, query.Get(r, "owner_id"), p)
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	apperr.JSON(w, http.StatusOK, page)
}

// HandleCreate handles POST /records/{kind}. Admin only.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	name, k, ok := h.kindFor(w, r)
	if !ok {
		return
	}
	doc, id, owner, err := k.decode(w, r, h.now())
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	if owner == "" {
		apperr.Write(w, r, h.Log, apperr.BadRequest(k.ownerField()+" is required."))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "record create")
	defer cancel()

	if err := k.insert(ctx, doc); err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}

	if _, actor, ok := authz.UserCtx(r); ok {
		h.AuditLog.RecordCreated(ctx, r, actor, name, id)
	}
	apperr.JSON(w, http.StatusOK, doc)
}
