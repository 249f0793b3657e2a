// internal/app/features/login/handler.go
package login

import (
	"errors"
	"net/http"

	userstore "github.com/dalemusser/skilllink/internal/app/store/users"
	"github.com/dalemusser/skilllink/internal/app/system/apperr"
	"github.com/dalemusser/skilllink/internal/app/system/auditlog"
	"github.com/dalemusser/skilllink/internal/app/system/auth"
	"github.com/dalemusser/skilllink/internal/app/system/htmlsanitize"
	"github.com/dalemusser/skilllink/internal/app/system/inputval"
	"github.com/dalemusser/skilllink/internal/app/system/metrics"
	"github.com/dalemusser/skilllink/internal/app/system/passwords"
	"github.com/dalemusser/skilllink/internal/app/system/ratelimit"
	"github.com/dalemusser/skilllink/internal/app/system/statscache"
	"github.com/dalemusser/skilllink/internal/app/system/timeouts"
	"github.com/dalemusser/skilllink/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Users    *userstore.Store
	Issuer   *auth.Issuer
	Limiter  *ratelimit.LoginLimiter // nil disables rate limiting
	AuditLog *auditlog.Logger        // nil disables audit events
	Metrics  *metrics.Metrics
	Stats    *statscache.Cache
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, issuer *auth.Issuer, limiter *ratelimit.LoginLimiter, audit *auditlog.Logger, m *metrics.Metrics, logger *zap.Logger) *Handler {
	if m == nil {
		m = metrics.New()
	}
	return &Handler{
		Users:    userstore.New(db),
		Issuer:   issuer,
		Limiter:  limiter,
		AuditLog: audit,
		Metrics:  m,
		Log:      logger,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Request / response bodies                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

type registerInput struct {
	Username string            `json:"username" validate:"notblank,max=64"`
	Email    string            `json:"email" validate:"required,email"`
	Password string            `json:"password" validate:"required,min=6"`
	UserType string            `json:"user_type" label:"User type" validate:"required,usertype"`
	Bio      *string           `json:"bio" validate:"omitempty,max=2000"`
	Location *string           `json:"location" validate:"omitempty,max=200"`
	Socials  map[string]string `json:"socials"`
	Games    []string          `json:"games"`
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /register                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleRegister creates a player or org account and returns its public
// projection. Admin accounts cannot be registered here.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var in registerInput
	if err := inputval.DecodeJSON(w, r, &in); err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "register")
	defer cancel()

	exists, err := h.Users.EmailExists(ctx, in.Email)
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	if exists {
		h.AuditLog.RegisterFailedDuplicate(ctx, r, in.Email)
		apperr.Write(w, r, h.Log, apperr.Duplicate("Email already registered."))
		return
	}

	hash, err := passwords.Hash(in.Password)
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}

	u, err := h.Users.Create(ctx, models.User{
		Username:     htmlsanitize.PlainText(in.Username),
		Email:        in.Email,
		PasswordHash: hash,
		UserType:     in.UserType,
		Bio:          htmlsanitize.PlainTextPtr(in.Bio),
		Location:     htmlsanitize.PlainTextPtr(in.Location),
		Socials:      in.Socials,
		Games:        in.Games,
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			// Lost a race with a concurrent registration.
			h.AuditLog.RegisterFailedDuplicate(ctx, r, in.Email)
			apperr.Write(w, r, h.Log, apperr.Duplicate("Email already registered."))
			return
		}
		apperr.Write(w, r, h.Log, err)
		return
	}

	h.AuditLog.RegisterSuccess(ctx, r, u.ID, u.Email, u.UserType)
	h.Stats.Forget(ctx, statscache.AdminStatsKey)
	apperr.JSON(w, http.StatusOK, u.Public())
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleLogin verifies credentials and issues a bearer token.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if err := inputval.DecodeJSON(w, r, &in); err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "login")
	defer cancel()

	if h.Limiter != nil {
		if ok, reason := h.Limiter.Check(r, in.Email); !ok {
			h.Metrics.Logins.WithLabelValues("rate_limited").Inc()
			h.AuditLog.LoginFailedRateLimit(ctx, r, in.Email)
			apperr.Write(w, r, h.Log, apperr.New(apperr.RateLimited, reason))
			return
		}
	}

	u, err := h.Users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			h.Metrics.Logins.WithLabelValues("not_found").Inc()
			h.AuditLog.LoginFailedUserNotFound(ctx, r, in.Email)
			apperr.Write(w, r, h.Log, apperr.Missing("User not found."))
			return
		}
		apperr.Write(w, r, h.Log, err)
		return
	}

	if err := passwords.Check(u.PasswordHash, in.Password); err != nil {
		h.Metrics.Logins.WithLabelValues("wrong_password").Inc()
		h.AuditLog.LoginFailedWrongPassword(ctx, r, u.ID, u.Email)
		apperr.Write(w, r, h.Log, apperr.Unauthorized("Incorrect password."))
		return
	}

	token, err := h.Issuer.Issue(auth.TokenUser{
		ID:       u.ID.Hex(),
		Email:    u.Email,
		UserType: u.UserType,
	})
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}

	if h.Limiter != nil {
		h.Limiter.ResetEmail(in.Email)
	}
	h.Metrics.Logins.WithLabelValues("success").Inc()
	h.AuditLog.LoginSuccess(ctx, r, u.ID, u.Email)
	h.Log.Info("user logged in", zap.String("user_id", u.ID.Hex()), zap.String("user_type", u.UserType))

	apperr.JSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}
