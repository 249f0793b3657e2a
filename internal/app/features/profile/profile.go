// internal/app/features/profile/profile.go
package profile

import (
	"errors"
	"net/http"

	userstore "github.com/dalemusser/skilllink/internal/app/store/users"
	"github.com/dalemusser/skilllink/internal/app/system/apperr"
	"github.com/dalemusser/skilllink/internal/app/system/auth"
	"github.com/dalemusser/skilllink/internal/app/system/authz"
	"github.com/dalemusser/skilllink/internal/app/system/htmlsanitize"
	"github.com/dalemusser/skilllink/internal/app/system/inputval"
	"github.com/dalemusser/skilllink/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// ServeMe handles GET /me and echoes the identity carried by the token.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		apperr.Write(w, r, h.Log, apperr.Unauthorized("Not authenticated."))
		return
	}
	apperr.JSON(w, http.StatusOK, u)
}

type updateInput struct {
	Username *string           `json:"username" validate:"omitempty,notblank,max=64"`
	Bio      *string           `json:"bio" validate:"omitempty,max=2000"`
	Location *string           `json:"location" validate:"omitempty,max=200"`
	Socials  map[string]string `json:"socials"`
	Games    []string          `json:"games"`
}

// HandleUpdateMe handles PATCH /me. Only fields present in the body change.
func (h *Handler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	_, uid, ok := authz.UserCtx(r)
	if !ok {
		apperr.Write(w, r, h.Log, apperr.Unauthorized("Not authenticated."))
		return
	}

	var in updateInput
	if err := inputval.DecodeJSON(w, r, &in); err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}

	upd := userstore.ProfileUpdate{
		Username: htmlsanitize.PlainTextPtr(in.Username),
		Bio:      htmlsanitize.PlainTextPtr(in.Bio),
		Location: htmlsanitize.PlainTextPtr(in.Location),
		Socials:  in.Socials,
		Games:    in.Games,
	}
	if upd.IsEmpty() {
		apperr.Write(w, r, h.Log, apperr.BadRequest("No fields provided for update."))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "profile update")
	defer cancel()

	u, err := h.Users.Update(ctx, uid, upd)
	switch {
	case err == nil:
	case errors.Is(err, userstore.ErrNotFound):
		apperr.Write(w, r, h.Log, apperr.Missing("User not found."))
		return
	case errors.Is(err, userstore.ErrNoChanges):
		apperr.Write(w, r, h.Log, apperr.BadRequest("No fields provided for update."))
		return
	default:
		h.Log.Warn("profile update failed", zap.String("user_id", uid.Hex()), zap.Error(err))
		apperr.Write(w, r, h.Log, err)
		return
	}

	apperr.JSON(w, http.StatusOK, u.Public())
}
