// internal/app/features/profile/directory.go
package profile

import (
	"errors"
	"net/http"

	userstore "github.com/dalemusser/skilllink/internal/app/store/users"
	"github.com/dalemusser/skilllink/internal/app/system/apperr"
	"github.com/dalemusser/skilllink/internal/app/system/inputval"
	"github.com/dalemusser/skilllink/internal/app/system/timeouts"
	"github.com/dalemusser/skilllink/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// directoryEntry is the public card shown for any user id.
type directoryEntry struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	UserType string `json:"user_type"`
}

func entryFor(u *models.User) directoryEntry {
	return directoryEntry{
		ID:       u.ID.Hex(),
		Username: u.Username,
		Email:    u.Email,
		UserType: u.UserType,
	}
}

// ServeUser handles GET /users/{id}.
func (h *Handler) ServeUser(w http.ResponseWriter, r *http.Request) {
	oid, err := inputval.ParseObjectID(chi.URLParam(r, "id"), "user")
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "user lookup")
	defer cancel()

	u, err := h.Users.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			err = apperr.Missing("User not found.")
		}
		apperr.Write(w, r, h.Log, err)
		return
	}
	apperr.JSON(w, http.StatusOK, entryFor(u))
}

// ServeOrg handles GET /orgs/{id}. Non-org users are reported as missing.
func (h *Handler) ServeOrg(w http.ResponseWriter, r *http.Request) {
	oid, err := inputval.ParseObjectID(chi.URLParam(r, "id"), "organization")
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "org lookup")
	defer cancel()

	u, err := h.Users.GetByIDAndType(ctx, oid, models.UserTypeOrg)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			err = apperr.Missing("Organization not found.")
		}
		apperr.Write(w, r, h.Log, err)
		return
	}
	apperr.JSON(w, http.StatusOK, entryFor(u))
}
