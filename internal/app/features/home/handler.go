package home

import (
	"net/http"

	"github.com/dalemusser/skilllink/internal/app/system/apperr"
	"go.uber.org/zap"
)

// RootMessage is the body of GET /.
const RootMessage = "SkillLink Backend Running"

// Handler serves the service root.
type Handler struct {
	Log *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – liveness banner                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	apperr.JSON(w, http.StatusOK, apperr.Message{Message: RootMessage})
}
