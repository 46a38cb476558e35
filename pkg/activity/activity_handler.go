package activity

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/budgetquest/budgetquest/internal/rest"
	"github.com/budgetquest/budgetquest/pkg/user"
	log "github.com/sirupsen/logrus"
)

type EntryDTO struct {
	Id      int64     `json:"id"`
	Kind    string    `json:"kind"`
	Message string    `json:"message"`
	Created time.Time `json:"created"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// ListActivity godoc
// @Summary Recent activity
// @Description Newest badge awards, level-ups and expenses of the current user
// @Tags Activity
// @Produce json
// @Param limit query int false "Maximum number of entries (default 20, max 100)"
// @Success 200 {array} EntryDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 403 {object} rest.ErrorResponse
// @Router /api/activity [get]
// @Security XUserId
func (h *Handler) ListActivity(w http.ResponseWriter, r *http.Request) {
	log.Debug("Listing activity")
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		var err error
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			rest.WriteError(w, http.StatusBadRequest, "Invalid limit", raw)
			return
		}
	}

	entries, err := h.service.List(r.Context(), limit)
	if err != nil {
		if errors.Is(err, user.ErrNoUser) {
			rest.WriteError(w, http.StatusForbidden, "User not found", "")
			return
		}
		log.Errorf("failed to list activity: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Failed to list activity", err.Error())
		return
	}

	result := make([]EntryDTO, 0, len(entries))
	for _, e := range entries {
		result = append(result, EntryDTO{Id: e.Id, Kind: string(e.Kind), Message: e.Message, Created: e.Created})
	}
	rest.WriteJSON(w, http.StatusOK, result)
}
