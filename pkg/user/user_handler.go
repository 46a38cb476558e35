package user

import (
	"errors"
	"net/http"

	"github.com/budgetquest/budgetquest/internal/rest"
	log "github.com/sirupsen/logrus"
)

type UserDTO struct {
	Uid                   string `json:"uid"`
	GivenName             string `json:"givenName"`
	FamilyName            string `json:"familyName"`
	PhotoUrl              string `json:"photoUrl,omitempty"`
	TotalExperiencePoints int    `json:"totalExperiencePoints"`
}

type Handler struct {
	userService Service
}

func NewHandler(userService Service) *Handler {
	return &Handler{
		userService: userService,
	}
}

// DeleteCurrentUser godoc
// @Summary Delete current user
// @Description Remove the signed-in user together with badges, budget and activity
// @Tags User
// @Success 204 "No Content"
// @Failure 403 {string} string "User not found"
// @Router /api/user/current [delete]
// @Security XUserId
func (h *Handler) DeleteCurrentUser(w http.ResponseWriter, r *http.Request) {
	log.Debug("Deleting current user")
	err := h.userService.DeleteCurrentUser(r.Context())
	if err != nil {
		if errors.Is(err, ErrNoUser) || errors.Is(err, ErrUserNotFound) {
			rest.WriteError(w, http.StatusForbidden, "User not found", "")
			return
		}
		rest.WriteError(w, http.StatusInternalServerError, "Failed to delete user", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func UserToDTO(u User) UserDTO {
	return UserDTO{
		Uid:                   u.Uid,
		GivenName:             u.GivenName,
		FamilyName:            u.FamilyName,
		PhotoUrl:              u.PhotoUrl,
		TotalExperiencePoints: u.TotalExperiencePoints,
	}
}
