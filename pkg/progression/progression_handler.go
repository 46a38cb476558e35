package progression

import (
	"errors"
	"net/http"
	"time"

	"github.com/budgetquest/budgetquest/internal/rest"
	"github.com/budgetquest/budgetquest/pkg/user"
	log "github.com/sirupsen/logrus"
)

type BadgeDTO struct {
	Id               int    `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description,omitempty"`
	IconUrl          string `json:"iconUrl,omitempty"`
	ExperiencePoints int    `json:"experiencePoints"`
}

type UserBadgeDTO struct {
	BadgeDTO
	Awarded time.Time `json:"awarded"`
}

type LevelDTO struct {
	Id                        int `json:"id"`
	ExperiencePointsThreshold int `json:"experiencePointsThreshold"`
}

type ProgressDTO struct {
	TotalExperiencePoints int       `json:"totalExperiencePoints"`
	Level                 *LevelDTO `json:"level,omitempty"`
	NextLevel             *LevelDTO `json:"nextLevel,omitempty"`
}

type ProfileDTO struct {
	user.UserDTO
	Level     *LevelDTO `json:"level,omitempty"`
	NextLevel *LevelDTO `json:"nextLevel,omitempty"`
}

type Handler struct {
	service     Service
	userService user.Service
}

func NewHandler(service Service, userService user.Service) *Handler {
	return &Handler{service: service, userService: userService}
}

// CurrentProfile godoc
// @Summary Get current user
// @Description Profile of the signed-in user with experience points, level and next level
// @Tags User
// @Produce json
// @Success 200 {object} ProfileDTO
// @Failure 403 {object} rest.ErrorResponse
// @Router /api/user/current [get]
// @Security XUserId
func (h *Handler) CurrentProfile(w http.ResponseWriter, r *http.Request) {
	log.Debug("Getting current user profile")
	u, err := h.userService.GetCurrentUser(r.Context())
	if err != nil {
		writeError(w, err, "Failed to get user")
		return
	}
	progress := h.service.ProgressFor(r.Context(), u.TotalExperiencePoints)
	rest.WriteJSON(w, http.StatusOK, ProfileDTO{
		UserDTO:   user.UserToDTO(u),
		Level:     levelToDTO(progress.Level),
		NextLevel: levelToDTO(progress.NextLevel),
	})
}

// GetProgress godoc
// @Summary Get progress
// @Description Experience points, current level and next level of the current user
// @Tags Progression
// @Produce json
// @Success 200 {object} ProgressDTO
// @Failure 403 {object} rest.ErrorResponse
// @Router /api/progress [get]
// @Security XUserId
func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	log.Debug("Getting progress")
	progress, err := h.service.GetProgress(r.Context())
	if err != nil {
		writeError(w, err, "Failed to get progress")
		return
	}
	rest.WriteJSON(w, http.StatusOK, ProgressToDTO(progress))
}

// ListBadges godoc
// @Summary List badges
// @Description The badge catalog
// @Tags Progression
// @Produce json
// @Success 200 {array} BadgeDTO
// @Router /api/badge [get]
// @Security XUserId
func (h *Handler) ListBadges(w http.ResponseWriter, r *http.Request) {
	badges, err := h.service.ListBadges(r.Context())
	if err != nil {
		writeError(w, err, "Failed to list badges")
		return
	}
	result := make([]BadgeDTO, 0, len(badges))
	for _, b := range badges {
		result = append(result, BadgeToDTO(b))
	}
	rest.WriteJSON(w, http.StatusOK, result)
}

// ListLevels godoc
// @Summary List levels
// @Description The level table ordered by id
// @Tags Progression
// @Produce json
// @Success 200 {array} LevelDTO
// @Router /api/level [get]
// @Security XUserId
func (h *Handler) ListLevels(w http.ResponseWriter, r *http.Request) {
	levels, err := h.service.ListLevels(r.Context())
	if err != nil {
		writeError(w, err, "Failed to list levels")
		return
	}
	result := make([]LevelDTO, 0, len(levels))
	for _, l := range levels {
		result = append(result, LevelDTO{Id: l.Id, ExperiencePointsThreshold: l.ExperiencePointsThreshold})
	}
	rest.WriteJSON(w, http.StatusOK, result)
}

// ListCurrentUserBadges godoc
// @Summary List earned badges
// @Description Badges of the current user in award order
// @Tags User
// @Produce json
// @Success 200 {array} UserBadgeDTO
// @Failure 403 {object} rest.ErrorResponse
// @Router /api/user/current/badges [get]
// @Security XUserId
func (h *Handler) ListCurrentUserBadges(w http.ResponseWriter, r *http.Request) {
	badges, err := h.service.ListCurrentUserBadges(r.Context())
	if err != nil {
		writeError(w, err, "Failed to list badges")
		return
	}
	result := make([]UserBadgeDTO, 0, len(badges))
	for _, ub := range badges {
		result = append(result, UserBadgeDTO{BadgeDTO: BadgeToDTO(ub.Badge), Awarded: ub.Awarded})
	}
	rest.WriteJSON(w, http.StatusOK, result)
}

func writeError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, user.ErrNoUser), errors.Is(err, user.ErrUserNotFound):
		rest.WriteError(w, http.StatusForbidden, "User not found", "")
	case errors.Is(err, ErrBadgeNotFound):
		rest.WriteError(w, http.StatusNotFound, "Badge not found", "")
	default:
		log.Errorf("%s: %v", message, err)
		rest.WriteError(w, http.StatusInternalServerError, message, err.Error())
	}
}

func BadgeToDTO(b Badge) BadgeDTO {
	return BadgeDTO{
		Id:               b.Id,
		Name:             b.Name,
		Description:      b.Description,
		IconUrl:          b.IconUrl,
		ExperiencePoints: b.ExperiencePoints,
	}
}

func ProgressToDTO(p Progress) ProgressDTO {
	return ProgressDTO{
		TotalExperiencePoints: p.TotalExperiencePoints,
		Level:                 levelToDTO(p.Level),
		NextLevel:             levelToDTO(p.NextLevel),
	}
}

func levelToDTO(l *Level) *LevelDTO {
	if l == nil {
		return nil
	}
	return &LevelDTO{Id: l.Id, ExperiencePointsThreshold: l.ExperiencePointsThreshold}
}
