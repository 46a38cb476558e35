package course

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/budgetquest/budgetquest/internal/rest"
	"github.com/budgetquest/budgetquest/pkg/progression"
	"github.com/budgetquest/budgetquest/pkg/user"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type CourseDTO struct {
	Id        int    `json:"id"`
	ParentId  *int   `json:"parentId"`
	Topic     string `json:"topic"`
	BadgeId   *int   `json:"badgeId,omitempty"`
	Completed bool   `json:"completed"`
}

type CourseDetailsDTO struct {
	Id       int          `json:"id"`
	ParentId *int         `json:"parentId"`
	Topic    string       `json:"topic"`
	BadgeId  *int         `json:"badgeId,omitempty"`
	Concepts []ConceptDTO `json:"concepts"`
}

type ConceptDTO struct {
	Id      int         `json:"id"`
	Name    string      `json:"name"`
	Content string      `json:"content"`
	Answers []AnswerDTO `json:"answers"`
}

type AnswerDTO struct {
	Id      int    `json:"id"`
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

type CompletionDTO struct {
	CourseId              int    `json:"courseId"`
	AlreadyCompleted      bool   `json:"alreadyCompleted"`
	BadgeId               int    `json:"badgeId"`
	BadgeName             string `json:"badgeName"`
	ExperiencePoints      int    `json:"experiencePoints"`
	TotalExperiencePoints int    `json:"totalExperiencePoints"`
	LevelId               int    `json:"levelId,omitempty"`
	LevelChanged          bool   `json:"levelChanged"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// ListCourses godoc
// @Summary List courses
// @Description All courses with parent ids and whether the current user completed them
// @Tags Course
// @Produce json
// @Success 200 {array} CourseDTO
// @Failure 403 {object} rest.ErrorResponse
// @Router /api/course [get]
// @Security XUserId
func (h *Handler) ListCourses(w http.ResponseWriter, r *http.Request) {
	log.Debug("Listing courses")
	courses, err := h.service.ListCourses(r.Context())
	if err != nil {
		writeError(w, err, "Failed to list courses")
		return
	}
	result := make([]CourseDTO, 0, len(courses))
	for _, c := range courses {
		result = append(result, CourseDTO{
			Id:        c.Id,
			ParentId:  c.ParentId,
			Topic:     c.Topic,
			BadgeId:   c.BadgeId,
			Completed: c.Completed,
		})
	}
	rest.WriteJSON(w, http.StatusOK, result)
}

// GetCourse godoc
// @Summary Get course
// @Description Course with its concepts and their answers
// @Tags Course
// @Produce json
// @Param courseId path int true "Course ID"
// @Success 200 {object} CourseDetailsDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/course/{courseId} [get]
// @Security XUserId
func (h *Handler) GetCourse(w http.ResponseWriter, r *http.Request) {
	courseId, ok := courseIdFromPath(w, r)
	if !ok {
		return
	}
	log.Debugf("Getting course %d", courseId)
	c, err := h.service.GetCourse(r.Context(), courseId)
	if err != nil {
		writeError(w, err, "Failed to get course")
		return
	}
	rest.WriteJSON(w, http.StatusOK, CourseToDetailsDTO(c))
}

// CompleteCourse godoc
// @Summary Complete course
// @Description Award the course badge to the current user. Repeated completion reports alreadyCompleted.
// @Tags Course
// @Produce json
// @Param courseId path int true "Course ID"
// @Success 200 {object} CompletionDTO
// @Failure 404 {object} rest.ErrorResponse
// @Failure 409 {object} rest.ErrorResponse "Course has no badge"
// @Router /api/course/{courseId}/completion [post]
// @Security XUserId
func (h *Handler) CompleteCourse(w http.ResponseWriter, r *http.Request) {
	courseId, ok := courseIdFromPath(w, r)
	if !ok {
		return
	}
	log.Debugf("Completing course %d", courseId)
	completion, err := h.service.CompleteCourse(r.Context(), courseId)
	if err != nil {
		writeError(w, err, "Failed to complete course")
		return
	}
	rest.WriteJSON(w, http.StatusOK, CompletionDTO(completion))
}

func courseIdFromPath(w http.ResponseWriter, r *http.Request) (int, bool) {
	courseId, err := strconv.Atoi(mux.Vars(r)["courseId"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid course id", err.Error())
		return 0, false
	}
	return courseId, true
}

func writeError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, user.ErrNoUser), errors.Is(err, user.ErrUserNotFound):
		rest.WriteError(w, http.StatusForbidden, "User not found", "")
	case errors.Is(err, ErrCourseNotFound):
		rest.WriteError(w, http.StatusNotFound, "Course not found", "")
	case errors.Is(err, progression.ErrBadgeNotFound):
		rest.WriteError(w, http.StatusNotFound, "Badge not found", err.Error())
	case errors.Is(err, ErrCourseHasNoBadge):
		rest.WriteError(w, http.StatusConflict, "Course has no badge", "")
	default:
		log.Errorf("%s: %v", message, err)
		rest.WriteError(w, http.StatusInternalServerError, message, err.Error())
	}
}

func CourseToDetailsDTO(c Course) CourseDetailsDTO {
	concepts := make([]ConceptDTO, 0, len(c.Concepts))
	for _, concept := range c.Concepts {
		answers := make([]AnswerDTO, 0, len(concept.Answers))
		for _, a := range concept.Answers {
			answers = append(answers, AnswerDTO(a))
		}
		concepts = append(concepts, ConceptDTO{
			Id:      concept.Id,
			Name:    concept.Name,
			Content: concept.Content,
			Answers: answers,
		})
	}
	return CourseDetailsDTO{
		Id:       c.Id,
		ParentId: c.ParentId,
		Topic:    c.Topic,
		BadgeId:  c.BadgeId,
		Concepts: concepts,
	}
}
