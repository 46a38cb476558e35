package google

import (
	"errors"
	"net/http"

	"github.com/budgetquest/budgetquest/internal/rest"
	"github.com/budgetquest/budgetquest/pkg/user"
	log "github.com/sirupsen/logrus"
)

type SignInRequest struct {
	AccessToken string `json:"accessToken" validate:"required"`
}

type AuthHandler struct {
	fetcher     ProfileFetcher
	userService user.Service
}

func NewAuthHandler(fetcher ProfileFetcher, userService user.Service) *AuthHandler {
	return &AuthHandler{fetcher: fetcher, userService: userService}
}

// SignIn godoc
// @Summary Sign in with Google
// @Description Exchange a Google access token for the application user, creating it on first sign-in. The returned uid is sent as X-User-Id afterwards.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body SignInRequest true "Google access token"
// @Success 200 {object} user.UserDTO "Existing user"
// @Success 201 {object} user.UserDTO "User created"
// @Failure 400 {object} rest.ErrorResponse
// @Failure 401 {object} rest.ErrorResponse
// @Router /api/auth/google [post]
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	log.Debug("Signing in with Google")
	input, err := rest.DecodeAndValidate[SignInRequest](w, r)
	if err != nil {
		return
	}

	identity, err := h.fetcher.FetchProfile(r.Context(), input.AccessToken)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			rest.WriteError(w, http.StatusUnauthorized, "Invalid Google access token", "")
			return
		}
		rest.WriteError(w, http.StatusBadGateway, "Failed to verify Google access token", err.Error())
		return
	}

	u, created, err := h.userService.SignIn(r.Context(), identity)
	if err != nil {
		log.Errorf("failed to sign in user: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Failed to sign in", err.Error())
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	rest.WriteJSON(w, status, user.UserToDTO(u))
}
