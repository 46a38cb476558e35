package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// WriteJSON writes body as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Errorf("failed to encode response: %v", err)
	}
}

func WriteError(w http.ResponseWriter, status int, message string, details string) {
	WriteJSON(w, status, ErrorResponse{Error: message, Details: details})
}

// DecodeAndValidate decodes the JSON request body into T and checks its `validate` tags.
// On failure it writes a 400 response and returns a non-nil error; the caller just returns.
func DecodeAndValidate[T any](w http.ResponseWriter, r *http.Request) (T, error) {
	var input T
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return input, err
	}
	if err := validate.Struct(input); err != nil {
		WriteError(w, http.StatusBadRequest, "Validation failed", describe(err))
		return input, err
	}
	return input, nil
}

func describe(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return err.Error()
	}
	fe := validationErrors[0]
	if fe.Param() != "" {
		return fmt.Sprintf("field %s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("field %s must satisfy %s", fe.Field(), fe.Tag())
}
