package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dgallion1/stylechunk/internal/styled"
)

// statusFor maps processing errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, styled.ErrInvalidArgument),
		errors.Is(err, styled.ErrInput),
		errors.Is(err, styled.ErrConfig):
		return http.StatusBadRequest
	case errors.Is(err, styled.ErrLocate), errors.Is(err, styled.ErrStructure):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	jsonError(w, err.Error(), statusFor(err))
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
