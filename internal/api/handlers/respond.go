package handlers

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/zatekoja/volunteerconnect/backend/pkg/errors"
)

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError answers with the status the error's type maps to.
func respondWithAppError(w http.ResponseWriter, err error) {
	respondWithError(w, apperrors.HTTPStatus(err), err.Error())
}
