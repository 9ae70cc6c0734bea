package api

import (
	"encoding/json"
	"net/http"

	"ethnicityfacts/internal"
	apperrors "ethnicityfacts/internal/errors"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		internal.DefaultLogger.Error("[API] failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		internal.DefaultLogger.Error("[API] %v", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Code: apperrors.GetCode(err)})
}

// decodeJSON reads a JSON request body, rejecting unknown fields
func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperrors.InvalidInput("invalid JSON body: " + err.Error())
	}
	return nil
}
