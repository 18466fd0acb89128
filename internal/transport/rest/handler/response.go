package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"crewhunt/internal/service"
)

// payload is the body of a successful response; success is added on write
type payload map[string]interface{}

func writeJSON(w http.ResponseWriter, status int, data payload) {
	body := payload{"success": true}
	for k, v := range data {
		body[k] = v
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload{"success": false, "message": message})
}

// writeServiceError maps a service error to its status. Store failures are
// logged and reported generically.
func writeServiceError(w http.ResponseWriter, err error) {
	switch service.KindOf(err) {
	case service.KindUnauthenticated:
		writeError(w, http.StatusUnauthorized, err.Error())
	case service.KindForbidden:
		writeError(w, http.StatusForbidden, err.Error())
	case service.KindInvalid:
		writeError(w, http.StatusBadRequest, err.Error())
	case service.KindConflict:
		writeError(w, http.StatusConflict, err.Error())
	case service.KindNotFound:
		writeError(w, http.StatusNotFound, err.Error())
	default:
		log.Printf("[API] ERROR: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeBody decodes an optional JSON body. An empty body leaves v untouched.
func decodeBody(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
