package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/hmusa/medcatalog-backend/internal/apperr"
)

// writeJSON writes v with the {success: ...} envelope already applied by
// the caller.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeData writes a success envelope with one named payload field.
func writeData(w http.ResponseWriter, status int, key string, value interface{}) {
	writeJSON(w, status, map[string]interface{}{
		"success": true,
		key:       value,
	})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"success": true,
		"message": message,
	})
}

// writeError maps the error taxonomy to HTTP status codes. Errors
// outside the taxonomy are logged and answered with a generic 500 so
// storage driver detail never reaches the client.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindConflict:
		status = http.StatusConflict
	case apperr.KindAuth:
		status = http.StatusUnauthorized
	case apperr.KindForbidden:
		status = http.StatusForbidden
	case apperr.KindExternal:
		status = http.StatusBadGateway
	default:
		log.Printf("internal error: %v", err)
	}

	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"message": apperr.MessageOf(err),
	})
}
