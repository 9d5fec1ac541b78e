package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/teranos/kin/errors"
	"github.com/teranos/kin/logger"
)

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		return errors.Wrap(err, "failed to encode JSON")
	}
	return nil
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeWrappedError logs err and writes it with the status statusFor picks
func writeWrappedError(w http.ResponseWriter, log *zap.SugaredLogger, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Errorw("Request failed", logger.FieldError, err, logger.FieldStatus, status)
	} else {
		log.Debugw("Request rejected", logger.FieldError, err, logger.FieldStatus, status)
	}
	writeError(w, status, err.Error())
}

// requireMethod checks if the request method matches the expected method
func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return false
	}
	return true
}
