// internal/server/handlers/respond.go

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

// responder writes JSON responses and logs server-side failures
type responder struct {
	logger logrus.FieldLogger
}

func newResponder(logger logrus.FieldLogger) responder {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return responder{logger: logger}
}

// Helper for JSON responses
func (rs responder) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		rs.logger.WithError(err).Error("Failed to marshal response")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper for error responses
func (rs responder) respondWithError(w http.ResponseWriter, code int, message string, err error) {
	response := map[string]string{"error": message}

	if err != nil && code >= 500 {
		rs.logger.WithError(err).WithField("code", code).Error(message)
	}

	jsonResponse, _ := json.Marshal(response)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(jsonResponse)
}
