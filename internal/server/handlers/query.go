// internal/server/handlers/query.go

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"w3intel/internal/domain/insight"
)

// maxQueryBody bounds the size of a query request body
const maxQueryBody = 64 << 10

// QueryDispatcher turns free text into a visualization payload
type QueryDispatcher interface {
	Generate(query string) insight.Payload
}

// QueryHandler handles natural-language query requests
type QueryHandler struct {
	responder

	dispatcher QueryDispatcher
}

// NewQueryHandler creates a new query handler
func NewQueryHandler(dispatcher QueryDispatcher, logger logrus.FieldLogger) *QueryHandler {
	return &QueryHandler{
		responder: newResponder(logger),

		dispatcher: dispatcher,
	}
}

type queryRequest struct {
	Query string `json:"query"`
}

// PostQuery answers a JSON {"query": "..."} body
func (h *QueryHandler) PostQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest

	r.Body = http.MaxBytesReader(w, r.Body, maxQueryBody)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, h.dispatcher.Generate(req.Query))
}

// GetQuery answers the q query parameter
func (h *QueryHandler) GetQuery(w http.ResponseWriter, r *http.Request) {
	h.respondWithJSON(w, http.StatusOK, h.dispatcher.Generate(r.URL.Query().Get("q")))
}
