package handler

import (
	"net/http"

	"infoco-backoffice/internal/observability"
	"infoco-backoffice/internal/service"
)

// DataHandler serves the aggregate bootstrap snapshot.
type DataHandler struct {
	dataService *service.DataService
}

func NewDataHandler(dataService *service.DataService) *DataHandler {
	return &DataHandler{dataService: dataService}
}

// All returns every collection in one payload. The frontend loads this once
// after login and keeps it in its client store.
func (h *DataHandler) All(w http.ResponseWriter, r *http.Request) {
	data, err := h.dataService.FetchAll(r.Context())
	if err != nil {
		observability.FromContext(r.Context()).Error("data snapshot failed", "error", err.Error())
		respondError(w, http.StatusInternalServerError, "Failed to load application data")
		return
	}
	respondJSON(w, http.StatusOK, data)
}
