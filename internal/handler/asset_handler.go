package handler

import (
	"errors"
	"net/http"

	"infoco-backoffice/internal/domain"
)

// AssetHandler manages inventoried assets and external system registrations.
type AssetHandler struct {
	assets  domain.AssetRepository
	systems domain.ExternalSystemRepository
}

func NewAssetHandler(assets domain.AssetRepository, systems domain.ExternalSystemRepository) *AssetHandler {
	return &AssetHandler{assets: assets, systems: systems}
}

func (h *AssetHandler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	var asset domain.Asset
	if !decodeBody(w, r, &asset) {
		return
	}
	if asset.Name == "" {
		respondError(w, http.StatusBadRequest, "Name is required")
		return
	}
	if asset.Status == "" {
		asset.Status = domain.AssetInUse
	}

	err := h.assets.Create(r.Context(), &asset)
	if errors.Is(err, domain.ErrEmployeeNotFound) {
		respondError(w, http.StatusBadRequest, "Assigned employee does not exist")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create asset")
		return
	}
	respondJSON(w, http.StatusCreated, asset)
}

// UpdateAsset replaces the asset record, maintenance log included. The log
// travels whole on every update; entries are append-only on the client.
func (h *AssetHandler) UpdateAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var asset domain.Asset
	if !decodeBody(w, r, &asset) {
		return
	}
	asset.ID = id

	err := h.assets.Update(r.Context(), &asset)
	switch {
	case errors.Is(err, domain.ErrAssetNotFound):
		respondError(w, http.StatusNotFound, "Asset not found")
	case errors.Is(err, domain.ErrEmployeeNotFound):
		respondError(w, http.StatusBadRequest, "Assigned employee does not exist")
	case err != nil:
		respondError(w, http.StatusInternalServerError, "Failed to update asset")
	default:
		respondJSON(w, http.StatusOK, asset)
	}
}

func (h *AssetHandler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	err := h.assets.Delete(r.Context(), id)
	if errors.Is(err, domain.ErrAssetNotFound) {
		respondError(w, http.StatusNotFound, "Asset not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete asset")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AssetHandler) CreateExternalSystem(w http.ResponseWriter, r *http.Request) {
	var system domain.ExternalSystem
	if !decodeBody(w, r, &system) {
		return
	}
	if system.Name == "" || system.APIURL == "" {
		respondError(w, http.StatusBadRequest, "Name and apiUrl are required")
		return
	}
	if err := h.systems.Create(r.Context(), &system); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to register system")
		return
	}
	respondJSON(w, http.StatusCreated, system)
}

func (h *AssetHandler) UpdateExternalSystem(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var system domain.ExternalSystem
	if !decodeBody(w, r, &system) {
		return
	}
	system.ID = id

	err := h.systems.Update(r.Context(), &system)
	if errors.Is(err, domain.ErrExternalSystemNotFound) {
		respondError(w, http.StatusNotFound, "External system not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update system")
		return
	}
	respondJSON(w, http.StatusOK, system)
}

func (h *AssetHandler) DeleteExternalSystem(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	err := h.systems.Delete(r.Context(), id)
	if errors.Is(err, domain.ErrExternalSystemNotFound) {
		respondError(w, http.StatusNotFound, "External system not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete system")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
