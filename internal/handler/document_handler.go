package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"time"

	"infoco-backoffice/internal/blob"
	"infoco-backoffice/internal/domain"
	"infoco-backoffice/internal/observability"

	"github.com/google/uuid"
)

// maxDocumentBytes bounds a document upload.
const maxDocumentBytes = 25 << 20

// DocumentHandler manages uploaded files and payment notes. The bytes live
// in the blob store; the database keeps the metadata rows.
type DocumentHandler struct {
	documents domain.DocumentRepository
	blobs     blob.Store
}

func NewDocumentHandler(documents domain.DocumentRepository, blobs blob.Store) *DocumentHandler {
	return &DocumentHandler{documents: documents, blobs: blobs}
}

func (h *DocumentHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxDocumentBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "A file is required")
		return
	}
	defer file.Close()

	municipalityName := r.FormValue("municipalityName")
	if municipalityName == "" {
		respondError(w, http.StatusBadRequest, "municipalityName is required")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}

	key := fmt.Sprintf("files/%s%s", uuid.NewString(), path.Ext(header.Filename))
	url, err := h.blobs.Put(r.Context(), key, header.Header.Get("Content-Type"), data)
	if err != nil {
		observability.FromContext(r.Context()).Error("file upload failed", "error", err.Error())
		respondError(w, http.StatusBadGateway, "Storage unavailable")
		return
	}

	record := &domain.ManagedFile{
		Name:             header.Filename,
		Type:             header.Header.Get("Content-Type"),
		Size:             int64(len(data)),
		URL:              url,
		MunicipalityName: municipalityName,
		Folder:           r.FormValue("folder"),
		CreatedAt:        time.Now().UTC(),
	}
	if err := h.documents.CreateFile(r.Context(), record); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to save file record")
		return
	}
	respondJSON(w, http.StatusCreated, record)
}

func (h *DocumentHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	err := h.documents.DeleteFile(r.Context(), id)
	if errors.Is(err, domain.ErrDocumentNotFound) {
		respondError(w, http.StatusNotFound, "File not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete file")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *DocumentHandler) UploadPaymentNote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxDocumentBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "A file is required")
		return
	}
	defer file.Close()

	referenceMonth := r.FormValue("referenceMonth")
	municipalityName := r.FormValue("municipalityName")
	if referenceMonth == "" || municipalityName == "" {
		respondError(w, http.StatusBadRequest, "referenceMonth and municipalityName are required")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}

	key := fmt.Sprintf("payment-notes/%s%s", uuid.NewString(), path.Ext(header.Filename))
	url, err := h.blobs.Put(r.Context(), key, header.Header.Get("Content-Type"), data)
	if err != nil {
		observability.FromContext(r.Context()).Error("payment note upload failed", "error", err.Error())
		respondError(w, http.StatusBadGateway, "Storage unavailable")
		return
	}

	note := &domain.PaymentNote{
		ReferenceMonth:   referenceMonth,
		Description:      r.FormValue("description"),
		UploadDate:       time.Now().UTC(),
		MunicipalityName: municipalityName,
		FileURL:          url,
		FileName:         header.Filename,
		FileSize:         int64(len(data)),
		FileType:         header.Header.Get("Content-Type"),
	}
	if err := h.documents.CreatePaymentNote(r.Context(), note); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to save payment note")
		return
	}
	respondJSON(w, http.StatusCreated, note)
}

func (h *DocumentHandler) DeletePaymentNote(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	err := h.documents.DeletePaymentNote(r.Context(), id)
	if errors.Is(err, domain.ErrDocumentNotFound) {
		respondError(w, http.StatusNotFound, "Payment note not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete payment note")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
