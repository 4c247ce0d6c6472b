package domain

import (
	"context"
	"errors"
	"time"
)

var ErrDocumentNotFound = errors.New("document not found")

// ManagedFile is an uploaded document filed under a municipality folder.
// URL points at the blob store.
type ManagedFile struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Type             string    `json:"type"`
	Size             int64     `json:"size"`
	URL              string    `json:"url"`
	MunicipalityName string    `json:"municipalityName"`
	Folder           string    `json:"folder"`
	CreatedAt        time.Time `json:"createdAt"`
}

// PaymentNote is an uploaded payment voucher for a municipality and
// reference month (YYYY-MM).
type PaymentNote struct {
	ID               int64     `json:"id"`
	ReferenceMonth   string    `json:"referenceMonth"`
	Description      string    `json:"description"`
	UploadDate       time.Time `json:"uploadDate"`
	MunicipalityName string    `json:"municipalityName"`
	FileURL          string    `json:"fileUrl"`
	FileName         string    `json:"fileName"`
	FileSize         int64     `json:"fileSize"`
	FileType         string    `json:"fileType"`
}

type DocumentRepository interface {
	CreateFile(ctx context.Context, file *ManagedFile) error
	ListFiles(ctx context.Context) ([]*ManagedFile, error)
	DeleteFile(ctx context.Context, id int64) error

	CreatePaymentNote(ctx context.Context, note *PaymentNote) error
	ListPaymentNotes(ctx context.Context) ([]*PaymentNote, error)
	DeletePaymentNote(ctx context.Context, id int64) error
}
