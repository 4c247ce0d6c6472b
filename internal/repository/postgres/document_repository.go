package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"infoco-backoffice/internal/domain"
)

// DocumentRepository implements domain.DocumentRepository for PostgreSQL.
type DocumentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) CreateFile(ctx context.Context, file *domain.ManagedFile) error {
	query := `
		INSERT INTO managed_files (name, type, size, url, municipality_name, folder, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		file.Name,
		file.Type,
		file.Size,
		file.URL,
		file.MunicipalityName,
		file.Folder,
		file.CreatedAt,
	).Scan(&file.ID)
	if err != nil {
		return fmt.Errorf("failed to create managed file: %w", err)
	}
	return nil
}

func (r *DocumentRepository) ListFiles(ctx context.Context) ([]*domain.ManagedFile, error) {
	query := `
		SELECT id, name, type, size, url, municipality_name, folder, created_at
		FROM managed_files
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list managed files: %w", err)
	}
	defer rows.Close()

	var files []*domain.ManagedFile
	for rows.Next() {
		file := &domain.ManagedFile{}
		if err := rows.Scan(
			&file.ID,
			&file.Name,
			&file.Type,
			&file.Size,
			&file.URL,
			&file.MunicipalityName,
			&file.Folder,
			&file.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan managed file: %w", err)
		}
		files = append(files, file)
	}
	return files, rows.Err()
}

func (r *DocumentRepository) DeleteFile(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM managed_files WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete managed file: %w", err)
	}
	return requireRowAffected(result, domain.ErrDocumentNotFound)
}

func (r *DocumentRepository) CreatePaymentNote(ctx context.Context, note *domain.PaymentNote) error {
	query := `
		INSERT INTO payment_notes (reference_month, description, upload_date, municipality_name, file_url, file_name, file_size, file_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		note.ReferenceMonth,
		note.Description,
		note.UploadDate,
		note.MunicipalityName,
		note.FileURL,
		note.FileName,
		note.FileSize,
		note.FileType,
	).Scan(&note.ID)
	if err != nil {
		return fmt.Errorf("failed to create payment note: %w", err)
	}
	return nil
}

func (r *DocumentRepository) ListPaymentNotes(ctx context.Context) ([]*domain.PaymentNote, error) {
	query := `
		SELECT id, reference_month, description, upload_date, municipality_name, file_url, file_name, file_size, file_type
		FROM payment_notes
		ORDER BY reference_month DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment notes: %w", err)
	}
	defer rows.Close()

	var notes []*domain.PaymentNote
	for rows.Next() {
		note := &domain.PaymentNote{}
		if err := rows.Scan(
			&note.ID,
			&note.ReferenceMonth,
			&note.Description,
			&note.UploadDate,
			&note.MunicipalityName,
			&note.FileURL,
			&note.FileName,
			&note.FileSize,
			&note.FileType,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payment note: %w", err)
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

func (r *DocumentRepository) DeletePaymentNote(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM payment_notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete payment note: %w", err)
	}
	return requireRowAffected(result, domain.ErrDocumentNotFound)
}
