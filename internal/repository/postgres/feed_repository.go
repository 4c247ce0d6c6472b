package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"infoco-backoffice/internal/domain"
)

// FeedRepository implements domain.FeedRepository for PostgreSQL.
type FeedRepository struct {
	db *sql.DB
}

func NewFeedRepository(db *sql.DB) *FeedRepository {
	return &FeedRepository{db: db}
}

func (r *FeedRepository) CreatePost(ctx context.Context, post *domain.UpdatePost) error {
	query := `
		INSERT INTO update_posts (author_id, content, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		post.AuthorID,
		post.Content,
		post.CreatedAt,
	).Scan(&post.ID)
	if IsForeignKeyViolation(err) {
		return domain.ErrProfileNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

func (r *FeedRepository) ListPosts(ctx context.Context) ([]*domain.UpdatePost, error) {
	query := `
		SELECT id, author_id, content, created_at
		FROM update_posts
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []*domain.UpdatePost
	for rows.Next() {
		post := &domain.UpdatePost{}
		if err := rows.Scan(
			&post.ID,
			&post.AuthorID,
			&post.Content,
			&post.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (r *FeedRepository) DeletePost(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM update_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return requireRowAffected(result, domain.ErrPostNotFound)
}

func (r *FeedRepository) CreateNotification(ctx context.Context, notification *domain.Notification) error {
	query := `
		INSERT INTO notifications (type, title, description, date, event_date, read, link)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''))
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		notification.Type,
		notification.Title,
		notification.Description,
		notification.Date,
		notification.EventDate,
		notification.Read,
		notification.Link,
	).Scan(&notification.ID)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *FeedRepository) ListNotifications(ctx context.Context) ([]*domain.Notification, error) {
	query := `
		SELECT id, type, title, description, date, event_date, read, COALESCE(link, '')
		FROM notifications
		ORDER BY date DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*domain.Notification
	for rows.Next() {
		notification := &domain.Notification{}
		if err := rows.Scan(
			&notification.ID,
			&notification.Type,
			&notification.Title,
			&notification.Description,
			&notification.Date,
			&notification.EventDate,
			&notification.Read,
			&notification.Link,
		); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, notification)
	}
	return notifications, rows.Err()
}

func (r *FeedRepository) MarkNotificationRead(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return requireRowAffected(result, domain.ErrNotificationNotFound)
}

func (r *FeedRepository) DeleteNotification(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return requireRowAffected(result, domain.ErrNotificationNotFound)
}
