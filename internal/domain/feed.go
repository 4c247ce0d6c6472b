package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrPostNotFound         = errors.New("post not found")
	ErrNotificationNotFound = errors.New("notification not found")
)

// Notification types.
const (
	NotificationSystem   = "system"
	NotificationReminder = "reminder"
)

// UpdatePost is an entry in the internal update feed, authored by a system
// user.
type UpdatePost struct {
	ID        int64     `json:"id"`
	AuthorID  string    `json:"authorId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Notification is an inert alert record shown in the notification tray.
type Notification struct {
	ID          int64      `json:"id"`
	Type        string     `json:"type"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Date        time.Time  `json:"date"`
	EventDate   *time.Time `json:"eventDate,omitempty"`
	Read        bool       `json:"read"`
	Link        string     `json:"link,omitempty"`
}

// FeedEvent is what travels the feed pipeline (broker and WebSocket hub)
// when a post or notification is created.
type FeedEvent struct {
	Kind         string        `json:"kind"` // "post" or "notification"
	Post         *UpdatePost   `json:"post,omitempty"`
	Notification *Notification `json:"notification,omitempty"`
}

type FeedRepository interface {
	CreatePost(ctx context.Context, post *UpdatePost) error
	ListPosts(ctx context.Context) ([]*UpdatePost, error)
	DeletePost(ctx context.Context, id int64) error

	CreateNotification(ctx context.Context, notification *Notification) error
	ListNotifications(ctx context.Context) ([]*Notification, error)
	MarkNotificationRead(ctx context.Context, id int64) error
	DeleteNotification(ctx context.Context, id int64) error
}
