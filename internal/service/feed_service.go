package service

import (
	"context"
	"log/slog"
	"time"

	"infoco-backoffice/internal/domain"
	"infoco-backoffice/internal/feed"
)

// EventPublisher pushes a feed event to every server instance. Backed by
// the message broker in production.
type EventPublisher interface {
	PublishFeedEvent(ctx context.Context, event *domain.FeedEvent) error
}

// FeedService persists feed entries and fans them out to connected clients.
// When a broker publisher is configured, delivery to the local hub happens
// through the broker consumer so each event is delivered once per instance.
type FeedService struct {
	repo      domain.FeedRepository
	hub       *feed.Hub
	publisher EventPublisher
}

func NewFeedService(repo domain.FeedRepository, hub *feed.Hub, publisher EventPublisher) *FeedService {
	return &FeedService{
		repo:      repo,
		hub:       hub,
		publisher: publisher,
	}
}

func (s *FeedService) CreatePost(ctx context.Context, authorID, content string) (*domain.UpdatePost, error) {
	if content == "" {
		return nil, domain.ErrInvalidInput
	}

	post := &domain.UpdatePost{
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreatePost(ctx, post); err != nil {
		return nil, err
	}

	s.dispatch(ctx, &domain.FeedEvent{Kind: "post", Post: post})
	return post, nil
}

func (s *FeedService) DeletePost(ctx context.Context, id int64) error {
	return s.repo.DeletePost(ctx, id)
}

func (s *FeedService) CreateNotification(ctx context.Context, notification *domain.Notification) error {
	if notification.Title == "" {
		return domain.ErrInvalidInput
	}
	if notification.Date.IsZero() {
		notification.Date = time.Now().UTC()
	}
	if err := s.repo.CreateNotification(ctx, notification); err != nil {
		return err
	}

	s.dispatch(ctx, &domain.FeedEvent{Kind: "notification", Notification: notification})
	return nil
}

func (s *FeedService) MarkNotificationRead(ctx context.Context, id int64) error {
	return s.repo.MarkNotificationRead(ctx, id)
}

func (s *FeedService) DeleteNotification(ctx context.Context, id int64) error {
	return s.repo.DeleteNotification(ctx, id)
}

// dispatch routes the event through the broker when available, falling back
// to the local hub. A broker failure degrades to local-only delivery rather
// than failing the write.
func (s *FeedService) dispatch(ctx context.Context, event *domain.FeedEvent) {
	if s.publisher != nil {
		err := s.publisher.PublishFeedEvent(ctx, event)
		if err == nil {
			return
		}
		slog.Warn("broker publish failed, delivering locally",
			slog.String("kind", event.Kind),
			slog.String("error", err.Error()))
	}
	if s.hub != nil {
		s.hub.Publish(event)
	}
}
