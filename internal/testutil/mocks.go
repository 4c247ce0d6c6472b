package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"infoco-backoffice/internal/domain"
)

// MockProfileRepository implements domain.ProfileRepository for testing
type MockProfileRepository struct {
	mu sync.RWMutex

	// Function overrides - set these to customize behavior
	CreateFunc         func(ctx context.Context, profile *domain.Profile) error
	GetByIDFunc        func(ctx context.Context, id string) (*domain.Profile, error)
	GetByEmailFunc     func(ctx context.Context, email string) (*domain.Profile, error)
	ListFunc           func(ctx context.Context) ([]*domain.Profile, error)
	UpdateFunc         func(ctx context.Context, profile *domain.Profile) error
	UpdatePictureFunc  func(ctx context.Context, id, url string) error
	UpdatePasswordFunc func(ctx context.Context, id, passwordHash string) error
	DeleteFunc         func(ctx context.Context, id string) error

	// In-memory storage for simple tests
	Profiles map[string]*domain.Profile
	nextID   int
}

// NewMockProfileRepository creates a new MockProfileRepository with initialized maps
func NewMockProfileRepository() *MockProfileRepository {
	return &MockProfileRepository{
		Profiles: make(map[string]*domain.Profile),
	}
}

func (m *MockProfileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, profile)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.Profiles {
		if p.Email == profile.Email {
			return domain.ErrEmailExists
		}
	}
	m.nextID++
	if profile.ID == "" {
		profile.ID = fmt.Sprintf("profile-%d", m.nextID)
	}
	m.Profiles[profile.ID] = profile
	return nil
}

func (m *MockProfileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	profile, ok := m.Profiles[id]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return profile, nil
}

func (m *MockProfileRepository) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.Profiles {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, domain.ErrProfileNotFound
}

func (m *MockProfileRepository) List(ctx context.Context) ([]*domain.Profile, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	profiles := make([]*domain.Profile, 0, len(m.Profiles))
	for _, p := range m.Profiles {
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func (m *MockProfileRepository) Update(ctx context.Context, profile *domain.Profile) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, profile)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.Profiles[profile.ID]; !ok {
		return domain.ErrProfileNotFound
	}
	m.Profiles[profile.ID] = profile
	return nil
}

func (m *MockProfileRepository) UpdatePicture(ctx context.Context, id, url string) error {
	if m.UpdatePictureFunc != nil {
		return m.UpdatePictureFunc(ctx, id, url)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	profile, ok := m.Profiles[id]
	if !ok {
		return domain.ErrProfileNotFound
	}
	profile.Pfp = url
	return nil
}

func (m *MockProfileRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, id, passwordHash)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	profile, ok := m.Profiles[id]
	if !ok {
		return domain.ErrProfileNotFound
	}
	profile.PasswordHash = passwordHash
	return nil
}

func (m *MockProfileRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.Profiles, id)
	return nil
}

// MockFeedRepository implements domain.FeedRepository for testing
type MockFeedRepository struct {
	mu sync.RWMutex

	CreatePostFunc         func(ctx context.Context, post *domain.UpdatePost) error
	CreateNotificationFunc func(ctx context.Context, notification *domain.Notification) error

	Posts         []*domain.UpdatePost
	Notifications []*domain.Notification
	nextID        int64
}

func NewMockFeedRepository() *MockFeedRepository {
	return &MockFeedRepository{}
}

func (m *MockFeedRepository) CreatePost(ctx context.Context, post *domain.UpdatePost) error {
	if m.CreatePostFunc != nil {
		return m.CreatePostFunc(ctx, post)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	post.ID = m.nextID
	m.Posts = append(m.Posts, post)
	return nil
}

func (m *MockFeedRepository) ListPosts(ctx context.Context) ([]*domain.UpdatePost, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.UpdatePost(nil), m.Posts...), nil
}

func (m *MockFeedRepository) DeletePost(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, p := range m.Posts {
		if p.ID == id {
			m.Posts = append(m.Posts[:i], m.Posts[i+1:]...)
			return nil
		}
	}
	return domain.ErrPostNotFound
}

func (m *MockFeedRepository) CreateNotification(ctx context.Context, notification *domain.Notification) error {
	if m.CreateNotificationFunc != nil {
		return m.CreateNotificationFunc(ctx, notification)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	notification.ID = m.nextID
	m.Notifications = append(m.Notifications, notification)
	return nil
}

func (m *MockFeedRepository) ListNotifications(ctx context.Context) ([]*domain.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.Notification(nil), m.Notifications...), nil
}

func (m *MockFeedRepository) MarkNotificationRead(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, n := range m.Notifications {
		if n.ID == id {
			n.Read = true
			return nil
		}
	}
	return domain.ErrNotificationNotFound
}

func (m *MockFeedRepository) DeleteNotification(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, n := range m.Notifications {
		if n.ID == id {
			m.Notifications = append(m.Notifications[:i], m.Notifications[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotificationNotFound
}

// MockAppConfigRepository implements domain.AppConfigRepository for testing
type MockAppConfigRepository struct {
	mu sync.RWMutex

	GetFunc func(ctx context.Context, key string) (json.RawMessage, error)
	SetFunc func(ctx context.Context, key string, value json.RawMessage) error

	Values map[string]json.RawMessage
}

func NewMockAppConfigRepository() *MockAppConfigRepository {
	return &MockAppConfigRepository{
		Values: make(map[string]json.RawMessage),
	}
}

func (m *MockAppConfigRepository) Get(ctx context.Context, key string) (json.RawMessage, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.Values[key]
	if !ok {
		return nil, domain.ErrConfigKeyNotFound
	}
	return value, nil
}

func (m *MockAppConfigRepository) Set(ctx context.Context, key string, value json.RawMessage) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Values[key] = value
	return nil
}

// MockEventPublisher records published feed events for assertions
type MockEventPublisher struct {
	mu sync.Mutex

	PublishFunc func(ctx context.Context, event *domain.FeedEvent) error

	Events []*domain.FeedEvent
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

func (m *MockEventPublisher) PublishFeedEvent(ctx context.Context, event *domain.FeedEvent) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Events = append(m.Events, event)
	return nil
}
