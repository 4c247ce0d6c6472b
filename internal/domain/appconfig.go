package domain

import (
	"context"
	"encoding/json"
	"errors"
)

var ErrConfigKeyNotFound = errors.New("config key not found")

// Well-known config keys.
const (
	ConfigPermissions    = "permissions"
	ConfigNotifications  = "notifications"
	ConfigSeedMarker     = "app_seeded_v3"
	ConfigLoginImageURL  = "login_screen_image_url"
)

// AppConfigRepository is a key/JSON-value store for application settings
// (role permissions, default notifications, the seed marker).
type AppConfigRepository interface {
	Get(ctx context.Context, key string) (json.RawMessage, error)
	Set(ctx context.Context, key string, value json.RawMessage) error
}
