package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrAssetNotFound          = errors.New("asset not found")
	ErrExternalSystemNotFound = errors.New("external system not found")
)

// Asset statuses.
const (
	AssetInUse       = "Em Uso"
	AssetMaintenance = "Em Manutenção"
	AssetDamaged     = "Danificado"
	AssetDiscarded   = "Descartado"
)

// MaintenanceRecord is one entry of an asset's maintenance log, stored as
// JSON alongside the asset row.
type MaintenanceRecord struct {
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Cost        float64   `json:"cost"`
}

// Asset is an inventoried company asset, optionally assigned to an employee.
type Asset struct {
	ID                   int64               `json:"id"`
	Name                 string              `json:"name"`
	Description          string              `json:"description"`
	PurchaseDate         time.Time           `json:"purchaseDate"`
	PurchaseValue        float64             `json:"purchaseValue"`
	Location             string              `json:"location"`
	Status               string              `json:"status"`
	AssignedToEmployeeID *int64              `json:"assignedToEmployeeId,omitempty"`
	MaintenanceLog       []MaintenanceRecord `json:"maintenanceLog"`
}

// ExternalSystem is a registered third-party system the company integrates
// with (accounting, procurement, inventory).
type ExternalSystem struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	APIURL      string `json:"apiUrl"`
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
}

type AssetRepository interface {
	Create(ctx context.Context, asset *Asset) error
	List(ctx context.Context) ([]*Asset, error)
	Update(ctx context.Context, asset *Asset) error
	Delete(ctx context.Context, id int64) error
}

type ExternalSystemRepository interface {
	Create(ctx context.Context, system *ExternalSystem) error
	List(ctx context.Context) ([]*ExternalSystem, error)
	Update(ctx context.Context, system *ExternalSystem) error
	Delete(ctx context.Context, id int64) error
}
