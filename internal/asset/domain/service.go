package domain

import (
	"context"
	"errors"
	"time"

	"github.com/societyhq/societyhub/pkg/pagination"
)

type CreateAssetRequest struct {
	SocietyID           string     `json:"society_id" binding:"required"`
	AssetName           string     `json:"asset_name" binding:"required"`
	AssetType           string     `json:"asset_type"`
	Category            string     `json:"category"`
	Location            string     `json:"location"`
	PurchaseDate        *time.Time `json:"purchase_date"`
	PurchaseCost        int64      `json:"purchase_cost"`
	CurrentValue        int64      `json:"current_value"`
	Condition           string     `json:"condition"`
	WarrantyUntil       *time.Time `json:"warranty_until"`
	MaintenanceSchedule string     `json:"maintenance_schedule"`
	Description         string     `json:"description"`
}

type UpdateAssetRequest struct {
	ID                  string  `json:"-"`
	AssetName           *string `json:"asset_name"`
	AssetType           *string `json:"asset_type"`
	Category            *string `json:"category"`
	Location            *string `json:"location"`
	PurchaseCost        *int64  `json:"purchase_cost"`
	CurrentValue        *int64  `json:"current_value"`
	Condition           *string `json:"condition"`
	MaintenanceSchedule *string `json:"maintenance_schedule"`
	Status              *string `json:"status"`
	Description         *string `json:"description"`
}

type ListAssetsRequest struct {
	pagination.Pagination
	SocietyID string `form:"society_id"`
	AssetType string `form:"asset_type"`
	Category  string `form:"category"`
	Status    string `form:"status"`
	Search    string `form:"search"`
}

type ListAssetsResponse struct {
	Assets     []Asset             `json:"assets"`
	Pagination pagination.PageInfo `json:"pagination"`
}

type Service interface {
	Create(ctx context.Context, req CreateAssetRequest) (*Asset, error)
	List(ctx context.Context, req ListAssetsRequest) (ListAssetsResponse, error)
	GetByID(ctx context.Context, id string) (*Asset, error)
	Update(ctx context.Context, req UpdateAssetRequest) (*Asset, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidID   = errors.New("invalid_asset_id")
	ErrInvalidName = errors.New("invalid_asset_name")
	ErrNotFound    = errors.New("asset_not_found")
)
