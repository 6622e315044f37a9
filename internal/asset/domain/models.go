package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Asset is a physical item owned by a society: lifts, pumps, CCTV,
// common-area furniture. Costs are stored in integer minor units.
type Asset struct {
	ID                  snowflake.ID  `gorm:"column:id;primaryKey" json:"id"`
	SocietyID           snowflake.ID  `gorm:"column:society_id" json:"society_id"`
	AssetName           string        `gorm:"column:asset_name" json:"asset_name"`
	AssetType           string        `gorm:"column:asset_type" json:"asset_type"`
	Category            string        `gorm:"column:category" json:"category"`
	Location            string        `gorm:"column:location" json:"location"`
	PurchaseDate        *time.Time    `gorm:"column:purchase_date" json:"purchase_date,omitempty"`
	PurchaseCost        int64         `gorm:"column:purchase_cost" json:"purchase_cost"`
	CurrentValue        int64         `gorm:"column:current_value" json:"current_value"`
	Condition           string        `gorm:"column:condition" json:"condition"`
	WarrantyUntil       *time.Time    `gorm:"column:warranty_until" json:"warranty_until,omitempty"`
	MaintenanceSchedule string        `gorm:"column:maintenance_schedule" json:"maintenance_schedule"`
	Status              string        `gorm:"column:status" json:"status"`
	Description         string        `gorm:"column:description" json:"description"`
	CreatedBy           *snowflake.ID `gorm:"column:created_by" json:"created_by,omitempty"`
	UpdatedBy           *snowflake.ID `gorm:"column:updated_by" json:"updated_by,omitempty"`
	CreatedAt           time.Time     `gorm:"column:created_at" json:"created_at"`
	UpdatedAt           time.Time     `gorm:"column:updated_at" json:"updated_at"`
}

func (Asset) TableName() string { return "assets" }

// ListFilter narrows asset listings.
type ListFilter struct {
	SocietyID *snowflake.ID
	AssetType string
	Category  string
	Status    string
	Search    string
	Offset    int
	Limit     int
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, asset *Asset) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Asset, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]*Asset, int64, error)
	Update(ctx context.Context, db *gorm.DB, asset *Asset) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
