package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Society is a tenant: one residential complex owning members, assets,
// bills, and visitors.
type Society struct {
	ID                 snowflake.ID  `gorm:"column:id;primaryKey" json:"id"`
	SocietyName        string        `gorm:"column:society_name" json:"society_name"`
	SocietyCode        string        `gorm:"column:society_code" json:"society_code"`
	RegistrationNumber string        `gorm:"column:registration_number" json:"registration_number"`
	Address            string        `gorm:"column:address" json:"address"`
	City               string        `gorm:"column:city" json:"city"`
	State              string        `gorm:"column:state" json:"state"`
	Country            string        `gorm:"column:country" json:"country"`
	Pincode            string        `gorm:"column:pincode" json:"pincode"`
	Phone              string        `gorm:"column:phone" json:"phone"`
	Email              string        `gorm:"column:email" json:"email"`
	Website            string        `gorm:"column:website" json:"website"`
	RegistrationDate   *time.Time    `gorm:"column:registration_date" json:"registration_date,omitempty"`
	TotalFlats         int           `gorm:"column:total_flats" json:"total_flats"`
	TotalMembers       int           `gorm:"column:total_members" json:"total_members"`
	Description        string        `gorm:"column:description" json:"description"`
	Status             string        `gorm:"column:status" json:"status"`
	CreatedBy          *snowflake.ID `gorm:"column:created_by" json:"created_by,omitempty"`
	UpdatedBy          *snowflake.ID `gorm:"column:updated_by" json:"updated_by,omitempty"`
	CreatedAt          time.Time     `gorm:"column:created_at" json:"created_at"`
	UpdatedAt          time.Time     `gorm:"column:updated_at" json:"updated_at"`
}

func (Society) TableName() string { return "societies" }

// ListFilter narrows society listings.
type ListFilter struct {
	Status string
	City   string
	Search string
	Offset int
	Limit  int
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, society *Society) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Society, error)
	FindByCode(ctx context.Context, db *gorm.DB, code string) (*Society, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]*Society, int64, error)
	Update(ctx context.Context, db *gorm.DB, society *Society) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	// RefreshMemberCount recounts active members into total_members.
	RefreshMemberCount(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
