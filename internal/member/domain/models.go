package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Member is a resident or owner unit within a society, optionally
// linked to a User login.
type Member struct {
	ID                  snowflake.ID  `gorm:"column:id;primaryKey" json:"id"`
	SocietyID           snowflake.ID  `gorm:"column:society_id" json:"society_id"`
	UserID              *snowflake.ID `gorm:"column:user_id" json:"user_id,omitempty"`
	MembershipNumber    string        `gorm:"column:membership_number" json:"membership_number"`
	FirstName           string        `gorm:"column:first_name" json:"first_name"`
	LastName            string        `gorm:"column:last_name" json:"last_name"`
	Email               string        `gorm:"column:email" json:"email"`
	Phone               string        `gorm:"column:phone" json:"phone"`
	FlatNumber          string        `gorm:"column:flat_number" json:"flat_number"`
	FloorNumber         string        `gorm:"column:floor_number" json:"floor_number"`
	BuildingName        string        `gorm:"column:building_name" json:"building_name"`
	Wing                string        `gorm:"column:wing" json:"wing"`
	MemberType          string        `gorm:"column:member_type" json:"member_type"`
	OwnershipPercentage float64       `gorm:"column:ownership_percentage" json:"ownership_percentage"`
	JoiningDate         *time.Time    `gorm:"column:joining_date" json:"joining_date,omitempty"`
	IsPrimaryMember     bool          `gorm:"column:is_primary_member" json:"is_primary_member"`
	Status              string        `gorm:"column:status" json:"status"`
	CreatedBy           *snowflake.ID `gorm:"column:created_by" json:"created_by,omitempty"`
	UpdatedBy           *snowflake.ID `gorm:"column:updated_by" json:"updated_by,omitempty"`
	CreatedAt           time.Time     `gorm:"column:created_at" json:"created_at"`
	UpdatedAt           time.Time     `gorm:"column:updated_at" json:"updated_at"`
}

func (Member) TableName() string { return "members" }

// ListFilter narrows member listings.
type ListFilter struct {
	SocietyID  *snowflake.ID
	Status     string
	MemberType string
	FlatNumber string
	Search     string
	Offset     int
	Limit      int
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, member *Member) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Member, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]*Member, int64, error)
	Update(ctx context.Context, db *gorm.DB, member *Member) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
