package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Visitor is one gate entry. Check-in creates the row with a UUID gate
// pass; check-out stamps the exit and flips the status.
type Visitor struct {
	ID               snowflake.ID  `gorm:"column:id;primaryKey" json:"id"`
	SocietyID        snowflake.ID  `gorm:"column:society_id" json:"society_id"`
	MemberID         *snowflake.ID `gorm:"column:member_id" json:"member_id,omitempty"`
	FlatNumber       string        `gorm:"column:flat_number" json:"flat_number"`
	VisitorName      string        `gorm:"column:visitor_name" json:"visitor_name"`
	VisitorPhone     string        `gorm:"column:visitor_phone" json:"visitor_phone"`
	VisitorEmail     string        `gorm:"column:visitor_email" json:"visitor_email"`
	VisitorIDType    string        `gorm:"column:visitor_id_type" json:"visitor_id_type"`
	VisitorIDNumber  string        `gorm:"column:visitor_id_number" json:"visitor_id_number"`
	PurposeOfVisit   string        `gorm:"column:purpose_of_visit" json:"purpose_of_visit"`
	NumberOfVisitors int           `gorm:"column:number_of_visitors" json:"number_of_visitors"`
	VehicleNumber    string        `gorm:"column:vehicle_number" json:"vehicle_number"`
	VehicleType      string        `gorm:"column:vehicle_type" json:"vehicle_type"`
	GatePassCode     string        `gorm:"column:gate_pass_code" json:"gate_pass_code"`
	EntryTime        time.Time     `gorm:"column:entry_time" json:"entry_time"`
	EntryGate        string        `gorm:"column:entry_gate" json:"entry_gate"`
	ExitTime         *time.Time    `gorm:"column:exit_time" json:"exit_time,omitempty"`
	ExitGate         string        `gorm:"column:exit_gate" json:"exit_gate"`
	CheckedInBy      *snowflake.ID `gorm:"column:checked_in_by" json:"checked_in_by,omitempty"`
	CheckedOutBy     *snowflake.ID `gorm:"column:checked_out_by" json:"checked_out_by,omitempty"`
	Status           string        `gorm:"column:status" json:"status"`
	IsExpected       bool          `gorm:"column:is_expected" json:"is_expected"`
	CreatedBy        *snowflake.ID `gorm:"column:created_by" json:"created_by,omitempty"`
	UpdatedBy        *snowflake.ID `gorm:"column:updated_by" json:"updated_by,omitempty"`
	CreatedAt        time.Time     `gorm:"column:created_at" json:"created_at"`
	UpdatedAt        time.Time     `gorm:"column:updated_at" json:"updated_at"`
}

func (Visitor) TableName() string { return "visitors" }

// Visitor statuses.
const (
	StatusCheckedIn  = "checked_in"
	StatusCheckedOut = "checked_out"
)

// ListFilter narrows visitor listings.
type ListFilter struct {
	SocietyID  *snowflake.ID
	MemberID   *snowflake.ID
	Status     string
	FlatNumber string
	Search     string
	Offset     int
	Limit      int
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, visitor *Visitor) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Visitor, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]*Visitor, int64, error)
	Update(ctx context.Context, db *gorm.DB, visitor *Visitor) error
}
