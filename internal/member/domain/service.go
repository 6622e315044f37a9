package domain

import (
	"context"
	"errors"
	"time"

	"github.com/societyhq/societyhub/pkg/pagination"
)

type CreateMemberRequest struct {
	SocietyID           string     `json:"society_id" binding:"required"`
	UserID              string     `json:"user_id"`
	MembershipNumber    string     `json:"membership_number" binding:"required"`
	FirstName           string     `json:"first_name" binding:"required"`
	LastName            string     `json:"last_name" binding:"required"`
	Email               string     `json:"email"`
	Phone               string     `json:"phone"`
	FlatNumber          string     `json:"flat_number"`
	FloorNumber         string     `json:"floor_number"`
	BuildingName        string     `json:"building_name"`
	Wing                string     `json:"wing"`
	MemberType          string     `json:"member_type"`
	OwnershipPercentage *float64   `json:"ownership_percentage"`
	JoiningDate         *time.Time `json:"joining_date"`
	IsPrimaryMember     bool       `json:"is_primary_member"`
}

type UpdateMemberRequest struct {
	ID              string  `json:"-"`
	FirstName       *string `json:"first_name"`
	LastName        *string `json:"last_name"`
	Email           *string `json:"email"`
	Phone           *string `json:"phone"`
	FlatNumber      *string `json:"flat_number"`
	FloorNumber     *string `json:"floor_number"`
	BuildingName    *string `json:"building_name"`
	Wing            *string `json:"wing"`
	MemberType      *string `json:"member_type"`
	IsPrimaryMember *bool   `json:"is_primary_member"`
	Status          *string `json:"status"`
}

type ListMembersRequest struct {
	pagination.Pagination
	SocietyID  string `form:"society_id"`
	Status     string `form:"status"`
	MemberType string `form:"member_type"`
	FlatNumber string `form:"flat_number"`
	Search     string `form:"search"`
}

type ListMembersResponse struct {
	Members    []Member            `json:"members"`
	Pagination pagination.PageInfo `json:"pagination"`
}

type Service interface {
	Create(ctx context.Context, req CreateMemberRequest) (*Member, error)
	List(ctx context.Context, req ListMembersRequest) (ListMembersResponse, error)
	GetByID(ctx context.Context, id string) (*Member, error)
	Update(ctx context.Context, req UpdateMemberRequest) (*Member, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidID       = errors.New("invalid_member_id")
	ErrInvalidName     = errors.New("invalid_member_name")
	ErrMemberExists    = errors.New("member_already_exists")
	ErrNotFound        = errors.New("member_not_found")
	ErrSocietyNotFound = errors.New("member_society_not_found")
)
