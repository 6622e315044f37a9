package domain

import (
	"context"
	"errors"
	"time"

	"github.com/societyhq/societyhub/pkg/pagination"
)

type CreateSocietyRequest struct {
	SocietyName        string     `json:"society_name" binding:"required"`
	RegistrationNumber string     `json:"registration_number"`
	Address            string     `json:"address"`
	City               string     `json:"city"`
	State              string     `json:"state"`
	Country            string     `json:"country"`
	Pincode            string     `json:"pincode"`
	Phone              string     `json:"phone"`
	Email              string     `json:"email"`
	Website            string     `json:"website"`
	RegistrationDate   *time.Time `json:"registration_date"`
	TotalFlats         int        `json:"total_flats"`
	Description        string     `json:"description"`
}

type UpdateSocietyRequest struct {
	ID          string  `json:"-"`
	SocietyName *string `json:"society_name"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	State       *string `json:"state"`
	Country     *string `json:"country"`
	Pincode     *string `json:"pincode"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email"`
	Website     *string `json:"website"`
	TotalFlats  *int    `json:"total_flats"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

type ListSocietiesRequest struct {
	pagination.Pagination
	Status string `form:"status"`
	City   string `form:"city"`
	Search string `form:"search"`
}

type ListSocietiesResponse struct {
	Societies  []Society           `json:"societies"`
	Pagination pagination.PageInfo `json:"pagination"`
}

type Service interface {
	Create(ctx context.Context, req CreateSocietyRequest) (*Society, error)
	List(ctx context.Context, req ListSocietiesRequest) (ListSocietiesResponse, error)
	GetByID(ctx context.Context, id string) (*Society, error)
	Update(ctx context.Context, req UpdateSocietyRequest) (*Society, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidID     = errors.New("invalid_society_id")
	ErrInvalidName   = errors.New("invalid_society_name")
	ErrSocietyExists = errors.New("society_already_exists")
	ErrNotFound      = errors.New("society_not_found")
)
