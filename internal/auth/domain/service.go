package domain

import (
	"context"
	"errors"

	"github.com/societyhq/societyhub/pkg/pagination"
)

type RegisterRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type UpdateUserRequest struct {
	ID        string  `json:"-"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	Status    *string `json:"status"`
}

type ListUsersRequest struct {
	pagination.Pagination
	Status string `form:"status"`
	Search string `form:"search"`
}

type ListUsersResponse struct {
	Users      []User              `json:"users"`
	Pagination pagination.PageInfo `json:"pagination"`
}

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Me(ctx context.Context) (*User, error)

	List(ctx context.Context, req ListUsersRequest) (ListUsersResponse, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Update(ctx context.Context, req UpdateUserRequest) (*User, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidID          = errors.New("invalid_user_id")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrUserExists         = errors.New("user_already_exists")
	ErrNotFound           = errors.New("user_not_found")
	ErrAccountLocked      = errors.New("account_locked")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrWeakPassword       = errors.New("weak_password")
)
