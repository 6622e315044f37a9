package domain

import (
	"context"
	"errors"

	"github.com/societyhq/societyhub/pkg/pagination"
)

type CreatePermissionRequest struct {
	Resource    string `json:"resource" binding:"required"`
	Action      string `json:"action" binding:"required"`
	Description string `json:"description"`
}

type UpdatePermissionRequest struct {
	ID          string  `json:"-"`
	Description *string `json:"description"`
}

type ListPermissionsRequest struct {
	pagination.Pagination
	Resource string `form:"resource"`
	Action   string `form:"action"`
	Search   string `form:"search"`
}

type ListPermissionsResponse struct {
	Permissions []Permission        `json:"permissions"`
	Pagination  pagination.PageInfo `json:"pagination"`
}

type Service interface {
	Create(ctx context.Context, req CreatePermissionRequest) (*Permission, error)
	List(ctx context.Context, req ListPermissionsRequest) (ListPermissionsResponse, error)
	GetByID(ctx context.Context, id string) (*Permission, error)
	Update(ctx context.Context, req UpdatePermissionRequest) (*Permission, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidID                 = errors.New("invalid_permission_id")
	ErrInvalidResource           = errors.New("invalid_resource")
	ErrInvalidAction             = errors.New("invalid_permission_action")
	ErrPermissionExists          = errors.New("permission_already_exists")
	ErrNotFound                  = errors.New("permission_not_found")
	ErrSystemPermissionProtected = errors.New("system_permission_protected")
)
