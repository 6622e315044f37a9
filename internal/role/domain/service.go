package domain

import (
	"context"
	"errors"

	"github.com/societyhq/societyhub/pkg/pagination"
)

type CreateRoleRequest struct {
	RoleName       string `json:"role_name" binding:"required"`
	DisplayName    string `json:"display_name"`
	Description    string `json:"description"`
	HierarchyLevel int    `json:"hierarchy_level"`
	SocietyID      string `json:"society_id"`
	IsActive       *bool  `json:"is_active"`
}

type UpdateRoleRequest struct {
	ID             string `json:"-"`
	DisplayName    *string `json:"display_name"`
	Description    *string `json:"description"`
	HierarchyLevel *int    `json:"hierarchy_level"`
	IsActive       *bool   `json:"is_active"`
}

type ListRolesRequest struct {
	pagination.Pagination
	SocietyID string `form:"society_id"`
	IsActive  *bool  `form:"is_active"`
	Search    string `form:"search"`
}

type ListRolesResponse struct {
	Roles      []Role              `json:"roles"`
	Pagination pagination.PageInfo `json:"pagination"`
}

type SetRolePermissionRequest struct {
	RoleID       string `json:"role_id" binding:"required"`
	PermissionID string `json:"permission_id" binding:"required"`
	Granted      *bool  `json:"granted"`
}

type Service interface {
	Create(ctx context.Context, req CreateRoleRequest) (*Role, error)
	List(ctx context.Context, req ListRolesRequest) (ListRolesResponse, error)
	GetByID(ctx context.Context, id string) (*Role, error)
	Update(ctx context.Context, req UpdateRoleRequest) (*Role, error)
	Delete(ctx context.Context, id string) error

	SetPermission(ctx context.Context, req SetRolePermissionRequest) (*RolePermission, error)
	ListPermissions(ctx context.Context, roleID string) ([]RolePermission, error)
	RemovePermission(ctx context.Context, id string) error
}

var (
	ErrInvalidID           = errors.New("invalid_role_id")
	ErrInvalidRoleName     = errors.New("invalid_role_name")
	ErrRoleExists          = errors.New("role_already_exists")
	ErrNotFound            = errors.New("role_not_found")
	ErrGrantNotFound       = errors.New("role_permission_not_found")
	ErrSystemRoleProtected = errors.New("system_role_protected")
)
