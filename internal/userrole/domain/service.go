package domain

import (
	"context"
	"errors"
	"time"

	"github.com/societyhq/societyhub/pkg/pagination"
)

type AssignRequest struct {
	UserID     string     `json:"user_id" binding:"required"`
	RoleID     string     `json:"role_id" binding:"required"`
	SocietyID  string     `json:"society_id"`
	ValidFrom  *time.Time `json:"valid_from"`
	ValidUntil *time.Time `json:"valid_until"`
}

type ListUserRolesRequest struct {
	pagination.Pagination
	UserID    string `form:"user_id"`
	RoleID    string `form:"role_id"`
	SocietyID string `form:"society_id"`
	IsActive  *bool  `form:"is_active"`
}

type ListUserRolesResponse struct {
	UserRoles  []UserRole          `json:"user_roles"`
	Pagination pagination.PageInfo `json:"pagination"`
}

type Service interface {
	// Assign grants a role to a user. Society-scoped assignments require
	// the actor to administer that society; global assignments require
	// superAdmin.
	Assign(ctx context.Context, req AssignRequest) (*UserRole, error)
	List(ctx context.Context, req ListUserRolesRequest) (ListUserRolesResponse, error)
	GetByID(ctx context.Context, id string) (*UserRole, error)
	// Revoke deactivates an assignment without deleting it.
	Revoke(ctx context.Context, id string) (*UserRole, error)
	// Delete removes a mis-assignment outright.
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidID        = errors.New("invalid_user_role_id")
	ErrNotFound         = errors.New("user_role_not_found")
	ErrAlreadyAssigned  = errors.New("role_already_assigned")
	ErrAlreadyRevoked   = errors.New("user_role_already_revoked")
	ErrInvalidWindow    = errors.New("invalid_validity_window")
	ErrScopeNotAllowed  = errors.New("society_scope_not_allowed")
	ErrRoleNotFound     = errors.New("assigned_role_not_found")
)
