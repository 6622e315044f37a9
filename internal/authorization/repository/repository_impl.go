package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	authzdomain "github.com/societyhq/societyhub/internal/authorization/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() authzdomain.Repository {
	return &repo{}
}

func (r *repo) ActiveRoles(ctx context.Context, db *gorm.DB, userID snowflake.ID, societyID *snowflake.ID) ([]authzdomain.ActiveRole, error) {
	now := time.Now().UTC()

	stmt := db.WithContext(ctx).
		Table("user_roles ur").
		Select("ur.role_id, r.role_name, r.hierarchy_level, ur.society_id").
		Joins("JOIN roles r ON r.id = ur.role_id").
		Where("ur.user_id = ?", userID).
		Where("ur.is_active = ?", true).
		Where("ur.valid_until IS NULL OR ur.valid_until > ?", now).
		Where("r.is_active = ?", true)

	if societyID != nil {
		stmt = stmt.Where("ur.society_id IS NULL OR ur.society_id = ?", *societyID)
	}

	var roles []authzdomain.ActiveRole
	if err := stmt.Scan(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *repo) HasGrant(ctx context.Context, db *gorm.DB, roleIDs []snowflake.ID, permissionCode, permissionName string) (bool, error) {
	if len(roleIDs) == 0 {
		return false, nil
	}

	var count int64
	err := db.WithContext(ctx).
		Table("role_permissions rp").
		Joins("JOIN permissions p ON p.id = rp.permission_id").
		Where("rp.role_id IN ?", roleIDs).
		Where("rp.granted = ?", true).
		Where("p.permission_code = ? OR p.permission_name = ?", permissionCode, permissionName).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
