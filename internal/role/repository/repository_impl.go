package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	roledomain "github.com/societyhq/societyhub/internal/role/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() roledomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, role *roledomain.Role) error {
	return db.WithContext(ctx).Create(role).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*roledomain.Role, error) {
	var role roledomain.Role
	err := db.WithContext(ctx).Where("id = ?", id).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *repo) FindByName(ctx context.Context, db *gorm.DB, name string) (*roledomain.Role, error) {
	var role roledomain.Role
	err := db.WithContext(ctx).Where("role_name = ?", name).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter roledomain.ListFilter) ([]*roledomain.Role, int64, error) {
	stmt := db.WithContext(ctx).Model(&roledomain.Role{})

	if filter.SocietyID != nil {
		stmt = stmt.Where("society_id = ?", *filter.SocietyID)
	}
	if filter.IsActive != nil {
		stmt = stmt.Where("is_active = ?", *filter.IsActive)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		stmt = stmt.Where("role_name LIKE ? OR display_name LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var roles []*roledomain.Role
	stmt = stmt.Order("hierarchy_level desc, role_name asc").Offset(filter.Offset)
	if filter.Limit > 0 {
		stmt = stmt.Limit(filter.Limit)
	}
	if err := stmt.Find(&roles).Error; err != nil {
		return nil, 0, err
	}
	return roles, total, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, role *roledomain.Role) error {
	return db.WithContext(ctx).Save(role).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&roledomain.Role{}).Error
}

func (r *repo) UpsertRolePermission(ctx context.Context, db *gorm.DB, grant *roledomain.RolePermission) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "role_id"}, {Name: "permission_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"granted":    grant.Granted,
			"updated_at": grant.UpdatedAt,
		}),
	}).Create(grant).Error
}

func (r *repo) ListRolePermissions(ctx context.Context, db *gorm.DB, roleID snowflake.ID) ([]*roledomain.RolePermission, error) {
	var grants []*roledomain.RolePermission
	err := db.WithContext(ctx).
		Where("role_id = ?", roleID).
		Order("created_at asc").
		Find(&grants).Error
	if err != nil {
		return nil, err
	}
	return grants, nil
}

func (r *repo) DeleteRolePermission(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&roledomain.RolePermission{}).Error
}

func (r *repo) FindRolePermission(ctx context.Context, db *gorm.DB, id snowflake.ID) (*roledomain.RolePermission, error) {
	var grant roledomain.RolePermission
	err := db.WithContext(ctx).Where("id = ?", id).First(&grant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &grant, nil
}
