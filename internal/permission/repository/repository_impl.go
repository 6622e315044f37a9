package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	permissiondomain "github.com/societyhq/societyhub/internal/permission/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() permissiondomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, permission *permissiondomain.Permission) error {
	return db.WithContext(ctx).Create(permission).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*permissiondomain.Permission, error) {
	var permission permissiondomain.Permission
	err := db.WithContext(ctx).Where("id = ?", id).First(&permission).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &permission, nil
}

func (r *repo) FindByResourceAction(ctx context.Context, db *gorm.DB, resource, action string) (*permissiondomain.Permission, error) {
	var permission permissiondomain.Permission
	err := db.WithContext(ctx).
		Where("resource = ? AND action = ?", resource, action).
		First(&permission).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &permission, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter permissiondomain.ListFilter) ([]*permissiondomain.Permission, int64, error) {
	stmt := db.WithContext(ctx).Model(&permissiondomain.Permission{})

	if resource := strings.TrimSpace(filter.Resource); resource != "" {
		stmt = stmt.Where("resource = ?", resource)
	}
	if action := strings.TrimSpace(filter.Action); action != "" {
		stmt = stmt.Where("action = ?", action)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		stmt = stmt.Where("permission_name LIKE ? OR permission_code LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var permissions []*permissiondomain.Permission
	stmt = stmt.Order("resource asc, action asc").Offset(filter.Offset)
	if filter.Limit > 0 {
		stmt = stmt.Limit(filter.Limit)
	}
	if err := stmt.Find(&permissions).Error; err != nil {
		return nil, 0, err
	}
	return permissions, total, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, permission *permissiondomain.Permission) error {
	return db.WithContext(ctx).Save(permission).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&permissiondomain.Permission{}).Error
}
