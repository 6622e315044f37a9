package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	userroledomain "github.com/societyhq/societyhub/internal/userrole/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() userroledomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, assignment *userroledomain.UserRole) error {
	return db.WithContext(ctx).Create(assignment).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*userroledomain.UserRole, error) {
	var assignment userroledomain.UserRole
	err := db.WithContext(ctx).Where("id = ?", id).First(&assignment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *repo) FindAssignment(ctx context.Context, db *gorm.DB, userID, roleID snowflake.ID, societyID *snowflake.ID) (*userroledomain.UserRole, error) {
	stmt := db.WithContext(ctx).
		Where("user_id = ? AND role_id = ?", userID, roleID)
	if societyID != nil {
		stmt = stmt.Where("society_id = ?", *societyID)
	} else {
		stmt = stmt.Where("society_id IS NULL")
	}

	var assignment userroledomain.UserRole
	err := stmt.First(&assignment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter userroledomain.ListFilter) ([]*userroledomain.UserRole, int64, error) {
	stmt := db.WithContext(ctx).Model(&userroledomain.UserRole{})

	if filter.UserID != nil {
		stmt = stmt.Where("user_id = ?", *filter.UserID)
	}
	if filter.RoleID != nil {
		stmt = stmt.Where("role_id = ?", *filter.RoleID)
	}
	if filter.SocietyID != nil {
		stmt = stmt.Where("society_id = ?", *filter.SocietyID)
	}
	if filter.IsActive != nil {
		stmt = stmt.Where("is_active = ?", *filter.IsActive)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var assignments []*userroledomain.UserRole
	stmt = stmt.Order("created_at desc, id desc").Offset(filter.Offset)
	if filter.Limit > 0 {
		stmt = stmt.Limit(filter.Limit)
	}
	if err := stmt.Find(&assignments).Error; err != nil {
		return nil, 0, err
	}
	return assignments, total, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, assignment *userroledomain.UserRole) error {
	return db.WithContext(ctx).Save(assignment).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&userroledomain.UserRole{}).Error
}
