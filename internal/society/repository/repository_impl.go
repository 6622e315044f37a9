package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	societydomain "github.com/societyhq/societyhub/internal/society/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() societydomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, society *societydomain.Society) error {
	return db.WithContext(ctx).Create(society).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*societydomain.Society, error) {
	var society societydomain.Society
	err := db.WithContext(ctx).Where("id = ?", id).First(&society).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &society, nil
}

func (r *repo) FindByCode(ctx context.Context, db *gorm.DB, code string) (*societydomain.Society, error) {
	var society societydomain.Society
	err := db.WithContext(ctx).Where("society_code = ?", code).First(&society).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &society, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter societydomain.ListFilter) ([]*societydomain.Society, int64, error) {
	stmt := db.WithContext(ctx).Model(&societydomain.Society{})

	if status := strings.TrimSpace(filter.Status); status != "" {
		stmt = stmt.Where("status = ?", status)
	}
	if city := strings.TrimSpace(filter.City); city != "" {
		stmt = stmt.Where("city = ?", city)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		stmt = stmt.Where("society_name LIKE ? OR society_code LIKE ?", pattern, pattern)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var societies []*societydomain.Society
	stmt = stmt.Order("society_name asc").Offset(filter.Offset)
	if filter.Limit > 0 {
		stmt = stmt.Limit(filter.Limit)
	}
	if err := stmt.Find(&societies).Error; err != nil {
		return nil, 0, err
	}
	return societies, total, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, society *societydomain.Society) error {
	return db.WithContext(ctx).Save(society).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&societydomain.Society{}).Error
}

func (r *repo) RefreshMemberCount(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`UPDATE societies
		 SET total_members = (
		     SELECT COUNT(*) FROM members WHERE society_id = ? AND status = ?
		 )
		 WHERE id = ?`,
		id, "active", id,
	).Error
}
