package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	memberdomain "github.com/societyhq/societyhub/internal/member/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() memberdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, member *memberdomain.Member) error {
	return db.WithContext(ctx).Create(member).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*memberdomain.Member, error) {
	var member memberdomain.Member
	err := db.WithContext(ctx).Where("id = ?", id).First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter memberdomain.ListFilter) ([]*memberdomain.Member, int64, error) {
	stmt := db.WithContext(ctx).Model(&memberdomain.Member{})

	if filter.SocietyID != nil {
		stmt = stmt.Where("society_id = ?", *filter.SocietyID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		stmt = stmt.Where("status = ?", status)
	}
	if memberType := strings.TrimSpace(filter.MemberType); memberType != "" {
		stmt = stmt.Where("member_type = ?", memberType)
	}
	if flat := strings.TrimSpace(filter.FlatNumber); flat != "" {
		stmt = stmt.Where("flat_number = ?", flat)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		stmt = stmt.Where("first_name LIKE ? OR last_name LIKE ? OR membership_number LIKE ?",
			pattern, pattern, pattern)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var members []*memberdomain.Member
	stmt = stmt.Order("flat_number asc, last_name asc").Offset(filter.Offset)
	if filter.Limit > 0 {
		stmt = stmt.Limit(filter.Limit)
	}
	if err := stmt.Find(&members).Error; err != nil {
		return nil, 0, err
	}
	return members, total, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, member *memberdomain.Member) error {
	return db.WithContext(ctx).Save(member).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&memberdomain.Member{}).Error
}
