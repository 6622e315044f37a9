package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	visitordomain "github.com/societyhq/societyhub/internal/visitor/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() visitordomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, visitor *visitordomain.Visitor) error {
	return db.WithContext(ctx).Create(visitor).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*visitordomain.Visitor, error) {
	var visitor visitordomain.Visitor
	err := db.WithContext(ctx).Where("id = ?", id).First(&visitor).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &visitor, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter visitordomain.ListFilter) ([]*visitordomain.Visitor, int64, error) {
	stmt := db.WithContext(ctx).Model(&visitordomain.Visitor{})

	if filter.SocietyID != nil {
		stmt = stmt.Where("society_id = ?", *filter.SocietyID)
	}
	if filter.MemberID != nil {
		stmt = stmt.Where("member_id = ?", *filter.MemberID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		stmt = stmt.Where("status = ?", status)
	}
	if flat := strings.TrimSpace(filter.FlatNumber); flat != "" {
		stmt = stmt.Where("flat_number = ?", flat)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		stmt = stmt.Where("visitor_name LIKE ? OR visitor_phone LIKE ?", pattern, pattern)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var visitors []*visitordomain.Visitor
	stmt = stmt.Order("entry_time desc, id desc").Offset(filter.Offset)
	if filter.Limit > 0 {
		stmt = stmt.Limit(filter.Limit)
	}
	if err := stmt.Find(&visitors).Error; err != nil {
		return nil, 0, err
	}
	return visitors, total, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, visitor *visitordomain.Visitor) error {
	return db.WithContext(ctx).Save(visitor).Error
}
