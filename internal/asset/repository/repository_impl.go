package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	assetdomain "github.com/societyhq/societyhub/internal/asset/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() assetdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, asset *assetdomain.Asset) error {
	return db.WithContext(ctx).Create(asset).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*assetdomain.Asset, error) {
	var asset assetdomain.Asset
	err := db.WithContext(ctx).Where("id = ?", id).First(&asset).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter assetdomain.ListFilter) ([]*assetdomain.Asset, int64, error) {
	stmt := db.WithContext(ctx).Model(&assetdomain.Asset{})

	if filter.SocietyID != nil {
		stmt = stmt.Where("society_id = ?", *filter.SocietyID)
	}
	if assetType := strings.TrimSpace(filter.AssetType); assetType != "" {
		stmt = stmt.Where("asset_type = ?", assetType)
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		stmt = stmt.Where("category = ?", category)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		stmt = stmt.Where("status = ?", status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		stmt = stmt.Where("asset_name LIKE ? OR location LIKE ?", pattern, pattern)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var assets []*assetdomain.Asset
	stmt = stmt.Order("asset_name asc").Offset(filter.Offset)
	if filter.Limit > 0 {
		stmt = stmt.Limit(filter.Limit)
	}
	if err := stmt.Find(&assets).Error; err != nil {
		return nil, 0, err
	}
	return assets, total, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, asset *assetdomain.Asset) error {
	return db.WithContext(ctx).Save(asset).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&assetdomain.Asset{}).Error
}
