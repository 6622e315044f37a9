package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/societyhq/societyhub/internal/auth/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() authdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, user *authdomain.User) error {
	return db.WithContext(ctx).Create(user).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*authdomain.User, error) {
	var user authdomain.User
	err := db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repo) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*authdomain.User, error) {
	var user authdomain.User
	err := db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repo) FindByUsername(ctx context.Context, db *gorm.DB, username string) (*authdomain.User, error) {
	var user authdomain.User
	err := db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter authdomain.ListFilter) ([]*authdomain.User, int64, error) {
	stmt := db.WithContext(ctx).Model(&authdomain.User{})

	if status := strings.TrimSpace(filter.Status); status != "" {
		stmt = stmt.Where("status = ?", status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		stmt = stmt.Where("username LIKE ? OR email LIKE ? OR first_name LIKE ? OR last_name LIKE ?",
			pattern, pattern, pattern, pattern)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []*authdomain.User
	stmt = stmt.Order("created_at desc, id desc").Offset(filter.Offset)
	if filter.Limit > 0 {
		stmt = stmt.Limit(filter.Limit)
	}
	if err := stmt.Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, user *authdomain.User) error {
	return db.WithContext(ctx).Save(user).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&authdomain.User{}).Error
}

func (r *repo) RecordLoginFailure(ctx context.Context, db *gorm.DB, id snowflake.ID, threshold int, lockUntil time.Time) (int, error) {
	// Single conditional UPDATE so concurrent failures cannot lose
	// increments or race past the lockout threshold.
	err := db.WithContext(ctx).Exec(
		`UPDATE users
		 SET failed_login_attempts = failed_login_attempts + 1,
		     account_locked_until = CASE
		         WHEN failed_login_attempts + 1 >= ? THEN ?
		         ELSE account_locked_until
		     END,
		     updated_at = ?
		 WHERE id = ?`,
		threshold,
		lockUntil,
		time.Now().UTC(),
		id,
	).Error
	if err != nil {
		return 0, err
	}

	var attempts int
	err = db.WithContext(ctx).Model(&authdomain.User{}).
		Select("failed_login_attempts").
		Where("id = ?", id).
		Scan(&attempts).Error
	if err != nil {
		return 0, err
	}
	return attempts, nil
}

func (r *repo) ResetLoginFailures(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time, ip string) error {
	updates := map[string]any{
		"failed_login_attempts": 0,
		"account_locked_until":  nil,
		"last_login":            at,
		"updated_at":            at,
	}
	if ip != "" {
		updates["last_login_ip"] = ip
	}
	return db.WithContext(ctx).Model(&authdomain.User{}).
		Where("id = ?", id).
		Updates(updates).Error
}
