package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	paymentdomain "github.com/societyhq/societyhub/internal/payment/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() paymentdomain.Repository {
	return &repo{}
}

func (r *repo) InsertPayment(ctx context.Context, db *gorm.DB, payment *paymentdomain.MaintenancePayment) error {
	return db.WithContext(ctx).Create(payment).Error
}

func (r *repo) FindPaymentByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*paymentdomain.MaintenancePayment, error) {
	var payment paymentdomain.MaintenancePayment
	err := db.WithContext(ctx).Where("id = ?", id).First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *repo) ListPayments(ctx context.Context, db *gorm.DB, filter paymentdomain.PaymentListFilter) ([]*paymentdomain.MaintenancePayment, int64, error) {
	stmt := db.WithContext(ctx).Model(&paymentdomain.MaintenancePayment{})

	if filter.BillID != nil {
		stmt = stmt.Where("bill_id = ?", *filter.BillID)
	}
	if filter.SocietyID != nil {
		stmt = stmt.Where("society_id = ?", *filter.SocietyID)
	}
	if filter.MemberID != nil {
		stmt = stmt.Where("member_id = ?", *filter.MemberID)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var payments []*paymentdomain.MaintenancePayment
	stmt = stmt.Order("payment_date desc, id desc").Offset(filter.Offset)
	if filter.Limit > 0 {
		stmt = stmt.Limit(filter.Limit)
	}
	if err := stmt.Find(&payments).Error; err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

func (r *repo) InsertMethod(ctx context.Context, db *gorm.DB, method *paymentdomain.PaymentMethod) error {
	return db.WithContext(ctx).Create(method).Error
}

func (r *repo) FindMethodByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*paymentdomain.PaymentMethod, error) {
	var method paymentdomain.PaymentMethod
	err := db.WithContext(ctx).Where("id = ?", id).First(&method).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &method, nil
}

func (r *repo) ListMethods(ctx context.Context, db *gorm.DB, filter paymentdomain.MethodListFilter) ([]*paymentdomain.PaymentMethod, int64, error) {
	stmt := db.WithContext(ctx).Model(&paymentdomain.PaymentMethod{})

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

	var methods []*paymentdomain.PaymentMethod
	stmt = stmt.Order("is_default desc, created_at desc, id desc").Offset(filter.Offset)
	if filter.Limit > 0 {
		stmt = stmt.Limit(filter.Limit)
	}
	if err := stmt.Find(&methods).Error; err != nil {
		return nil, 0, err
	}
	return methods, total, nil
}

func (r *repo) UpdateMethod(ctx context.Context, db *gorm.DB, method *paymentdomain.PaymentMethod) error {
	return db.WithContext(ctx).Save(method).Error
}

func (r *repo) DeleteMethod(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&paymentdomain.PaymentMethod{}).Error
}

func (r *repo) UnsetDefaultMethod(ctx context.Context, db *gorm.DB, societyID snowflake.ID, now time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE payment_methods
		 SET is_default = FALSE, updated_at = ?
		 WHERE society_id = ? AND is_default = TRUE`,
		now, societyID,
	).Error
}
