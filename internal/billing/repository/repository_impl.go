package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	billingdomain "github.com/societyhq/societyhub/internal/billing/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() billingdomain.Repository {
	return &repo{}
}

func (r *repo) InsertCharge(ctx context.Context, db *gorm.DB, charge *billingdomain.ChargeTemplate) error {
	return db.WithContext(ctx).Create(charge).Error
}

func (r *repo) FindChargeByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*billingdomain.ChargeTemplate, error) {
	var charge billingdomain.ChargeTemplate
	err := db.WithContext(ctx).Where("id = ?", id).First(&charge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &charge, nil
}

func (r *repo) ListCharges(ctx context.Context, db *gorm.DB, filter billingdomain.ChargeListFilter) ([]*billingdomain.ChargeTemplate, int64, error) {
	stmt := db.WithContext(ctx).Model(&billingdomain.ChargeTemplate{})

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

	var charges []*billingdomain.ChargeTemplate
	stmt = stmt.Order("charge_name asc, id asc").Offset(filter.Offset)
	if filter.Limit > 0 {
		stmt = stmt.Limit(filter.Limit)
	}
	if err := stmt.Find(&charges).Error; err != nil {
		return nil, 0, err
	}
	return charges, total, nil
}

func (r *repo) UpdateCharge(ctx context.Context, db *gorm.DB, charge *billingdomain.ChargeTemplate) error {
	return db.WithContext(ctx).Save(charge).Error
}

func (r *repo) DeleteCharge(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&billingdomain.ChargeTemplate{}).Error
}

func (r *repo) InsertBill(ctx context.Context, db *gorm.DB, bill *billingdomain.MaintenanceBill) error {
	return db.WithContext(ctx).Create(bill).Error
}

func (r *repo) FindBillByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*billingdomain.MaintenanceBill, error) {
	var bill billingdomain.MaintenanceBill
	err := db.WithContext(ctx).Where("id = ?", id).First(&bill).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bill, nil
}

func (r *repo) FindBillByIDForUpdate(ctx context.Context, db *gorm.DB, id snowflake.ID) (*billingdomain.MaintenanceBill, error) {
	stmt := db.WithContext(ctx)
	// SQLite has no SELECT ... FOR UPDATE; its writer lock covers the
	// transaction instead.
	if db.Dialector.Name() != "sqlite" {
		stmt = stmt.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var bill billingdomain.MaintenanceBill
	err := stmt.Where("id = ?", id).First(&bill).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bill, nil
}

func (r *repo) ListBills(ctx context.Context, db *gorm.DB, filter billingdomain.BillListFilter) ([]*billingdomain.MaintenanceBill, int64, error) {
	stmt := db.WithContext(ctx).Model(&billingdomain.MaintenanceBill{})

	if filter.SocietyID != nil {
		stmt = stmt.Where("society_id = ?", *filter.SocietyID)
	}
	if filter.MemberID != nil {
		stmt = stmt.Where("member_id = ?", *filter.MemberID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		stmt = stmt.Where("status = ?", status)
	}
	if month := strings.TrimSpace(filter.BillingMonth); month != "" {
		stmt = stmt.Where("billing_month = ?", month)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var bills []*billingdomain.MaintenanceBill
	stmt = stmt.Order("billing_month desc, created_at desc, id desc").Offset(filter.Offset)
	if filter.Limit > 0 {
		stmt = stmt.Limit(filter.Limit)
	}
	if err := stmt.Find(&bills).Error; err != nil {
		return nil, 0, err
	}
	return bills, total, nil
}

func (r *repo) UpdateBill(ctx context.Context, db *gorm.DB, bill *billingdomain.MaintenanceBill) error {
	return db.WithContext(ctx).Save(bill).Error
}

func (r *repo) DeleteBill(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&billingdomain.MaintenanceBill{}).Error
}

func (r *repo) SumItemAmounts(ctx context.Context, db *gorm.DB, billID snowflake.ID) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&billingdomain.MaintenanceBillItem{}).
		Where("bill_id = ?", billID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *repo) InsertItem(ctx context.Context, db *gorm.DB, item *billingdomain.MaintenanceBillItem) error {
	return db.WithContext(ctx).Create(item).Error
}

func (r *repo) FindItemByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*billingdomain.MaintenanceBillItem, error) {
	var item billingdomain.MaintenanceBillItem
	err := db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repo) ListItemsByBill(ctx context.Context, db *gorm.DB, billID snowflake.ID) ([]*billingdomain.MaintenanceBillItem, error) {
	var items []*billingdomain.MaintenanceBillItem
	err := db.WithContext(ctx).
		Where("bill_id = ?", billID).
		Order("created_at asc, id asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) UpdateItem(ctx context.Context, db *gorm.DB, item *billingdomain.MaintenanceBillItem) error {
	return db.WithContext(ctx).Save(item).Error
}

func (r *repo) DeleteItem(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&billingdomain.MaintenanceBillItem{}).Error
}

func (r *repo) DeleteItemsByBill(ctx context.Context, db *gorm.DB, billID snowflake.ID) error {
	return db.WithContext(ctx).Where("bill_id = ?", billID).Delete(&billingdomain.MaintenanceBillItem{}).Error
}
