package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/societyhq/societyhub/internal/audit/domain"
	billingdomain "github.com/societyhq/societyhub/internal/billing/domain"
	"github.com/societyhq/societyhub/internal/clock"
	"github.com/societyhq/societyhub/internal/db"
	"github.com/societyhq/societyhub/internal/requestctx"
	"github.com/societyhq/societyhub/pkg/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Clock    clock.Clock
	GenID    *snowflake.Node
	Repo     billingdomain.Repository
	AuditSvc auditdomain.Service `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	clock    clock.Clock
	genID    *snowflake.Node
	repo     billingdomain.Repository
	auditSvc auditdomain.Service
}

func NewService(p Params) billingdomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("billing.service"),
		clock:    p.Clock,
		genID:    p.GenID,
		repo:     p.Repo,
		auditSvc: p.AuditSvc,
	}
}

func (s *Service) CreateCharge(ctx context.Context, req billingdomain.CreateChargeRequest) (*billingdomain.ChargeTemplate, error) {
	societyID, err := snowflake.ParseString(strings.TrimSpace(req.SocietyID))
	if err != nil {
		return nil, billingdomain.ErrInvalidID
	}
	name := strings.TrimSpace(req.ChargeName)
	if name == "" {
		return nil, billingdomain.ErrInvalidChargeName
	}

	now := s.clock.Now()
	charge := &billingdomain.ChargeTemplate{
		ID:             s.genID.Generate(),
		SocietyID:      societyID,
		ChargeName:     name,
		ChargeType:     strings.TrimSpace(req.ChargeType),
		BaseAmount:     req.BaseAmount,
		PerUnitRate:    req.PerUnitRate,
		UnitType:       strings.TrimSpace(req.UnitType),
		IsActive:       true,
		IsRecurring:    req.IsRecurring,
		ApplicableTo:   strings.TrimSpace(req.ApplicableTo),
		EffectiveFrom:  req.EffectiveFrom,
		EffectiveUntil: req.EffectiveUntil,
		Description:    strings.TrimSpace(req.Description),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if actorID, ok := requestctx.UserIDFromContext(ctx); ok {
		charge.CreatedBy = &actorID
		charge.UpdatedBy = &actorID
	}

	if err := s.repo.InsertCharge(ctx, s.db, charge); err != nil {
		if db.IsForeignKeyErr(err) {
			return nil, billingdomain.ErrInvalidReference
		}
		return nil, err
	}

	s.emitAudit(ctx, "create", "charge_template", charge.ID, "Charge template created", map[string]any{
		"charge_name": charge.ChargeName,
		"society_id":  charge.SocietyID.String(),
	})
	return charge, nil
}

func (s *Service) ListCharges(ctx context.Context, req billingdomain.ListChargesRequest) (billingdomain.ListChargesResponse, error) {
	filter := billingdomain.ChargeListFilter{
		IsActive: req.IsActive,
		Offset:   req.Offset(),
		Limit:    req.Normalize().Limit,
	}
	if trimmed := strings.TrimSpace(req.SocietyID); trimmed != "" {
		societyID, err := snowflake.ParseString(trimmed)
		if err != nil {
			return billingdomain.ListChargesResponse{}, billingdomain.ErrInvalidID
		}
		filter.SocietyID = &societyID
	}

	items, total, err := s.repo.ListCharges(ctx, s.db, filter)
	if err != nil {
		return billingdomain.ListChargesResponse{}, err
	}

	charges := make([]billingdomain.ChargeTemplate, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		charges = append(charges, *item)
	}

	return billingdomain.ListChargesResponse{
		Charges:    charges,
		Pagination: pagination.BuildPageInfo(req.Pagination, total),
	}, nil
}

func (s *Service) GetChargeByID(ctx context.Context, id string) (*billingdomain.ChargeTemplate, error) {
	chargeID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, billingdomain.ErrInvalidID
	}

	charge, err := s.repo.FindChargeByID(ctx, s.db, chargeID)
	if err != nil {
		return nil, err
	}
	if charge == nil {
		return nil, billingdomain.ErrChargeNotFound
	}
	return charge, nil
}

func (s *Service) UpdateCharge(ctx context.Context, req billingdomain.UpdateChargeRequest) (*billingdomain.ChargeTemplate, error) {
	charge, err := s.GetChargeByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.ChargeName != nil {
		name := strings.TrimSpace(*req.ChargeName)
		if name == "" {
			return nil, billingdomain.ErrInvalidChargeName
		}
		charge.ChargeName = name
	}
	if req.ChargeType != nil {
		charge.ChargeType = strings.TrimSpace(*req.ChargeType)
	}
	if req.BaseAmount != nil {
		charge.BaseAmount = *req.BaseAmount
	}
	if req.PerUnitRate != nil {
		charge.PerUnitRate = *req.PerUnitRate
	}
	if req.UnitType != nil {
		charge.UnitType = strings.TrimSpace(*req.UnitType)
	}
	if req.IsActive != nil {
		charge.IsActive = *req.IsActive
	}
	if req.IsRecurring != nil {
		charge.IsRecurring = *req.IsRecurring
	}
	if req.ApplicableTo != nil {
		charge.ApplicableTo = strings.TrimSpace(*req.ApplicableTo)
	}
	if req.EffectiveFrom != nil {
		charge.EffectiveFrom = req.EffectiveFrom
	}
	if req.EffectiveUntil != nil {
		charge.EffectiveUntil = req.EffectiveUntil
	}
	if req.Description != nil {
		charge.Description = strings.TrimSpace(*req.Description)
	}
	charge.UpdatedAt = s.clock.Now()
	if actorID, ok := requestctx.UserIDFromContext(ctx); ok {
		charge.UpdatedBy = &actorID
	}

	if err := s.repo.UpdateCharge(ctx, s.db, charge); err != nil {
		return nil, err
	}

	s.emitAudit(ctx, "update", "charge_template", charge.ID, "Charge template updated", map[string]any{
		"charge_name": charge.ChargeName,
	})
	return charge, nil
}

func (s *Service) DeleteCharge(ctx context.Context, id string) error {
	charge, err := s.GetChargeByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteCharge(ctx, s.db, charge.ID); err != nil {
		return err
	}

	s.emitAudit(ctx, "delete", "charge_template", charge.ID, "Charge template deleted", map[string]any{
		"charge_name": charge.ChargeName,
	})
	return nil
}

func (s *Service) CreateBill(ctx context.Context, req billingdomain.CreateBillRequest) (*billingdomain.BillDetail, error) {
	societyID, err := snowflake.ParseString(strings.TrimSpace(req.SocietyID))
	if err != nil {
		return nil, billingdomain.ErrInvalidID
	}
	memberID, err := snowflake.ParseString(strings.TrimSpace(req.MemberID))
	if err != nil {
		return nil, billingdomain.ErrInvalidID
	}
	month := strings.TrimSpace(req.BillingMonth)
	if _, err := time.Parse("2006-01", month); err != nil {
		return nil, billingdomain.ErrInvalidBillingMonth
	}

	now := s.clock.Now()
	bill := &billingdomain.MaintenanceBill{
		ID:           s.genID.Generate(),
		SocietyID:    societyID,
		MemberID:     memberID,
		BillNumber:   s.nextBillNumber(month),
		BillingMonth: month,
		DueDate:      req.DueDate,
		Status:       billingdomain.BillStatusPending,
		Notes:        strings.TrimSpace(req.Notes),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if actorID, ok := requestctx.UserIDFromContext(ctx); ok {
		bill.CreatedBy = &actorID
		bill.UpdatedBy = &actorID
	}

	items := make([]*billingdomain.MaintenanceBillItem, 0, len(req.Items))
	for _, input := range req.Items {
		item, err := s.buildItem(bill.ID, input, now)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.InsertBill(ctx, tx, bill); err != nil {
			return err
		}
		for _, item := range items {
			if err := s.repo.InsertItem(ctx, tx, item); err != nil {
				return err
			}
		}
		if len(items) > 0 {
			updated, err := s.Recompute(ctx, tx, bill.ID)
			if err != nil {
				return err
			}
			*bill = *updated
		}
		return nil
	})
	if err != nil {
		if db.IsForeignKeyErr(err) {
			return nil, billingdomain.ErrInvalidReference
		}
		return nil, err
	}

	s.emitAudit(ctx, "create", "maintenance_bill", bill.ID, "Maintenance bill created", map[string]any{
		"bill_number":   bill.BillNumber,
		"billing_month": bill.BillingMonth,
		"total_amount":  bill.TotalAmount,
	})

	detail := &billingdomain.BillDetail{MaintenanceBill: *bill}
	for _, item := range items {
		detail.Items = append(detail.Items, *item)
	}
	return detail, nil
}

func (s *Service) ListBills(ctx context.Context, req billingdomain.ListBillsRequest) (billingdomain.ListBillsResponse, error) {
	filter := billingdomain.BillListFilter{
		Status:       req.Status,
		BillingMonth: req.BillingMonth,
		Offset:       req.Offset(),
		Limit:        req.Normalize().Limit,
	}
	if trimmed := strings.TrimSpace(req.SocietyID); trimmed != "" {
		societyID, err := snowflake.ParseString(trimmed)
		if err != nil {
			return billingdomain.ListBillsResponse{}, billingdomain.ErrInvalidID
		}
		filter.SocietyID = &societyID
	}
	if trimmed := strings.TrimSpace(req.MemberID); trimmed != "" {
		memberID, err := snowflake.ParseString(trimmed)
		if err != nil {
			return billingdomain.ListBillsResponse{}, billingdomain.ErrInvalidID
		}
		filter.MemberID = &memberID
	}

	items, total, err := s.repo.ListBills(ctx, s.db, filter)
	if err != nil {
		return billingdomain.ListBillsResponse{}, err
	}

	bills := make([]billingdomain.MaintenanceBill, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		bills = append(bills, *item)
	}

	return billingdomain.ListBillsResponse{
		Bills:      bills,
		Pagination: pagination.BuildPageInfo(req.Pagination, total),
	}, nil
}

func (s *Service) GetBillByID(ctx context.Context, id string) (*billingdomain.BillDetail, error) {
	billID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, billingdomain.ErrInvalidID
	}

	bill, err := s.repo.FindBillByID(ctx, s.db, billID)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, billingdomain.ErrBillNotFound
	}

	items, err := s.repo.ListItemsByBill(ctx, s.db, billID)
	if err != nil {
		return nil, err
	}

	detail := &billingdomain.BillDetail{MaintenanceBill: *bill}
	for _, item := range items {
		if item == nil {
			continue
		}
		detail.Items = append(detail.Items, *item)
	}
	return detail, nil
}

func (s *Service) UpdateBill(ctx context.Context, req billingdomain.UpdateBillRequest) (*billingdomain.MaintenanceBill, error) {
	billID, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, billingdomain.ErrInvalidID
	}

	bill, err := s.repo.FindBillByID(ctx, s.db, billID)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, billingdomain.ErrBillNotFound
	}

	if req.DueDate != nil {
		bill.DueDate = req.DueDate
	}
	if req.Notes != nil {
		bill.Notes = strings.TrimSpace(*req.Notes)
	}
	bill.UpdatedAt = s.clock.Now()
	if actorID, ok := requestctx.UserIDFromContext(ctx); ok {
		bill.UpdatedBy = &actorID
	}

	if err := s.repo.UpdateBill(ctx, s.db, bill); err != nil {
		return nil, err
	}

	s.emitAudit(ctx, "update", "maintenance_bill", bill.ID, "Maintenance bill updated", map[string]any{
		"bill_number": bill.BillNumber,
	})
	return bill, nil
}

func (s *Service) DeleteBill(ctx context.Context, id string) error {
	billID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return billingdomain.ErrInvalidID
	}

	bill, err := s.repo.FindBillByID(ctx, s.db, billID)
	if err != nil {
		return err
	}
	if bill == nil {
		return billingdomain.ErrBillNotFound
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.DeleteItemsByBill(ctx, tx, billID); err != nil {
			return err
		}
		return s.repo.DeleteBill(ctx, tx, billID)
	})
	if err != nil {
		return err
	}

	s.emitAudit(ctx, "delete", "maintenance_bill", bill.ID, "Maintenance bill deleted", map[string]any{
		"bill_number": bill.BillNumber,
	})
	return nil
}

func (s *Service) AddBillItem(ctx context.Context, req billingdomain.AddBillItemRequest) (*billingdomain.MaintenanceBillItem, error) {
	billID, err := snowflake.ParseString(strings.TrimSpace(req.BillID))
	if err != nil {
		return nil, billingdomain.ErrInvalidID
	}

	item, err := s.buildItem(billID, req.BillItemInput, s.clock.Now())
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bill, err := s.repo.FindBillByIDForUpdate(ctx, tx, billID)
		if err != nil {
			return err
		}
		if bill == nil {
			return billingdomain.ErrBillNotFound
		}
		if err := s.repo.InsertItem(ctx, tx, item); err != nil {
			return err
		}
		_, err = s.Recompute(ctx, tx, billID)
		return err
	})
	if err != nil {
		if db.IsForeignKeyErr(err) {
			return nil, billingdomain.ErrInvalidReference
		}
		return nil, err
	}

	s.emitAudit(ctx, "create", "maintenance_bill_item", item.ID, "Bill item added", map[string]any{
		"bill_id":     billID.String(),
		"charge_name": item.ChargeName,
		"amount":      item.Amount,
	})
	return item, nil
}

func (s *Service) UpdateBillItem(ctx context.Context, req billingdomain.UpdateBillItemRequest) (*billingdomain.MaintenanceBillItem, error) {
	itemID, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, billingdomain.ErrInvalidID
	}

	item, err := s.repo.FindItemByID(ctx, s.db, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, billingdomain.ErrBillItemNotFound
	}

	if req.ChargeName != nil {
		name := strings.TrimSpace(*req.ChargeName)
		if name == "" {
			return nil, billingdomain.ErrInvalidChargeName
		}
		item.ChargeName = name
	}
	if req.Description != nil {
		item.Description = strings.TrimSpace(*req.Description)
	}
	if req.Quantity != nil {
		if *req.Quantity <= 0 {
			return nil, billingdomain.ErrInvalidAmount
		}
		item.Quantity = *req.Quantity
	}
	if req.UnitRate != nil {
		item.UnitRate = *req.UnitRate
	}
	switch {
	case req.Amount != nil:
		item.Amount = *req.Amount
	case req.Quantity != nil || req.UnitRate != nil:
		item.Amount = int64(item.Quantity) * item.UnitRate
	}
	if item.Amount < 0 {
		return nil, billingdomain.ErrInvalidAmount
	}
	item.UpdatedAt = s.clock.Now()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.UpdateItem(ctx, tx, item); err != nil {
			return err
		}
		_, err := s.Recompute(ctx, tx, item.BillID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.emitAudit(ctx, "update", "maintenance_bill_item", item.ID, "Bill item updated", map[string]any{
		"bill_id": item.BillID.String(),
		"amount":  item.Amount,
	})
	return item, nil
}

func (s *Service) DeleteBillItem(ctx context.Context, id string) error {
	itemID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return billingdomain.ErrInvalidID
	}

	item, err := s.repo.FindItemByID(ctx, s.db, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return billingdomain.ErrBillItemNotFound
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.DeleteItem(ctx, tx, itemID); err != nil {
			return err
		}
		_, err := s.Recompute(ctx, tx, item.BillID)
		return err
	})
	if err != nil {
		return err
	}

	s.emitAudit(ctx, "delete", "maintenance_bill_item", item.ID, "Bill item removed", map[string]any{
		"bill_id": item.BillID.String(),
	})
	return nil
}

// Recompute reloads the bill inside tx, replaces total_amount with the
// item sum, derives pending_amount and status, and persists the result.
func (s *Service) Recompute(ctx context.Context, tx *gorm.DB, billID snowflake.ID) (*billingdomain.MaintenanceBill, error) {
	bill, err := s.repo.FindBillByID(ctx, tx, billID)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, billingdomain.ErrBillNotFound
	}

	total, err := s.repo.SumItemAmounts(ctx, tx, billID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	bill.TotalAmount = total
	bill.PendingAmount = total - bill.PaidAmount
	bill.Status = billingdomain.StatusFor(total, bill.PaidAmount)
	if bill.Status == billingdomain.BillStatusPaid {
		if bill.PaidAt == nil {
			bill.PaidAt = &now
		}
	} else {
		bill.PaidAt = nil
	}
	bill.UpdatedAt = now

	if err := s.repo.UpdateBill(ctx, tx, bill); err != nil {
		return nil, err
	}
	return bill, nil
}

func (s *Service) buildItem(billID snowflake.ID, input billingdomain.BillItemInput, now time.Time) (*billingdomain.MaintenanceBillItem, error) {
	name := strings.TrimSpace(input.ChargeName)
	if name == "" {
		return nil, billingdomain.ErrInvalidChargeName
	}

	quantity := input.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	amount := int64(quantity) * input.UnitRate
	if input.Amount != nil {
		amount = *input.Amount
	}
	if amount < 0 {
		return nil, billingdomain.ErrInvalidAmount
	}

	item := &billingdomain.MaintenanceBillItem{
		ID:          s.genID.Generate(),
		BillID:      billID,
		ChargeName:  name,
		Description: strings.TrimSpace(input.Description),
		Quantity:    quantity,
		UnitRate:    input.UnitRate,
		Amount:      amount,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if trimmed := strings.TrimSpace(input.ChargeID); trimmed != "" {
		chargeID, err := snowflake.ParseString(trimmed)
		if err != nil {
			return nil, billingdomain.ErrInvalidID
		}
		item.ChargeID = &chargeID
	}
	return item, nil
}

func (s *Service) nextBillNumber(month string) string {
	compact := strings.ReplaceAll(month, "-", "")
	return fmt.Sprintf("BILL-%s-%s", compact, s.genID.Generate().String())
}

func (s *Service) emitAudit(ctx context.Context, action, resourceType string, resourceID snowflake.ID, description string, metadata map[string]any) {
	if s.auditSvc == nil {
		return
	}
	id := resourceID
	_ = s.auditSvc.AuditLog(ctx, nil, action, resourceType, &id, description, metadata)
}
