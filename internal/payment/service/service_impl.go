package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	auditdomain "github.com/societyhq/societyhub/internal/audit/domain"
	billingdomain "github.com/societyhq/societyhub/internal/billing/domain"
	"github.com/societyhq/societyhub/internal/clock"
	"github.com/societyhq/societyhub/internal/config"
	"github.com/societyhq/societyhub/internal/db"
	paymentdomain "github.com/societyhq/societyhub/internal/payment/domain"
	"github.com/societyhq/societyhub/internal/requestctx"
	"github.com/societyhq/societyhub/pkg/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Clock       clock.Clock
	GenID       *snowflake.Node
	Settings    *config.BillingSettingsHolder
	Repo        paymentdomain.Repository
	BillingRepo billingdomain.Repository
	BillingSvc  billingdomain.Service
	AuditSvc    auditdomain.Service `optional:"true"`
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	clock       clock.Clock
	genID       *snowflake.Node
	settings    *config.BillingSettingsHolder
	repo        paymentdomain.Repository
	billingRepo billingdomain.Repository
	billingSvc  billingdomain.Service
	auditSvc    auditdomain.Service
}

func NewService(p Params) paymentdomain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("payment.service"),
		clock:       p.Clock,
		genID:       p.GenID,
		settings:    p.Settings,
		repo:        p.Repo,
		billingRepo: p.BillingRepo,
		billingSvc:  p.BillingSvc,
		auditSvc:    p.AuditSvc,
	}
}

func (s *Service) ProcessMaintenancePayment(ctx context.Context, req paymentdomain.ProcessPaymentRequest) (*paymentdomain.ProcessPaymentResponse, error) {
	billID, err := snowflake.ParseString(strings.TrimSpace(req.BillID))
	if err != nil {
		return nil, paymentdomain.ErrInvalidID
	}
	if req.PaymentAmount <= 0 {
		return nil, paymentdomain.ErrInvalidAmount
	}

	now := s.clock.Now()
	paymentDate := now
	if req.PaymentDate != nil {
		paymentDate = *req.PaymentDate
	}

	payment := &paymentdomain.MaintenancePayment{
		ID:               s.genID.Generate(),
		BillID:           billID,
		PaymentAmount:    req.PaymentAmount,
		PaymentDate:      paymentDate,
		PaymentMethod:    strings.TrimSpace(req.PaymentMethod),
		PaymentReference: strings.TrimSpace(req.PaymentReference),
		PaymentStatus:    "completed",
		ReceiptNumber:    s.nextReceiptNumber(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if actorID, ok := requestctx.UserIDFromContext(ctx); ok {
		payment.ReceivedBy = &actorID
		payment.CreatedBy = &actorID
	}

	var bill *billingdomain.MaintenanceBill
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locked, err := s.billingRepo.FindBillByIDForUpdate(ctx, tx, billID)
		if err != nil {
			return err
		}
		if locked == nil {
			return billingdomain.ErrBillNotFound
		}

		payment.SocietyID = locked.SocietyID
		payment.MemberID = locked.MemberID
		if err := s.repo.InsertPayment(ctx, tx, payment); err != nil {
			return err
		}

		locked.PaidAmount += req.PaymentAmount
		locked.UpdatedAt = now
		if err := s.billingRepo.UpdateBill(ctx, tx, locked); err != nil {
			return err
		}

		bill, err = s.billingSvc.Recompute(ctx, tx, billID)
		return err
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			// receipt collision is astronomically unlikely; surface it
			return nil, fmt.Errorf("receipt number conflict: %w", err)
		}
		return nil, err
	}

	s.emitAudit(ctx, "create", "maintenance_payment", payment.ID, "Maintenance payment recorded", map[string]any{
		"bill_id":        billID.String(),
		"receipt_number": payment.ReceiptNumber,
		"payment_amount": payment.PaymentAmount,
		"bill_status":    bill.Status,
	})

	return &paymentdomain.ProcessPaymentResponse{
		Payment: *payment,
		Bill:    *bill,
	}, nil
}

func (s *Service) ListPayments(ctx context.Context, req paymentdomain.ListPaymentsRequest) (paymentdomain.ListPaymentsResponse, error) {
	filter := paymentdomain.PaymentListFilter{
		Offset: req.Offset(),
		Limit:  req.Normalize().Limit,
	}
	if trimmed := strings.TrimSpace(req.BillID); trimmed != "" {
		billID, err := snowflake.ParseString(trimmed)
		if err != nil {
			return paymentdomain.ListPaymentsResponse{}, paymentdomain.ErrInvalidID
		}
		filter.BillID = &billID
	}
	if trimmed := strings.TrimSpace(req.SocietyID); trimmed != "" {
		societyID, err := snowflake.ParseString(trimmed)
		if err != nil {
			return paymentdomain.ListPaymentsResponse{}, paymentdomain.ErrInvalidID
		}
		filter.SocietyID = &societyID
	}
	if trimmed := strings.TrimSpace(req.MemberID); trimmed != "" {
		memberID, err := snowflake.ParseString(trimmed)
		if err != nil {
			return paymentdomain.ListPaymentsResponse{}, paymentdomain.ErrInvalidID
		}
		filter.MemberID = &memberID
	}

	items, total, err := s.repo.ListPayments(ctx, s.db, filter)
	if err != nil {
		return paymentdomain.ListPaymentsResponse{}, err
	}

	payments := make([]paymentdomain.MaintenancePayment, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		payments = append(payments, *item)
	}

	return paymentdomain.ListPaymentsResponse{
		Payments:   payments,
		Pagination: pagination.BuildPageInfo(req.Pagination, total),
	}, nil
}

func (s *Service) GetPaymentByID(ctx context.Context, id string) (*paymentdomain.MaintenancePayment, error) {
	paymentID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, paymentdomain.ErrInvalidID
	}

	payment, err := s.repo.FindPaymentByID(ctx, s.db, paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, paymentdomain.ErrPaymentNotFound
	}
	return payment, nil
}

func (s *Service) CreateMethod(ctx context.Context, req paymentdomain.CreateMethodRequest) (*paymentdomain.PaymentMethod, error) {
	societyID, err := snowflake.ParseString(strings.TrimSpace(req.SocietyID))
	if err != nil {
		return nil, paymentdomain.ErrInvalidID
	}

	now := s.clock.Now()
	method := &paymentdomain.PaymentMethod{
		ID:                 s.genID.Generate(),
		SocietyID:          societyID,
		PaymentType:        strings.TrimSpace(req.PaymentType),
		Provider:           strings.TrimSpace(req.Provider),
		AccountHolderName:  strings.TrimSpace(req.AccountHolderName),
		AccountNumberLast4: strings.TrimSpace(req.AccountNumberLast4),
		ExpiryDate:         req.ExpiryDate,
		IsDefault:          req.IsDefault,
		IsActive:           true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if actorID, ok := requestctx.UserIDFromContext(ctx); ok {
		method.CreatedBy = &actorID
		method.UpdatedBy = &actorID
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.IsDefault {
			if err := s.repo.UnsetDefaultMethod(ctx, tx, societyID, now); err != nil {
				return err
			}
		}
		return s.repo.InsertMethod(ctx, tx, method)
	})
	if err != nil {
		return nil, err
	}

	s.emitAudit(ctx, "create", "payment_method", method.ID, "Payment method registered", map[string]any{
		"society_id":   method.SocietyID.String(),
		"payment_type": method.PaymentType,
		"is_default":   method.IsDefault,
	})
	return method, nil
}

func (s *Service) ListMethods(ctx context.Context, req paymentdomain.ListMethodsRequest) (paymentdomain.ListMethodsResponse, error) {
	filter := paymentdomain.MethodListFilter{
		IsActive: req.IsActive,
		Offset:   req.Offset(),
		Limit:    req.Normalize().Limit,
	}
	if trimmed := strings.TrimSpace(req.SocietyID); trimmed != "" {
		societyID, err := snowflake.ParseString(trimmed)
		if err != nil {
			return paymentdomain.ListMethodsResponse{}, paymentdomain.ErrInvalidID
		}
		filter.SocietyID = &societyID
	}

	items, total, err := s.repo.ListMethods(ctx, s.db, filter)
	if err != nil {
		return paymentdomain.ListMethodsResponse{}, err
	}

	methods := make([]paymentdomain.PaymentMethod, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		methods = append(methods, *item)
	}

	return paymentdomain.ListMethodsResponse{
		Methods:    methods,
		Pagination: pagination.BuildPageInfo(req.Pagination, total),
	}, nil
}

func (s *Service) GetMethodByID(ctx context.Context, id string) (*paymentdomain.PaymentMethod, error) {
	methodID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, paymentdomain.ErrInvalidID
	}

	method, err := s.repo.FindMethodByID(ctx, s.db, methodID)
	if err != nil {
		return nil, err
	}
	if method == nil {
		return nil, paymentdomain.ErrMethodNotFound
	}
	return method, nil
}

func (s *Service) UpdateMethod(ctx context.Context, req paymentdomain.UpdateMethodRequest) (*paymentdomain.PaymentMethod, error) {
	method, err := s.GetMethodByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.PaymentType != nil {
		method.PaymentType = strings.TrimSpace(*req.PaymentType)
	}
	if req.Provider != nil {
		method.Provider = strings.TrimSpace(*req.Provider)
	}
	if req.AccountHolderName != nil {
		method.AccountHolderName = strings.TrimSpace(*req.AccountHolderName)
	}
	if req.AccountNumberLast4 != nil {
		method.AccountNumberLast4 = strings.TrimSpace(*req.AccountNumberLast4)
	}
	if req.ExpiryDate != nil {
		method.ExpiryDate = req.ExpiryDate
	}
	if req.IsActive != nil {
		method.IsActive = *req.IsActive
	}
	method.UpdatedAt = s.clock.Now()
	if actorID, ok := requestctx.UserIDFromContext(ctx); ok {
		method.UpdatedBy = &actorID
	}

	if err := s.repo.UpdateMethod(ctx, s.db, method); err != nil {
		return nil, err
	}

	s.emitAudit(ctx, "update", "payment_method", method.ID, "Payment method updated", map[string]any{
		"payment_type": method.PaymentType,
	})
	return method, nil
}

func (s *Service) DeleteMethod(ctx context.Context, id string) error {
	method, err := s.GetMethodByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteMethod(ctx, s.db, method.ID); err != nil {
		return err
	}

	s.emitAudit(ctx, "delete", "payment_method", method.ID, "Payment method removed", map[string]any{
		"society_id": method.SocietyID.String(),
	})
	return nil
}

func (s *Service) SetDefaultMethod(ctx context.Context, id string) (*paymentdomain.PaymentMethod, error) {
	method, err := s.GetMethodByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.UnsetDefaultMethod(ctx, tx, method.SocietyID, now); err != nil {
			return err
		}
		method.IsDefault = true
		method.UpdatedAt = now
		return s.repo.UpdateMethod(ctx, tx, method)
	})
	if err != nil {
		return nil, err
	}

	s.emitAudit(ctx, "update", "payment_method", method.ID, "Default payment method set", map[string]any{
		"society_id": method.SocietyID.String(),
	})
	return method, nil
}

func (s *Service) nextReceiptNumber() string {
	prefix := strings.TrimSpace(s.settings.Get().ReceiptPrefix)
	if prefix == "" {
		prefix = "RCP"
	}
	return fmt.Sprintf("%s-%s", prefix, ulid.Make().String())
}

func (s *Service) emitAudit(ctx context.Context, action, resourceType string, resourceID snowflake.ID, description string, metadata map[string]any) {
	if s.auditSvc == nil {
		return
	}
	id := resourceID
	_ = s.auditSvc.AuditLog(ctx, nil, action, resourceType, &id, description, metadata)
}
