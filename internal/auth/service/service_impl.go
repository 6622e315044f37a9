package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/societyhq/societyhub/internal/audit/domain"
	authdomain "github.com/societyhq/societyhub/internal/auth/domain"
	"github.com/societyhq/societyhub/internal/auth/password"
	"github.com/societyhq/societyhub/internal/auth/token"
	"github.com/societyhq/societyhub/internal/clock"
	"github.com/societyhq/societyhub/internal/config"
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
	Repo     authdomain.Repository
	Issuer   *token.Issuer
	Settings *config.BillingSettingsHolder
	AuditSvc auditdomain.Service
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	clock    clock.Clock
	genID    *snowflake.Node
	repo     authdomain.Repository
	issuer   *token.Issuer
	settings *config.BillingSettingsHolder
	auditSvc auditdomain.Service
}

func NewService(p Params) authdomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("auth.service"),
		clock:    p.Clock,
		genID:    p.GenID,
		repo:     p.Repo,
		issuer:   p.Issuer,
		settings: p.Settings,
		auditSvc: p.AuditSvc,
	}
}

func (s *Service) Register(ctx context.Context, req authdomain.RegisterRequest) (*authdomain.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if len(req.Password) < 8 {
		return nil, authdomain.ErrWeakPassword
	}

	if existing, err := s.repo.FindByEmail(ctx, s.db, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, authdomain.ErrUserExists
	}
	if existing, err := s.repo.FindByUsername(ctx, s.db, username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, authdomain.ErrUserExists
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	user := &authdomain.User{
		ID:           s.genID.Generate(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Phone:        strings.TrimSpace(req.Phone),
		Status:       authdomain.StatusPendingVerification,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Insert(ctx, s.db, user); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, authdomain.ErrUserExists
		}
		return nil, err
	}

	userID := user.ID
	_ = s.auditSvc.AuditLog(ctx, &userID, "create", "user", &userID, "User registered", nil)
	return user, nil
}

func (s *Service) Login(ctx context.Context, req authdomain.LoginRequest) (*authdomain.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.repo.FindByEmail(ctx, s.db, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, authdomain.ErrInvalidCredentials
	}

	now := s.clock.Now()
	if user.AccountLockedUntil != nil && user.AccountLockedUntil.After(now) {
		return nil, authdomain.ErrAccountLocked
	}

	if !password.Verify(req.Password, user.PasswordHash) {
		settings := s.settings.Get()
		lockUntil := now.Add(time.Duration(settings.LockoutWindowMinutes) * time.Minute)
		attempts, ferr := s.repo.RecordLoginFailure(ctx, s.db, user.ID, settings.LockoutThreshold, lockUntil)
		if ferr != nil {
			s.log.Warn("failed to record login failure",
				zap.String("user_id", user.ID.String()), zap.Error(ferr))
		} else if attempts >= settings.LockoutThreshold {
			userID := user.ID
			_ = s.auditSvc.AuditLog(ctx, &userID, "update", "user", &userID, "Account locked after failed logins", map[string]any{
				"failed_attempts": attempts,
			})
		}
		return nil, authdomain.ErrInvalidCredentials
	}

	ip := requestctx.ClientIPFromContext(ctx)
	if err := s.repo.ResetLoginFailures(ctx, s.db, user.ID, now, ip); err != nil {
		s.log.Warn("failed to reset login failures",
			zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	signed, err := s.issuer.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	user.FailedLoginAttempts = 0
	user.AccountLockedUntil = nil
	user.LastLogin = &now

	userID := user.ID
	_ = s.auditSvc.AuditLog(ctx, &userID, "login", "user", &userID, "User logged in", nil)

	return &authdomain.LoginResponse{Token: signed, User: user}, nil
}

func (s *Service) Me(ctx context.Context) (*authdomain.User, error) {
	userID, ok := requestctx.UserIDFromContext(ctx)
	if !ok || userID == 0 {
		return nil, authdomain.ErrUnauthenticated
	}

	user, err := s.repo.FindByID(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, authdomain.ErrNotFound
	}
	return user, nil
}

func (s *Service) List(ctx context.Context, req authdomain.ListUsersRequest) (authdomain.ListUsersResponse, error) {
	items, total, err := s.repo.List(ctx, s.db, authdomain.ListFilter{
		Status: req.Status,
		Search: req.Search,
		Offset: req.Offset(),
		Limit:  req.Normalize().Limit,
	})
	if err != nil {
		return authdomain.ListUsersResponse{}, err
	}

	users := make([]authdomain.User, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		users = append(users, *item)
	}

	return authdomain.ListUsersResponse{
		Users:      users,
		Pagination: pagination.BuildPageInfo(req.Pagination, total),
	}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*authdomain.User, error) {
	userID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, authdomain.ErrInvalidID
	}

	user, err := s.repo.FindByID(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, authdomain.ErrNotFound
	}
	return user, nil
}

func (s *Service) Update(ctx context.Context, req authdomain.UpdateUserRequest) (*authdomain.User, error) {
	user, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Phone != nil {
		user.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Status != nil {
		user.Status = strings.TrimSpace(*req.Status)
	}
	user.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, user); err != nil {
		return nil, err
	}

	resourceID := user.ID
	_ = s.auditSvc.AuditLog(ctx, nil, "update", "user", &resourceID, "User updated", nil)
	return user, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, s.db, user.ID); err != nil {
		return err
	}

	resourceID := user.ID
	_ = s.auditSvc.AuditLog(ctx, nil, "delete", "user", &resourceID, "User deleted", nil)
	return nil
}
