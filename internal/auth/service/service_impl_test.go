package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	auditdomain "github.com/societyhq/societyhub/internal/audit/domain"
	authdomain "github.com/societyhq/societyhub/internal/auth/domain"
	"github.com/societyhq/societyhub/internal/auth/repository"
	"github.com/societyhq/societyhub/internal/auth/token"
	"github.com/societyhq/societyhub/internal/clock"
	"github.com/societyhq/societyhub/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type auditStub struct{}

func (auditStub) AuditLog(context.Context, *snowflake.ID, string, string, *snowflake.ID, string, map[string]any) error {
	return nil
}

func (auditStub) List(context.Context, auditdomain.ListAuditLogRequest) (auditdomain.ListAuditLogResponse, error) {
	return auditdomain.ListAuditLogResponse{}, nil
}

func setupAuthService(t *testing.T, lockoutThreshold int) (*Service, *gorm.DB) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&authdomain.User{}))

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	issuer, err := token.NewIssuer(config.Config{
		JWTSecret:    "test-secret",
		JWTExpiresIn: time.Hour,
	})
	require.NoError(t, err)

	settings := config.NewStaticBillingSettingsHolder(config.BillingSettings{
		Currency:             "INR",
		ReceiptPrefix:        "RCP",
		LockoutThreshold:     lockoutThreshold,
		LockoutWindowMinutes: 30,
	})

	svc := &Service{
		db:       conn,
		log:      zaptest.NewLogger(t),
		clock:    clock.NewSystemClock(),
		genID:    node,
		repo:     repository.Provide(),
		issuer:   issuer,
		settings: settings,
		auditSvc: auditStub{},
	}
	return svc, conn
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := setupAuthService(t, 5)
	ctx := context.Background()

	user, err := svc.Register(ctx, authdomain.RegisterRequest{
		Username: "asha",
		Email:    "Asha@Example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", user.Email)
	assert.Equal(t, authdomain.StatusPendingVerification, user.Status)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)

	_, err = svc.Register(ctx, authdomain.RegisterRequest{
		Username: "asha2",
		Email:    "asha@example.com",
		Password: "correct-horse",
	})
	assert.ErrorIs(t, err, authdomain.ErrUserExists)

	_, err = svc.Register(ctx, authdomain.RegisterRequest{
		Username: "short",
		Email:    "short@example.com",
		Password: "tiny",
	})
	assert.ErrorIs(t, err, authdomain.ErrWeakPassword)

	resp, err := svc.Login(ctx, authdomain.LoginRequest{
		Email:    "asha@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	userID, email, err := svc.issuer.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
	assert.Equal(t, user.Email, email)

	_, err = svc.Login(ctx, authdomain.LoginRequest{
		Email:    "nobody@example.com",
		Password: "correct-horse",
	})
	assert.ErrorIs(t, err, authdomain.ErrInvalidCredentials)
}

func TestLoginLockoutAfterRepeatedFailures(t *testing.T) {
	threshold := 3
	svc, conn := setupAuthService(t, threshold)
	ctx := context.Background()

	_, err := svc.Register(ctx, authdomain.RegisterRequest{
		Username: "ravi",
		Email:    "ravi@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	for i := 0; i < threshold; i++ {
		_, err := svc.Login(ctx, authdomain.LoginRequest{
			Email:    "ravi@example.com",
			Password: "wrong",
		})
		assert.ErrorIs(t, err, authdomain.ErrInvalidCredentials)
	}

	// Even the correct password is refused while the lock holds.
	_, err = svc.Login(ctx, authdomain.LoginRequest{
		Email:    "ravi@example.com",
		Password: "correct-horse",
	})
	assert.ErrorIs(t, err, authdomain.ErrAccountLocked)

	var user authdomain.User
	require.NoError(t, conn.Where("email = ?", "ravi@example.com").First(&user).Error)
	assert.Equal(t, threshold, user.FailedLoginAttempts)
	require.NotNil(t, user.AccountLockedUntil)
	assert.True(t, user.AccountLockedUntil.After(time.Now().UTC()))
}

func TestLoginResetsFailureCounter(t *testing.T) {
	svc, conn := setupAuthService(t, 5)
	ctx := context.Background()

	_, err := svc.Register(ctx, authdomain.RegisterRequest{
		Username: "mira",
		Email:    "mira@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := svc.Login(ctx, authdomain.LoginRequest{
			Email:    "mira@example.com",
			Password: "wrong",
		})
		assert.ErrorIs(t, err, authdomain.ErrInvalidCredentials)
	}

	_, err = svc.Login(ctx, authdomain.LoginRequest{
		Email:    "mira@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	var user authdomain.User
	require.NoError(t, conn.Where("email = ?", "mira@example.com").First(&user).Error)
	assert.Zero(t, user.FailedLoginAttempts)
	assert.Nil(t, user.AccountLockedUntil)
	assert.NotNil(t, user.LastLogin)
}
