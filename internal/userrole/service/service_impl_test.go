package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	authzdomain "github.com/societyhq/societyhub/internal/authorization/domain"
	authzrepository "github.com/societyhq/societyhub/internal/authorization/repository"
	authzservice "github.com/societyhq/societyhub/internal/authorization/service"
	"github.com/societyhq/societyhub/internal/clock"
	"github.com/societyhq/societyhub/internal/requestctx"
	roledomain "github.com/societyhq/societyhub/internal/role/domain"
	rolerepository "github.com/societyhq/societyhub/internal/role/repository"
	userroledomain "github.com/societyhq/societyhub/internal/userrole/domain"
	"github.com/societyhq/societyhub/internal/userrole/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type userRoleFixture struct {
	svc   *Service
	conn  *gorm.DB
	node  *snowflake.Node
	clock *clock.FakeClock
}

func setupUserRoleService(t *testing.T) *userRoleFixture {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&roledomain.Role{},
		&userroledomain.UserRole{},
	))

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2026, time.January, 15, 10, 0, 0, 0, time.UTC))
	log := zaptest.NewLogger(t)

	authzSvc := authzservice.NewService(authzservice.Params{
		DB:   conn,
		Log:  log,
		Repo: authzrepository.Provide(),
	})

	svc := &Service{
		db:       conn,
		log:      log,
		clock:    fake,
		genID:    node,
		repo:     repository.Provide(),
		roleRepo: rolerepository.Provide(),
		authzSvc: authzSvc,
	}
	return &userRoleFixture{svc: svc, conn: conn, node: node, clock: fake}
}

func (f *userRoleFixture) createRole(t *testing.T, name string) *roledomain.Role {
	t.Helper()
	role := &roledomain.Role{
		ID:          f.node.Generate(),
		RoleName:    name,
		DisplayName: name,
		IsActive:    true,
	}
	require.NoError(t, f.conn.Create(role).Error)
	return role
}

// seedAssignment inserts an assignment row directly, the way the
// bootstrap seeder does, so tests can construct privileged actors.
func (f *userRoleFixture) seedAssignment(t *testing.T, userID, roleID snowflake.ID, societyID *snowflake.ID) {
	t.Helper()
	require.NoError(t, f.conn.Create(&userroledomain.UserRole{
		ID:        f.node.Generate(),
		UserID:    userID,
		RoleID:    roleID,
		SocietyID: societyID,
		IsActive:  true,
		ValidFrom: f.clock.Now(),
	}).Error)
}

func actorCtx(actorID snowflake.ID) context.Context {
	return requestctx.WithUserID(context.Background(), actorID)
}

func TestAssignGlobalRequiresSuperAdmin(t *testing.T) {
	f := setupUserRoleService(t)

	superAdmin := f.createRole(t, authzdomain.SuperAdminRole)
	intruder := f.node.Generate()

	// A roleless user cannot grant themselves the global superAdmin role.
	_, err := f.svc.Assign(actorCtx(intruder), userroledomain.AssignRequest{
		UserID: intruder.String(),
		RoleID: superAdmin.ID.String(),
	})
	assert.ErrorIs(t, err, userroledomain.ErrScopeNotAllowed)

	// No actor in context is refused outright.
	_, err = f.svc.Assign(context.Background(), userroledomain.AssignRequest{
		UserID: intruder.String(),
		RoleID: superAdmin.ID.String(),
	})
	assert.ErrorIs(t, err, userroledomain.ErrScopeNotAllowed)

	var count int64
	require.NoError(t, f.conn.Model(&userroledomain.UserRole{}).Count(&count).Error)
	assert.Zero(t, count)

	// An existing superAdmin may hand out global roles.
	admin := f.node.Generate()
	f.seedAssignment(t, admin, superAdmin.ID, nil)

	grantee := f.node.Generate()
	assignment, err := f.svc.Assign(actorCtx(admin), userroledomain.AssignRequest{
		UserID: grantee.String(),
		RoleID: superAdmin.ID.String(),
	})
	require.NoError(t, err)
	assert.True(t, assignment.IsActive)
	assert.Nil(t, assignment.SocietyID)
	require.NotNil(t, assignment.AssignedBy)
	assert.Equal(t, admin, *assignment.AssignedBy)
}

func TestAssignSocietyScopedRequiresSocietyAdmin(t *testing.T) {
	f := setupUserRoleService(t)

	societyAdmin := f.createRole(t, authzdomain.SocietyAdminRole)
	treasurer := f.createRole(t, "treasurer")

	societyA := f.node.Generate()
	societyB := f.node.Generate()
	admin := f.node.Generate()
	f.seedAssignment(t, admin, societyAdmin.ID, &societyA)

	resident := f.node.Generate()

	// A roleless actor cannot assign within any society.
	_, err := f.svc.Assign(actorCtx(resident), userroledomain.AssignRequest{
		UserID:    resident.String(),
		RoleID:    treasurer.ID.String(),
		SocietyID: societyA.String(),
	})
	assert.ErrorIs(t, err, userroledomain.ErrScopeNotAllowed)

	// The society admin may assign within their own society.
	assignment, err := f.svc.Assign(actorCtx(admin), userroledomain.AssignRequest{
		UserID:    resident.String(),
		RoleID:    treasurer.ID.String(),
		SocietyID: societyA.String(),
	})
	require.NoError(t, err)
	require.NotNil(t, assignment.SocietyID)
	assert.Equal(t, societyA, *assignment.SocietyID)

	// But not within a society they do not administer.
	_, err = f.svc.Assign(actorCtx(admin), userroledomain.AssignRequest{
		UserID:    resident.String(),
		RoleID:    treasurer.ID.String(),
		SocietyID: societyB.String(),
	})
	assert.ErrorIs(t, err, userroledomain.ErrScopeNotAllowed)

	// Unknown role is refused before any write.
	_, err = f.svc.Assign(actorCtx(admin), userroledomain.AssignRequest{
		UserID:    resident.String(),
		RoleID:    f.node.Generate().String(),
		SocietyID: societyA.String(),
	})
	assert.ErrorIs(t, err, userroledomain.ErrRoleNotFound)
}

func TestRevokeAndReassign(t *testing.T) {
	f := setupUserRoleService(t)

	superAdmin := f.createRole(t, authzdomain.SuperAdminRole)
	treasurer := f.createRole(t, "treasurer")

	admin := f.node.Generate()
	f.seedAssignment(t, admin, superAdmin.ID, nil)

	resident := f.node.Generate()
	ctx := actorCtx(admin)

	assignment, err := f.svc.Assign(ctx, userroledomain.AssignRequest{
		UserID: resident.String(),
		RoleID: treasurer.ID.String(),
	})
	require.NoError(t, err)

	// A duplicate active assignment is refused.
	_, err = f.svc.Assign(ctx, userroledomain.AssignRequest{
		UserID: resident.String(),
		RoleID: treasurer.ID.String(),
	})
	assert.ErrorIs(t, err, userroledomain.ErrAlreadyAssigned)

	revoked, err := f.svc.Revoke(ctx, assignment.ID.String())
	require.NoError(t, err)
	assert.False(t, revoked.IsActive)
	require.NotNil(t, revoked.RevokedAt)
	assert.Equal(t, f.clock.Now(), revoked.RevokedAt.UTC())
	require.NotNil(t, revoked.RevokedBy)
	assert.Equal(t, admin, *revoked.RevokedBy)

	// A revoked row no longer grants anything.
	_, err = f.svc.Revoke(ctx, assignment.ID.String())
	assert.ErrorIs(t, err, userroledomain.ErrAlreadyRevoked)

	// Re-assigning reactivates the original row instead of inserting a
	// second one.
	f.clock.Advance(time.Hour)
	reassigned, err := f.svc.Assign(ctx, userroledomain.AssignRequest{
		UserID: resident.String(),
		RoleID: treasurer.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, assignment.ID, reassigned.ID)
	assert.True(t, reassigned.IsActive)
	assert.Nil(t, reassigned.RevokedAt)
	assert.Equal(t, f.clock.Now(), reassigned.ValidFrom.UTC())

	var count int64
	require.NoError(t, f.conn.Model(&userroledomain.UserRole{}).
		Where("user_id = ? AND role_id = ?", resident, treasurer.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
