package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	permissiondomain "github.com/societyhq/societyhub/internal/permission/domain"
	roledomain "github.com/societyhq/societyhub/internal/role/domain"
	"github.com/societyhq/societyhub/internal/role/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func setupRoleService(t *testing.T) (*Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&roledomain.Role{},
		&roledomain.RolePermission{},
		&permissiondomain.Permission{},
	))

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	svc := &Service{
		db:    conn,
		log:   zaptest.NewLogger(t),
		genID: node,
		repo:  repository.Provide(),
	}
	return svc, conn, node
}

func TestCreateRoleRejectsDuplicateName(t *testing.T) {
	svc, _, _ := setupRoleService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, roledomain.CreateRoleRequest{
		RoleName:       "treasurer",
		HierarchyLevel: 50,
	})
	require.NoError(t, err)
	assert.Equal(t, "treasurer", created.DisplayName)
	assert.True(t, created.IsActive)
	assert.False(t, created.IsSystemRole)

	_, err = svc.Create(ctx, roledomain.CreateRoleRequest{RoleName: "treasurer"})
	assert.ErrorIs(t, err, roledomain.ErrRoleExists)

	_, err = svc.Create(ctx, roledomain.CreateRoleRequest{RoleName: "  "})
	assert.ErrorIs(t, err, roledomain.ErrInvalidRoleName)
}

func TestSystemRolesAreProtected(t *testing.T) {
	svc, conn, node := setupRoleService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	system := &roledomain.Role{
		ID:           node.Generate(),
		RoleName:     "superAdmin",
		IsSystemRole: true,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, conn.Create(system).Error)

	display := "Renamed"
	_, err := svc.Update(ctx, roledomain.UpdateRoleRequest{
		ID:          system.ID.String(),
		DisplayName: &display,
	})
	assert.ErrorIs(t, err, roledomain.ErrSystemRoleProtected)

	assert.ErrorIs(t, svc.Delete(ctx, system.ID.String()), roledomain.ErrSystemRoleProtected)
}

func TestSetAndRemoveRolePermission(t *testing.T) {
	svc, conn, node := setupRoleService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	role, err := svc.Create(ctx, roledomain.CreateRoleRequest{RoleName: "treasurer"})
	require.NoError(t, err)

	perm := &permissiondomain.Permission{
		ID:             node.Generate(),
		PermissionName: permissiondomain.NameFor("payments", "create"),
		PermissionCode: permissiondomain.CodeFor("payments", "create"),
		Resource:       "payments",
		Action:         "create",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	require.NoError(t, conn.Create(perm).Error)

	grant, err := svc.SetPermission(ctx, roledomain.SetRolePermissionRequest{
		RoleID:       role.ID.String(),
		PermissionID: perm.ID.String(),
	})
	require.NoError(t, err)
	assert.True(t, grant.Granted)

	grants, err := svc.ListPermissions(ctx, role.ID.String())
	require.NoError(t, err)
	assert.Len(t, grants, 1)

	require.NoError(t, svc.RemovePermission(ctx, grant.ID.String()))

	grants, err = svc.ListPermissions(ctx, role.ID.String())
	require.NoError(t, err)
	assert.Empty(t, grants)

	assert.ErrorIs(t, svc.RemovePermission(ctx, grant.ID.String()), roledomain.ErrGrantNotFound)
}
