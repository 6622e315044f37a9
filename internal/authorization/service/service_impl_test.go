package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	authzdomain "github.com/societyhq/societyhub/internal/authorization/domain"
	"github.com/societyhq/societyhub/internal/authorization/repository"
	permissiondomain "github.com/societyhq/societyhub/internal/permission/domain"
	roledomain "github.com/societyhq/societyhub/internal/role/domain"
	userroledomain "github.com/societyhq/societyhub/internal/userrole/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type authzFixture struct {
	svc  *Service
	conn *gorm.DB
	node *snowflake.Node
	now  time.Time
}

func setupAuthz(t *testing.T) *authzFixture {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&roledomain.Role{},
		&roledomain.RolePermission{},
		&permissiondomain.Permission{},
		&userroledomain.UserRole{},
	))

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	svc := &Service{
		db:   conn,
		log:  zaptest.NewLogger(t),
		repo: repository.Provide(),
	}
	return &authzFixture{svc: svc, conn: conn, node: node, now: time.Now().UTC()}
}

func (f *authzFixture) createRole(t *testing.T, name string) *roledomain.Role {
	t.Helper()
	role := &roledomain.Role{
		ID:        f.node.Generate(),
		RoleName:  name,
		IsActive:  true,
		CreatedAt: f.now,
		UpdatedAt: f.now,
	}
	require.NoError(t, f.conn.Create(role).Error)
	return role
}

func (f *authzFixture) createPermission(t *testing.T, resource, action string) *permissiondomain.Permission {
	t.Helper()
	perm := &permissiondomain.Permission{
		ID:             f.node.Generate(),
		PermissionName: permissiondomain.NameFor(resource, action),
		PermissionCode: permissiondomain.CodeFor(resource, action),
		Resource:       resource,
		Action:         action,
		CreatedAt:      f.now,
		UpdatedAt:      f.now,
	}
	require.NoError(t, f.conn.Create(perm).Error)
	return perm
}

func (f *authzFixture) grant(t *testing.T, roleID, permissionID snowflake.ID, granted bool) {
	t.Helper()
	require.NoError(t, f.conn.Create(&roledomain.RolePermission{
		ID:           f.node.Generate(),
		RoleID:       roleID,
		PermissionID: permissionID,
		Granted:      granted,
		CreatedAt:    f.now,
		UpdatedAt:    f.now,
	}).Error)
}

func (f *authzFixture) assign(t *testing.T, userID, roleID snowflake.ID, societyID *snowflake.ID, active bool) *userroledomain.UserRole {
	t.Helper()
	assignment := &userroledomain.UserRole{
		ID:        f.node.Generate(),
		UserID:    userID,
		RoleID:    roleID,
		SocietyID: societyID,
		IsActive:  active,
		ValidFrom: f.now.Add(-time.Hour),
		CreatedAt: f.now,
		UpdatedAt: f.now,
	}
	require.NoError(t, f.conn.Create(assignment).Error)
	return assignment
}

func TestSuperAdminShortCircuit(t *testing.T) {
	f := setupAuthz(t)
	ctx := context.Background()

	role := f.createRole(t, authzdomain.SuperAdminRole)
	userID := f.node.Generate()
	f.assign(t, userID, role.ID, nil, true)

	// No grants exist at all; the role name alone allows everything.
	assert.NoError(t, f.svc.Authorize(ctx, userID, nil, "maintenance", "create"))
	societyID := f.node.Generate()
	assert.NoError(t, f.svc.Authorize(ctx, userID, &societyID, "audit", "read"))
}

func TestAuthorizeMatchesGrantedPermission(t *testing.T) {
	f := setupAuthz(t)
	ctx := context.Background()

	role := f.createRole(t, "societyAdmin")
	create := f.createPermission(t, "maintenance", "create")
	denied := f.createPermission(t, "roles", "delete")
	f.grant(t, role.ID, create.ID, true)
	f.grant(t, role.ID, denied.ID, false)

	userID := f.node.Generate()
	f.assign(t, userID, role.ID, nil, true)

	assert.NoError(t, f.svc.Authorize(ctx, userID, nil, "maintenance", "create"))
	// granted=false rows never authorize.
	assert.ErrorIs(t, f.svc.Authorize(ctx, userID, nil, "roles", "delete"),
		authzdomain.ErrPermissionDenied)
	assert.ErrorIs(t, f.svc.Authorize(ctx, userID, nil, "payments", "update"),
		authzdomain.ErrPermissionDenied)
}

func TestAuthorizeSocietyScoping(t *testing.T) {
	f := setupAuthz(t)
	ctx := context.Background()

	role := f.createRole(t, "societyAdmin")
	perm := f.createPermission(t, "members", "read")
	f.grant(t, role.ID, perm.ID, true)

	userID := f.node.Generate()
	homeSociety := f.node.Generate()
	otherSociety := f.node.Generate()
	f.assign(t, userID, role.ID, &homeSociety, true)

	assert.NoError(t, f.svc.Authorize(ctx, userID, &homeSociety, "members", "read"))
	// An assignment scoped to one society grants nothing in another.
	assert.ErrorIs(t, f.svc.Authorize(ctx, userID, &otherSociety, "members", "read"),
		authzdomain.ErrNoActiveRoles)
}

func TestAuthorizeIgnoresInactiveAndExpired(t *testing.T) {
	f := setupAuthz(t)
	ctx := context.Background()

	role := f.createRole(t, "societyAdmin")
	perm := f.createPermission(t, "members", "read")
	f.grant(t, role.ID, perm.ID, true)

	revoked := f.node.Generate()
	f.assign(t, revoked, role.ID, nil, false)
	assert.ErrorIs(t, f.svc.Authorize(ctx, revoked, nil, "members", "read"),
		authzdomain.ErrNoActiveRoles)

	expired := f.node.Generate()
	assignment := f.assign(t, expired, role.ID, nil, true)
	past := f.now.Add(-time.Minute)
	require.NoError(t, f.conn.Model(assignment).Update("valid_until", past).Error)
	assert.ErrorIs(t, f.svc.Authorize(ctx, expired, nil, "members", "read"),
		authzdomain.ErrNoActiveRoles)
}

func TestAuthorizeRole(t *testing.T) {
	f := setupAuthz(t)
	ctx := context.Background()

	member := f.createRole(t, "member")
	userID := f.node.Generate()
	f.assign(t, userID, member.ID, nil, true)

	assert.NoError(t, f.svc.AuthorizeRole(ctx, userID, "member", authzdomain.SocietyAdminRole))
	assert.ErrorIs(t, f.svc.AuthorizeRole(ctx, userID, authzdomain.SuperAdminRole),
		authzdomain.ErrRoleDenied)

	stranger := f.node.Generate()
	assert.ErrorIs(t, f.svc.AuthorizeRole(ctx, stranger, "member"),
		authzdomain.ErrNoActiveRoles)
}
