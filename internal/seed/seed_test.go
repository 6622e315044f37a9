package seed

import (
	"testing"

	"github.com/glebarez/sqlite"
	authdomain "github.com/societyhq/societyhub/internal/auth/domain"
	"github.com/societyhq/societyhub/internal/auth/password"
	permissiondomain "github.com/societyhq/societyhub/internal/permission/domain"
	roledomain "github.com/societyhq/societyhub/internal/role/domain"
	userroledomain "github.com/societyhq/societyhub/internal/userrole/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupSeedDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&authdomain.User{},
		&roledomain.Role{},
		&roledomain.RolePermission{},
		&permissiondomain.Permission{},
		&userroledomain.UserRole{},
	))
	return conn
}

func count(t *testing.T, conn *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, conn.Model(model).Count(&n).Error)
	return n
}

func TestEnsureSystemCatalogIsIdempotent(t *testing.T) {
	conn := setupSeedDB(t)

	require.NoError(t, EnsureSystemCatalog(conn))

	roles := count(t, conn, &roledomain.Role{})
	permissions := count(t, conn, &permissiondomain.Permission{})
	grants := count(t, conn, &roledomain.RolePermission{})

	assert.Equal(t, int64(len(systemRoles)), roles)
	assert.Equal(t, int64(len(systemResources)*len(systemActions)), permissions)
	assert.Greater(t, grants, int64(0))

	// Re-running must not duplicate anything.
	require.NoError(t, EnsureSystemCatalog(conn))
	assert.Equal(t, roles, count(t, conn, &roledomain.Role{}))
	assert.Equal(t, permissions, count(t, conn, &permissiondomain.Permission{}))
	assert.Equal(t, grants, count(t, conn, &roledomain.RolePermission{}))

	var superAdmin roledomain.Role
	require.NoError(t, conn.Where("role_name = ?", "superAdmin").First(&superAdmin).Error)
	assert.True(t, superAdmin.IsSystemRole)
	assert.True(t, superAdmin.IsActive)

	var perm permissiondomain.Permission
	require.NoError(t, conn.Where("resource = ? AND action = ?", "maintenance", "create").First(&perm).Error)
	assert.Equal(t, "MAI_CREATE", perm.PermissionCode)
	assert.Equal(t, "maintenance.create", perm.PermissionName)
}

func TestEnsureBootstrapAdmin(t *testing.T) {
	conn := setupSeedDB(t)
	require.NoError(t, EnsureSystemCatalog(conn))

	require.NoError(t, EnsureBootstrapAdmin(conn, "Admin@Example.com", "bootstrap-secret"))

	var user authdomain.User
	require.NoError(t, conn.Where("email = ?", "admin@example.com").First(&user).Error)
	assert.Equal(t, authdomain.StatusActive, user.Status)
	assert.True(t, user.EmailVerified)
	assert.True(t, password.Verify("bootstrap-secret", user.PasswordHash))

	var assignment userroledomain.UserRole
	require.NoError(t, conn.Where("user_id = ? AND society_id IS NULL", user.ID).First(&assignment).Error)
	assert.True(t, assignment.IsActive)

	// Second run touches nothing.
	require.NoError(t, EnsureBootstrapAdmin(conn, "admin@example.com", "bootstrap-secret"))
	assert.Equal(t, int64(1), count(t, conn, &authdomain.User{}))
	assert.Equal(t, int64(1), count(t, conn, &userroledomain.UserRole{}))

	// A revoked assignment is reactivated on boot.
	require.NoError(t, conn.Model(&assignment).Update("is_active", false).Error)
	require.NoError(t, EnsureBootstrapAdmin(conn, "admin@example.com", "bootstrap-secret"))
	require.NoError(t, conn.Where("id = ?", assignment.ID).First(&assignment).Error)
	assert.True(t, assignment.IsActive)

	assert.Error(t, EnsureBootstrapAdmin(conn, "", ""))
}
