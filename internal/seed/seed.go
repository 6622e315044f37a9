package seed

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/societyhq/societyhub/internal/auth/domain"
	"github.com/societyhq/societyhub/internal/auth/password"
	permissiondomain "github.com/societyhq/societyhub/internal/permission/domain"
	roledomain "github.com/societyhq/societyhub/internal/role/domain"
	userroledomain "github.com/societyhq/societyhub/internal/userrole/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Snowflake node 1023 is reserved for seeding so generated IDs never
// collide with request-path IDs from node 1.
const seedNodeID = 1023

type systemRole struct {
	Name           string
	DisplayName    string
	Description    string
	HierarchyLevel int
}

var systemRoles = []systemRole{
	{
		Name:           "superAdmin",
		DisplayName:    "Super Administrator",
		Description:    "Platform operator with unrestricted access",
		HierarchyLevel: 100,
	},
	{
		Name:           "societyAdmin",
		DisplayName:    "Society Administrator",
		Description:    "Manages a single society end to end",
		HierarchyLevel: 80,
	},
	{
		Name:           "member",
		DisplayName:    "Society Member",
		Description:    "Resident with read access to their society",
		HierarchyLevel: 10,
	},
}

var systemResources = []string{
	"users",
	"societies",
	"members",
	"assets",
	"roles",
	"permissions",
	"maintenance",
	"payments",
	"visitors",
	"subscriptions",
	"audit",
}

var systemActions = []string{"create", "read", "update", "delete"}

// societyAdmin gets full access to the resources a single society
// manages; platform-level catalogs stay with superAdmin.
var societyAdminResources = map[string]bool{
	"users":       true,
	"societies":   true,
	"members":     true,
	"assets":      true,
	"maintenance": true,
	"payments":    true,
	"visitors":    true,
	"audit":       true,
}

var memberReadResources = map[string]bool{
	"societies":   true,
	"members":     true,
	"maintenance": true,
	"payments":    true,
	"visitors":    true,
}

// EnsureSystemCatalog seeds the system roles, the permission catalog,
// and the default grants. It is idempotent and safe to run on every
// boot.
func EnsureSystemCatalog(conn *gorm.DB) error {
	node, err := snowflake.NewNode(seedNodeID)
	if err != nil {
		return fmt.Errorf("seed snowflake node: %w", err)
	}
	now := time.Now().UTC()

	roleIDs := make(map[string]snowflake.ID, len(systemRoles))
	for _, def := range systemRoles {
		role, err := ensureRole(conn, node, def, now)
		if err != nil {
			return fmt.Errorf("seed role %s: %w", def.Name, err)
		}
		roleIDs[def.Name] = role.ID
	}

	permissionIDs := make(map[string]snowflake.ID)
	for _, resource := range systemResources {
		for _, action := range systemActions {
			perm, err := ensurePermission(conn, node, resource, action, now)
			if err != nil {
				return fmt.Errorf("seed permission %s.%s: %w", resource, action, err)
			}
			permissionIDs[permissiondomain.NameFor(resource, action)] = perm.ID
		}
	}

	for _, resource := range systemResources {
		for _, action := range systemActions {
			name := permissiondomain.NameFor(resource, action)
			if societyAdminResources[resource] {
				if err := ensureGrant(conn, node, roleIDs["societyAdmin"], permissionIDs[name], now); err != nil {
					return fmt.Errorf("seed grant societyAdmin %s: %w", name, err)
				}
			}
			if action == "read" && memberReadResources[resource] {
				if err := ensureGrant(conn, node, roleIDs["member"], permissionIDs[name], now); err != nil {
					return fmt.Errorf("seed grant member %s: %w", name, err)
				}
			}
		}
	}

	return nil
}

// EnsureBootstrapAdmin creates the initial superAdmin account when none
// exists for the configured email. Existing accounts are left untouched
// apart from guaranteeing the role assignment.
func EnsureBootstrapAdmin(conn *gorm.DB, email, rawPassword string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || rawPassword == "" {
		return errors.New("bootstrap admin email and password are required")
	}

	node, err := snowflake.NewNode(seedNodeID)
	if err != nil {
		return fmt.Errorf("seed snowflake node: %w", err)
	}
	now := time.Now().UTC()

	var user authdomain.User
	err = conn.Where("email = ?", email).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		hash, hashErr := password.Hash(rawPassword)
		if hashErr != nil {
			return fmt.Errorf("hash bootstrap password: %w", hashErr)
		}
		user = authdomain.User{
			ID:            node.Generate(),
			Username:      email,
			Email:         email,
			PasswordHash:  hash,
			FirstName:     "Platform",
			LastName:      "Admin",
			Status:        authdomain.StatusActive,
			EmailVerified: true,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if createErr := conn.Create(&user).Error; createErr != nil {
			return fmt.Errorf("create bootstrap admin: %w", createErr)
		}
	case err != nil:
		return err
	}

	var role roledomain.Role
	if err := conn.Where("role_name = ?", "superAdmin").First(&role).Error; err != nil {
		return fmt.Errorf("load superAdmin role: %w", err)
	}

	var assignment userroledomain.UserRole
	err = conn.Where("user_id = ? AND role_id = ? AND society_id IS NULL", user.ID, role.ID).
		First(&assignment).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		assignment = userroledomain.UserRole{
			ID:        node.Generate(),
			UserID:    user.ID,
			RoleID:    role.ID,
			IsActive:  true,
			ValidFrom: now,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return conn.Create(&assignment).Error
	case err != nil:
		return err
	}

	if !assignment.IsActive {
		assignment.IsActive = true
		assignment.RevokedAt = nil
		assignment.RevokedBy = nil
		assignment.UpdatedAt = now
		return conn.Save(&assignment).Error
	}
	return nil
}

func ensureRole(conn *gorm.DB, node *snowflake.Node, def systemRole, now time.Time) (*roledomain.Role, error) {
	var role roledomain.Role
	err := conn.Where("role_name = ?", def.Name).First(&role).Error
	if err == nil {
		return &role, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	role = roledomain.Role{
		ID:             node.Generate(),
		RoleName:       def.Name,
		DisplayName:    def.DisplayName,
		Description:    def.Description,
		HierarchyLevel: def.HierarchyLevel,
		IsSystemRole:   true,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := conn.Create(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func ensurePermission(conn *gorm.DB, node *snowflake.Node, resource, action string, now time.Time) (*permissiondomain.Permission, error) {
	var perm permissiondomain.Permission
	err := conn.Where("resource = ? AND action = ?", resource, action).First(&perm).Error
	if err == nil {
		return &perm, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	perm = permissiondomain.Permission{
		ID:                 node.Generate(),
		PermissionName:     permissiondomain.NameFor(resource, action),
		PermissionCode:     permissiondomain.CodeFor(resource, action),
		Resource:           resource,
		Action:             action,
		Description:        fmt.Sprintf("Allows %s on %s", action, resource),
		IsSystemPermission: true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := conn.Create(&perm).Error; err != nil {
		return nil, err
	}
	return &perm, nil
}

func ensureGrant(conn *gorm.DB, node *snowflake.Node, roleID, permissionID snowflake.ID, now time.Time) error {
	grant := roledomain.RolePermission{
		ID:           node.Generate(),
		RoleID:       roleID,
		PermissionID: permissionID,
		Granted:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return conn.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "role_id"}, {Name: "permission_id"}},
		DoNothing: true,
	}).Create(&grant).Error
}
