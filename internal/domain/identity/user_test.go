package identity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	PasswordCost = bcrypt.MinCost
}

func TestNewUser(t *testing.T) {
	u, err := NewUser(uuid.New(), " Dana.K ", "Dana@Workshop.example", "walnut-2026", RoleSales)
	require.NoError(t, err)

	assert.Equal(t, "dana.k", u.Username)
	assert.Equal(t, "dana@workshop.example", u.Email)
	assert.True(t, u.Active)
	assert.NotEqual(t, "walnut-2026", u.PasswordHash)
	assert.True(t, u.VerifyPassword("walnut-2026"))
	assert.False(t, u.VerifyPassword("walnut-2027"))
}

func TestNewUser_Validation(t *testing.T) {
	tenantID := uuid.New()

	_, err := NewUser(tenantID, "ab", "", "walnut-2026", RoleSales)
	assert.Error(t, err)
	_, err = NewUser(tenantID, "dana k", "", "walnut-2026", RoleSales)
	assert.Error(t, err)
	_, err = NewUser(tenantID, "dana", "bad", "walnut-2026", RoleSales)
	assert.Error(t, err)
	_, err = NewUser(tenantID, "dana", "", "short", RoleSales)
	assert.Error(t, err)
	_, err = NewUser(tenantID, "dana", "", "walnut-2026", "owner")
	assert.Error(t, err)
}

func TestUser_ChangePassword(t *testing.T) {
	u, err := NewUser(uuid.New(), "dana", "", "walnut-2026", RoleSales)
	require.NoError(t, err)

	assert.Error(t, u.ChangePassword("wrong-pass", "cherry-2026"))
	require.NoError(t, u.ChangePassword("walnut-2026", "cherry-2026"))
	assert.True(t, u.VerifyPassword("cherry-2026"))
}

func TestUser_RecordLogin(t *testing.T) {
	u, err := NewUser(uuid.New(), "dana", "", "walnut-2026", RoleSales)
	require.NoError(t, err)

	now := time.Now()
	u.RecordLogin(now)
	require.NotNil(t, u.LastLoginAt)
	assert.Equal(t, now, *u.LastLoginAt)
}

func TestRolePermissions(t *testing.T) {
	assert.True(t, HasPermission(RoleAdmin.Permissions(), "invoice:delete"))
	assert.True(t, HasPermission(RoleFinance.Permissions(), "payment:create"))
	assert.False(t, HasPermission(RoleViewer.Permissions(), "customer:create"))
	assert.True(t, HasPermission(RoleViewer.Permissions(), "customer:read"))
	assert.False(t, HasPermission(RoleProduction.Permissions(), "invoice:read"))
	assert.False(t, Role("owner").IsValid())
}
