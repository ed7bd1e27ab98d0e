package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimsFromMap(t *testing.T) {
	claims, err := ClaimsFromMap(map[string]interface{}{
		"user_id":     "user-1",
		"employee_id": "emp-1",
		"role":        "employee",
	})
	require.NoError(t, err)
	assert.Equal(t, Claims{UserID: "user-1", EmployeeID: "emp-1", Role: RoleEmployee}, claims)

	claims, err = ClaimsFromMap(map[string]interface{}{"user_id": "admin-1", "role": "admin", "employee_id": nil})
	require.NoError(t, err)
	assert.Empty(t, claims.EmployeeID)

	_, err = ClaimsFromMap(map[string]interface{}{"role": "manager"})
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ClaimsFromMap(map[string]interface{}{"user_id": "user-1", "role": "owner"})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestClaims_CanAccessEmployee(t *testing.T) {
	employee := Claims{UserID: "u1", EmployeeID: "emp-1", Role: RoleEmployee}
	assert.True(t, employee.CanAccessEmployee("emp-1"))
	assert.False(t, employee.CanAccessEmployee("emp-2"))

	noEmployee := Claims{UserID: "u2", Role: RoleEmployee}
	assert.False(t, noEmployee.CanAccessEmployee(""))

	manager := Claims{UserID: "u3", Role: RoleManager}
	assert.True(t, manager.CanAccessEmployee("emp-2"))
	assert.True(t, RoleAdmin.IsManager())
	assert.False(t, RoleEmployee.IsManager())
}
