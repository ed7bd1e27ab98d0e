package auth

import "fmt"

type Role string

const (
	RoleAdmin    Role = "admin"    // Full access including payroll exports
	RoleManager  Role = "manager"  // Corrections, payroll and dashboards
	RoleEmployee Role = "employee" // Own records only
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleManager || r == RoleEmployee
}

// IsManager reports whether the role may act on other employees.
func (r Role) IsManager() bool {
	return r == RoleManager || r == RoleAdmin
}

// Claims is the identity carried by an access token.
type Claims struct {
	UserID     string
	EmployeeID string
	Role       Role
}

// CanAccessEmployee reports whether the holder may read or act on the
// employee's records.
func (c Claims) CanAccessEmployee(employeeID string) bool {
	if c.Role.IsManager() {
		return true
	}
	return c.EmployeeID != "" && c.EmployeeID == employeeID
}

// ClaimsFromMap reads claims decoded by jwtauth.
func ClaimsFromMap(m map[string]interface{}) (Claims, error) {
	userID, ok := m["user_id"].(string)
	if !ok || userID == "" {
		return Claims{}, fmt.Errorf("%w: user_id claim is missing", ErrInvalidToken)
	}

	role, _ := m["role"].(string)
	if !Role(role).Valid() {
		return Claims{}, fmt.Errorf("%w: role claim is invalid", ErrInvalidToken)
	}

	employeeID, _ := m["employee_id"].(string)

	return Claims{
		UserID:     userID,
		EmployeeID: employeeID,
		Role:       Role(role),
	}, nil
}
