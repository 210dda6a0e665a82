package domain

// UserRole orders the capabilities a user holds. Higher roles include the
// permissions of lower ones.
type UserRole string

const (
	RoleViewer     UserRole = "VIEWER"
	RoleBookkeeper UserRole = "BOOKKEEPER"
	RoleAdmin      UserRole = "ADMIN"
)

// rank maps roles to a comparable level for authorization checks.
func (r UserRole) rank() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleBookkeeper:
		return 2
	case RoleViewer:
		return 1
	}
	return 0
}

// AtLeast reports whether r grants at least the capabilities of required.
func (r UserRole) AtLeast(required UserRole) bool {
	return r.rank() >= required.rank()
}

// User is an application user with a role gating ledger operations.
type User struct {
	UserID       string   `json:"userID"` // Primary key (UUID)
	Username     string   `json:"username"`
	Name         string   `json:"name"`
	PasswordHash string   `json:"-"`
	Role         UserRole `json:"role"`
	IsActive     bool     `json:"isActive"`
	AuditFields
}
