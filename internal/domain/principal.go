package domain

// Principal is the authenticated identity of a single request.
// It is rebuilt from the store on every request and never carries the password hash.
type Principal struct {
	ID    string
	Role  string
	Name  string
	Email string
}

// NewPrincipal derives a principal from a stored user
func NewPrincipal(u *User) Principal {
	return Principal{ID: u.ID, Role: u.Role, Name: u.Name, Email: u.Email}
}

// IsAdmin reports whether the principal holds the admin role
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
