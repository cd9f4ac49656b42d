package domain

// Principal is the authenticated identity attached to a request. Handlers and
// services receive it instead of the User row.
type Principal struct {
	ID           uint
	Username     string
	PasswordHash string
	Role         string
}

func NewPrincipal(u *User) *Principal {
	return &Principal{ID: u.ID, Username: u.Email, PasswordHash: u.Password, Role: u.Role}
}

// HasRole reports whether the principal was granted role.
func (p *Principal) HasRole(role string) bool { return p != nil && p.Role == role }
