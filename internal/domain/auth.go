package domain

// Principal is the identity derived from a verified bearer credential.
// The role is trusted for the credential's lifetime.
type Principal struct {
	UserID string
	Role   Role
}

// HasRole reports whether the principal holds any of the given roles.
func (p Principal) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}
