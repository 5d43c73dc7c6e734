package application

import "strings"

// administratorEmail is the single bootstrap administrator account. The
// address grants admin rights regardless of the stored role tag so the
// first operator can manage rooms before any role assignment exists.
const administratorEmail = "admin@gmail.com"

// IsAdministrator reports whether the identity may perform administrative
// operations (room management, booking cancellation). This is the only
// place the role tag and the bootstrap address are consulted; call sites
// must not duplicate the checks.
func IsAdministrator(identity Identity) bool {
	if identity.Role == RoleAdmin {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(identity.Email), administratorEmail)
}

// NormalizeRole maps arbitrary caller input onto a known role tag,
// defaulting to RoleUser.
func NormalizeRole(raw string) Role {
	if strings.EqualFold(strings.TrimSpace(raw), string(RoleAdmin)) {
		return RoleAdmin
	}
	return RoleUser
}
