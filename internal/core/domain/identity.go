package domain

import "time"

// TokenTTL is the fixed lifetime of an issued access token.
const TokenTTL = time.Hour

// Role is a coarse capability label compared by exact match.
type Role string

const (
	RoleParticipant Role = "participant"
	RoleOrganizer   Role = "organizer"
	RoleAdmin       Role = "admin"
)

// Roles lists every defined role.
var Roles = []Role{RoleParticipant, RoleOrganizer, RoleAdmin}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// Identity is the claim set reconstructed from a verified token.
// It is never persisted on its own.
type Identity struct {
	SubjectID int64
	Email     string
	Role      Role
}

// IsAdmin reports whether the identity holds the administrative role.
func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }
