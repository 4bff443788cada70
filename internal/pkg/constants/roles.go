package constants

const (
	Admin     = "admin"
	Manager   = "manager"
	Volunteer = "volunteer"
	Viewer    = "viewer"
)

// ValidRoles is the closed set of allowed user roles.
var ValidRoles = []string{Viewer, Volunteer, Manager, Admin}

// IsValidRole returns true if role is one of the allowed values.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
