package constants

import "fmt"

// Closed role set. Every role check in the system goes through these
// constants, never through loose attribute comparisons.
const (
	RoleAdministrador = "ADMINISTRADOR"
	RoleCoordenadora  = "COORDENADORA"
	RoleColaboradora  = "COLABORADORA"
)

// Role error message templates
const (
	ErrOnlyCoordinatorsCanAccess = "Only coordinators may access %s."
	ErrOnlyAdminsCanAccess       = "Only administrators may access %s."
)

func RoleErrorCoordinator(feature string) string {
	return fmt.Sprintf(ErrOnlyCoordinatorsCanAccess, feature)
}

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleAdministrador,
		RoleCoordenadora,
		RoleColaboradora,
	}

	CoordinatorAndAbove = []string{
		RoleCoordenadora,
		RoleAdministrador,
	}

	AdminOnly = []string{
		RoleAdministrador,
	}
)

func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}
