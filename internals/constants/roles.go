package constants

import "fmt"

const (
	RolePengguna   = "pengguna"
	RoleAdmin      = "admin"
	RoleSuperadmin = "superadmin"
)

// Template pesan error role
const (
	ErrOnlyAdminsCanAccess     = "❌ Hanya admin yang boleh mengakses fitur %s."
	ErrOnlySuperadminCanAccess = "❌ Hanya superadmin yang boleh mengakses fitur %s."
)

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorSuperadmin(feature string) string {
	return fmt.Sprintf(ErrOnlySuperadminCanAccess, feature)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RolePengguna,
		RoleAdmin,
		RoleSuperadmin,
	}

	AdminRoles = []string{
		RoleAdmin,
		RoleSuperadmin,
	}
)

// IsAdminRole true untuk admin dan superadmin.
func IsAdminRole(role string) bool {
	return role == RoleAdmin || role == RoleSuperadmin
}
