package domain

type Role = string

const (
	// RoleFree is the default tier assigned at registration and to legacy
	// rows with an empty role cell.
	RoleFree Role = "free"
	// RolePremium unlocks paid content; assigned manually by an admin.
	RolePremium Role = "premium"
	// RoleAdmin can list users and change roles.
	RoleAdmin Role = "admin"
)

func IsValidRole(r string) bool {
	return r == RoleFree || r == RolePremium || r == RoleAdmin
}

// RoleRank: bigger => higher privilege
func RoleRank(r string) int {
	switch r {
	case RoleFree:
		return 1
	case RolePremium:
		return 2
	case RoleAdmin:
		return 3
	default:
		return 0
	}
}
