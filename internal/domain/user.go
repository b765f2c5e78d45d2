package domain

const (
	RoleUser  = "User"
	RoleAdmin = "Admin"

	AdminRankSuper = "super"
)

// User is read-only input for booking eligibility checks. Authentication
// and credential storage live outside this service.
type User struct {
	ID        int64
	Name      string
	Email     string
	Role      string
	Blocked   bool
	AdminRank string
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsSuperAdmin() bool {
	return u.AdminRank == AdminRankSuper
}
