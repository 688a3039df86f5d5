package domain

// Role — роль пользователя.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User — учётная запись. PasswordHash — bcrypt-хэш, исходный пароль не храним.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Email        string
	Enabled      bool
	Roles        []Role
}

// HasRole — проверяет наличие роли.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
