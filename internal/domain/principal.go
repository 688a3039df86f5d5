package domain

// Principal — личность вызывающего, установленная на транспортной границе
// и явно передаваемая вниз по вызовам (вместо глобального security-контекста).
// Нулевое значение — аноним.
type Principal struct {
	Username string
	Roles    []Role
}

// Anonymous — принципал без личности.
var Anonymous = Principal{}

// IsAuthenticated — личность установлена.
func (p Principal) IsAuthenticated() bool { return p.Username != "" }

// HasRole — проверяет наличие роли.
func (p Principal) HasRole(role Role) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin — наличие роли ADMIN.
func (p Principal) IsAdmin() bool { return p.HasRole(RoleAdmin) }
