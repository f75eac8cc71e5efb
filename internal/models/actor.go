package models

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Actor is the authenticated caller of a write operation.
type Actor struct {
	UserID int64
	Role   string
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
