package models

type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	default:
		return false
	}
}

// Principal is the authenticated caller as supplied by the identity provider.
type Principal struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}
