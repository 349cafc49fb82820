package types

type UserRole = string

const (
	USER_ROLE_ADMIN  UserRole = "admin"
	USER_ROLE_MEMBER UserRole = "member"
)

type User struct {
	ID           string   `json:"id" db:"id"`
	Name         string   `json:"name" db:"name"`
	Email        string   `json:"email" db:"email"`
	Role         UserRole `json:"role" db:"role"`
	DepartmentID *string  `json:"department_id" db:"department_id"`
	Active       bool     `json:"active" db:"active"`
	CreatedAt    int64    `json:"created_at" db:"created_at"`
	UpdatedAt    int64    `json:"updated_at" db:"updated_at"`
}

func (u User) DepartmentOrEmpty() string {
	if u.DepartmentID == nil {
		return ""
	}
	return *u.DepartmentID
}
