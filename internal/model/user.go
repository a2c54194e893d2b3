package model

// Role decides which portal routes and actions a user reaches.
type Role string

const (
	RoleUser        Role = "user"
	RoleAdmin       Role = "admin"
	RoleProcurement Role = "procurement"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin || r == RoleProcurement
}

// User is the identity returned by the backend on login. The portal never edits it except on login/logout.
type User struct {
	ID         ID     `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Role       Role   `json:"role"`
	Department string `json:"department,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
}

// DisplayName falls back to the same "User <id>" label the portal lists use.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	return "User " + u.ID.String()
}

// UserInput is the admin user form.
type UserInput struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password,omitempty"`
	Role       Role   `json:"role" binding:"required,oneof=user admin procurement"`
	Department string `json:"department,omitempty"`
}

// UserStats is the reply of /users/stats/global.
type UserStats struct {
	Monthly []PeriodCount `json:"monthly"`
}
