package models

import "time"

// Role enumerates the two access levels the platform knows about.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Valid reports whether the role is one of the enumerated values.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// ParseRole converts an incoming string into a Role, reporting validity.
func ParseRole(value string) (Role, bool) {
	role := Role(value)
	return role, role.Valid()
}

// User is identified by email. The password column always holds a bcrypt hash.
type User struct {
	Email     string `gorm:"primaryKey" json:"email"`
	Firstname string `gorm:"not null" json:"firstname"`
	Surname   string `gorm:"not null" json:"surname"`
	Password  string `gorm:"not null" json:"-"`
	Role      Role   `gorm:"type:varchar(8);not null;default:USER" json:"role"`

	Teams []Team `gorm:"many2many:team_members;" json:"-"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// IsAdmin reports whether the user holds the ADMIN role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
