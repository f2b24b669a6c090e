package domain

import "time"

// Role of a user within their family. Only meaningful while FamilyID is set;
// leaving or being removed resets the role to RoleMember.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

type User struct {
	ID           string
	Email        string // unique, stored lowercased
	Name         string
	Phone        *string
	PasswordHash string  // argon2id encoded
	FamilyID     *string // nil when the user belongs to no family
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// InFamily reports whether the user currently belongs to a family.
func (u User) InFamily() bool { return u.FamilyID != nil }

// Member is the public projection of a User inside a family member list.
// It never carries the credential hash.
type Member struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// MemberOf projects a User into its member view.
func MemberOf(u User) Member {
	return Member{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
