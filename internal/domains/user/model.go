package user

import "time"

// Role is the authorization level of a user.
type Role string

const (
	RoleMember    Role = "member"
	RoleLibrarian Role = "librarian"
	RoleAdmin     Role = "admin"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleMember, RoleLibrarian, RoleAdmin:
		return true
	}
	return false
}

// IsStaff reports whether the role may manage the catalog and act on
// behalf of other users.
func (r Role) IsStaff() bool {
	return r == RoleLibrarian || r == RoleAdmin
}

func (r Role) String() string {
	return string(r)
}

// CanActOnBehalfOf is the single ownership rule for loan operations:
// staff act for anyone, members only for themselves.
func CanActOnBehalfOf(role Role, requestingUserID, ownerID string) bool {
	if role.IsStaff() {
		return true
	}
	return requestingUserID != "" && requestingUserID == ownerID
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"password,omitempty"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Sanitize blanks the password hash before the user leaves the service layer.
func (u *User) Sanitize() *User {
	clone := *u
	clone.Password = ""
	return &clone
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
