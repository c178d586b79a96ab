package model

import "time"

// Role names a capability level.  New self-registered accounts start as
// CASEWORKER; INSPECTOR accounts are assigned to cases; ADMIN accounts
// manage users and roles.
const (
    RoleCaseworker = "CASEWORKER"
    RoleInspector  = "INSPECTOR"
    RoleAdmin      = "ADMIN"
)

// ValidRole reports whether r is one of the known roles.  Matching is
// exact; callers normalise case before asking.
func ValidRole(r string) bool {
    switch r {
    case RoleCaseworker, RoleInspector, RoleAdmin:
        return true
    }
    return false
}

// User represents an account record as stored in the `users` table.
// PasswordHash never leaves the repository/service layers; handlers
// render a user through Public.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Name         – display name.
//  Email        – unique email address (case-sensitive).
//  PasswordHash – bcrypt hashed password.
//  Role         – CASEWORKER, INSPECTOR or ADMIN.
//  IsActive     – whether the account is active (stored, not enforced).
//  CreatedAt    – timestamp of creation.
type User struct {
    ID           uint64    // users.id
    Name         string    // users.name
    Email        string    // users.email
    PasswordHash string    // users.password_hash
    Role         string    // users.role
    IsActive     bool      // users.is_active
    CreatedAt    time.Time // users.created_at
}

// PublicUser is the digest-free projection of a User used in every
// response body.
type PublicUser struct {
    ID       uint64 `json:"id"`
    Email    string `json:"email"`
    Name     string `json:"name"`
    Role     string `json:"role"`
    IsActive bool   `json:"isActive"`
}

// Public strips the password digest.
func (u User) Public() PublicUser {
    return PublicUser{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role, IsActive: u.IsActive}
}
