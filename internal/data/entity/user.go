package entity

import (
	"fmt"
)

type RoleKind string

const (
	RoleDiner      RoleKind = "diner"
	RoleFranchisee RoleKind = "franchisee"
	RoleAdmin      RoleKind = "admin"
)

// ParseRoleKind accepts only the known role kinds.
func ParseRoleKind(value string) (RoleKind, error) {
	switch kind := RoleKind(value); kind {
	case RoleDiner, RoleFranchisee, RoleAdmin:
		return kind, nil
	}
	return "", fmt.Errorf("unknown role %q", value)
}

// Role is one grant held by a user. ObjectID is the franchise id for franchisee roles
// and nil otherwise.
type Role struct {
	Kind     RoleKind `db:"role"`
	ObjectID *int64   `db:"object_id"`
}

func DinerRole() Role {
	return Role{Kind: RoleDiner}
}

func AdminRole() Role {
	return Role{Kind: RoleAdmin}
}

func FranchiseeRole(franchiseID int64) Role {
	return Role{Kind: RoleFranchisee, ObjectID: &franchiseID}
}

// Grants reports whether the role satisfies a check for kind, scoped to objectID
// when the kind is franchise-bound.
func (r Role) Grants(kind RoleKind, objectID int64) bool {
	if r.Kind != kind {
		return false
	}
	switch r.Kind {
	case RoleFranchisee:
		return objectID == 0 || (r.ObjectID != nil && *r.ObjectID == objectID)
	case RoleDiner, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	Base
	Name         string `db:"name"`
	Email        string `db:"email"`
	PasswordHash string `db:"password"`
	Roles        []Role
}

// HasRole reports membership by kind regardless of the associated object.
func (u *User) HasRole(kind RoleKind) bool {
	for _, r := range u.Roles {
		if r.Grants(kind, 0) {
			return true
		}
	}
	return false
}

func (u *User) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}

// IsFranchiseAdmin reports whether the user holds a franchisee role for franchiseID.
func (u *User) IsFranchiseAdmin(franchiseID int64) bool {
	for _, r := range u.Roles {
		if r.Kind == RoleFranchisee && r.Grants(RoleFranchisee, franchiseID) {
			return true
		}
	}
	return false
}

// CanActOn reports whether the user may modify the record of userID.
func (u *User) CanActOn(userID int64) bool {
	return u.ID == userID || u.IsAdmin()
}
