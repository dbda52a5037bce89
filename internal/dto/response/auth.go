package response

import (
	"pizza-service/internal/data/entity"
)

type RoleResponse struct {
	Role     entity.RoleKind `json:"role"`
	ObjectID *int64          `json:"objectId,omitempty"`
}

// UserResponse never carries the password hash
type UserResponse struct {
	ID    int64          `json:"id"`
	Name  string         `json:"name"`
	Email string         `json:"email"`
	Roles []RoleResponse `json:"roles"`
}

type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

type UserListResponse struct {
	Users   []UserResponse `json:"users"`
	Page    int            `json:"page"`
	HasMore bool           `json:"hasMore"`
}

func RolesToResponse(roles []entity.Role) []RoleResponse {
	out := make([]RoleResponse, 0, len(roles))
	for _, r := range roles {
		out = append(out, RoleResponse{Role: r.Kind, ObjectID: r.ObjectID})
	}
	return out
}

func UserToResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Roles: RolesToResponse(user.Roles),
	}
}
