package dto

import "dmserver/internal/domain"

// UserInfo is the outward shape of a user. The credential hash never leaves
// the domain layer.
type UserInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func NewUserInfo(u domain.User) UserInfo {
	return UserInfo{
		ID:    u.ID.String(),
		Name:  u.Name,
		Email: u.Email,
	}
}
