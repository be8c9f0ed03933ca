package dto

import "becreative_backend/internal/models"

type UpdateProfileRequest struct {
	FullName *string `json:"full_name,omitempty" binding:"omitempty,min=2,max=100"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// UpdateUserStatusRequest - admin moderation action
type UpdateUserStatusRequest struct {
	Status models.UserStatus `json:"status" binding:"required,oneof=pending active suspended banned"`
}

type UpdateUserRoleRequest struct {
	Role models.UserRole `json:"role" binding:"required,is-user-role"`
}

// AdjustCreditsRequest - admin credit grant or correction, delta may be negative
type AdjustCreditsRequest struct {
	Delta  int    `json:"delta" binding:"required"`
	Reason string `json:"reason" binding:"required,min=3,max=200"`
}

type UserListQuery struct {
	Pagination
	Role   string `form:"role" binding:"omitempty,is-user-role"`
	Status string `form:"status" binding:"omitempty,oneof=pending active suspended banned"`
	Search string `form:"search"`
}

type AvatarResponse struct {
	AvatarURL string `json:"avatar_url"`
}

type CreditsResponse struct {
	Credits int `json:"credits"`
}
