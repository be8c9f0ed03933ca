package dto

import (
	"time"

	"becreative_backend/internal/models"
)

// CreateInstructorRequest - the become-an-instructor application
type CreateInstructorRequest struct {
	Bio             string   `json:"bio" binding:"required,min=20,max=2000"`
	Specialties     []string `json:"specialties" binding:"required,min=1,dive,min=2,max=50"`
	ExperienceYears int      `json:"experience_years" binding:"min=0,max=80"`
	HourlyRate      float64  `json:"hourly_rate" binding:"required,gt=0"`
	Location        string   `json:"location" binding:"required,min=2,max=100"`
}

type UpdateInstructorRequest struct {
	Bio             *string   `json:"bio,omitempty" binding:"omitempty,min=20,max=2000"`
	Specialties     *[]string `json:"specialties,omitempty" binding:"omitempty,min=1,dive,min=2,max=50"`
	ExperienceYears *int      `json:"experience_years,omitempty" binding:"omitempty,min=0,max=80"`
	HourlyRate      *float64  `json:"hourly_rate,omitempty" binding:"omitempty,gt=0"`
	Location        *string   `json:"location,omitempty" binding:"omitempty,min=2,max=100"`
	IsActive        *bool     `json:"is_active,omitempty"`
}

type InstructorListQuery struct {
	Pagination
	Specialty    string `form:"specialty"`
	Location     string `form:"location"`
	VerifiedOnly bool   `form:"verified_only"`
}

type InstructorResponse struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	FullName        string    `json:"full_name,omitempty"`
	AvatarURL       string    `json:"avatar_url,omitempty"`
	Bio             string    `json:"bio"`
	Specialties     []string  `json:"specialties"`
	ExperienceYears int       `json:"experience_years"`
	HourlyRate      float64   `json:"hourly_rate"`
	Location        string    `json:"location"`
	IsVerified      bool      `json:"is_verified"`
	IsActive        bool      `json:"is_active"`
	Rating          float64   `json:"rating"`
	ReviewCount     int64     `json:"review_count"`
	CreatedAt       time.Time `json:"created_at"`
}

// OnboardingResponse - Stripe Connect onboarding link for payouts
type OnboardingResponse struct {
	Instructor InstructorResponse `json:"instructor"`
	OnboardURL string             `json:"onboard_url,omitempty"`
}

func NewInstructorResponse(ins *models.Instructor, specialties []string) InstructorResponse {
	resp := InstructorResponse{
		ID:              ins.ID,
		UserID:          ins.UserID,
		Bio:             ins.Bio,
		Specialties:     specialties,
		ExperienceYears: ins.ExperienceYears,
		HourlyRate:      ins.HourlyRate,
		Location:        ins.Location,
		IsVerified:      ins.IsVerified,
		IsActive:        ins.IsActive,
		CreatedAt:       ins.CreatedAt,
	}
	if ins.User != nil {
		resp.FullName = ins.User.FullName
		resp.AvatarURL = ins.User.AvatarURL
	}
	return resp
}
