package dto

import (
	"time"

	"becreative_backend/internal/models"
)

type CreateClassRequest struct {
	Title             string    `json:"title" binding:"required,min=3,max=150"`
	Description       string    `json:"description" binding:"max=5000"`
	Category          string    `json:"category" binding:"required,min=2,max=50"`
	Subcategory       string    `json:"subcategory" binding:"max=50"`
	DurationMinutes   int       `json:"duration_minutes" binding:"required,min=15,max=480"`
	MaxStudents       int       `json:"max_students" binding:"required,min=1,max=500"`
	PriceCredits      int       `json:"price_credits" binding:"min=0"`
	PriceDollars      float64   `json:"price_dollars" binding:"min=0"`
	Location          string    `json:"location" binding:"max=200"`
	IsVirtual         bool      `json:"is_virtual"`
	VirtualMeetingURL string    `json:"virtual_meeting_url" binding:"omitempty,url"`
	ScheduledAt       time.Time `json:"scheduled_at" binding:"required"`
}

type UpdateClassRequest struct {
	Title             *string    `json:"title,omitempty" binding:"omitempty,min=3,max=150"`
	Description       *string    `json:"description,omitempty" binding:"omitempty,max=5000"`
	Category          *string    `json:"category,omitempty" binding:"omitempty,min=2,max=50"`
	Subcategory       *string    `json:"subcategory,omitempty" binding:"omitempty,max=50"`
	DurationMinutes   *int       `json:"duration_minutes,omitempty" binding:"omitempty,min=15,max=480"`
	MaxStudents       *int       `json:"max_students,omitempty" binding:"omitempty,min=1,max=500"`
	PriceCredits      *int       `json:"price_credits,omitempty" binding:"omitempty,min=0"`
	PriceDollars      *float64   `json:"price_dollars,omitempty" binding:"omitempty,min=0"`
	Location          *string    `json:"location,omitempty" binding:"omitempty,max=200"`
	IsVirtual         *bool      `json:"is_virtual,omitempty"`
	VirtualMeetingURL *string    `json:"virtual_meeting_url,omitempty" binding:"omitempty,url"`
	ScheduledAt       *time.Time `json:"scheduled_at,omitempty"`
	IsActive          *bool      `json:"is_active,omitempty"`
}

type ClassListQuery struct {
	Pagination
	InstructorID string `form:"instructor_id" binding:"omitempty,uuid"`
	Category     string `form:"category"`
	VirtualOnly  bool   `form:"virtual_only"`
	UpcomingOnly bool   `form:"upcoming_only"`
}

type ClassResponse struct {
	ID                string    `json:"id"`
	InstructorID      string    `json:"instructor_id"`
	InstructorName    string    `json:"instructor_name,omitempty"`
	Title             string    `json:"title"`
	Description       string    `json:"description,omitempty"`
	Category          string    `json:"category"`
	Subcategory       string    `json:"subcategory,omitempty"`
	DurationMinutes   int       `json:"duration_minutes"`
	MaxStudents       int       `json:"max_students"`
	SeatsLeft         int       `json:"seats_left"`
	PriceCredits      int       `json:"price_credits"`
	PriceDollars      float64   `json:"price_dollars"`
	Location          string    `json:"location,omitempty"`
	IsVirtual         bool      `json:"is_virtual"`
	VirtualMeetingURL string    `json:"virtual_meeting_url,omitempty"`
	ScheduledAt       time.Time `json:"scheduled_at"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
}

func NewClassResponse(c *models.Class, seatsTaken int64) ClassResponse {
	seatsLeft := c.MaxStudents - int(seatsTaken)
	if seatsLeft < 0 {
		seatsLeft = 0
	}

	resp := ClassResponse{
		ID:                c.ID,
		InstructorID:      c.InstructorID,
		Title:             c.Title,
		Description:       c.Description,
		Category:          c.Category,
		Subcategory:       c.Subcategory,
		DurationMinutes:   c.DurationMinutes,
		MaxStudents:       c.MaxStudents,
		SeatsLeft:         seatsLeft,
		PriceCredits:      c.PriceCredits,
		PriceDollars:      c.PriceDollars,
		Location:          c.Location,
		IsVirtual:         c.IsVirtual,
		VirtualMeetingURL: c.VirtualMeetingURL,
		ScheduledAt:       c.ScheduledAt,
		IsActive:          c.IsActive,
		CreatedAt:         c.CreatedAt,
	}
	if c.Instructor != nil && c.Instructor.User != nil {
		resp.InstructorName = c.Instructor.User.FullName
	}
	return resp
}
