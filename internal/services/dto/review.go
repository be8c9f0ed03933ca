package dto

import (
	"time"

	"becreative_backend/internal/models"
)

type CreateReviewRequest struct {
	InstructorID string `json:"instructor_id" binding:"required,uuid"`
	ClassID      string `json:"class_id" binding:"omitempty,uuid"`
	Rating       int    `json:"rating" binding:"required,min=1,max=5"`
	Comment      string `json:"comment" binding:"max=2000"`
}

type ReviewResponse struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	UserName     string    `json:"user_name,omitempty"`
	InstructorID string    `json:"instructor_id"`
	ClassID      *string   `json:"class_id,omitempty"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

func NewReviewResponse(r *models.Review) ReviewResponse {
	resp := ReviewResponse{
		ID:           r.ID,
		UserID:       r.UserID,
		InstructorID: r.InstructorID,
		ClassID:      r.ClassID,
		Rating:       r.Rating,
		Comment:      r.Comment,
		CreatedAt:    r.CreatedAt,
	}
	if r.User != nil {
		resp.UserName = r.User.FullName
	}
	return resp
}
