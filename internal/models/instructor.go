package models

import "gorm.io/datatypes"

// Instructor is the teaching profile of a user whose role is instructor.
// Exactly one row per such user.
type Instructor struct {
	BaseModel
	UserID          string         `gorm:"not null;uniqueIndex"`
	Bio             string
	Specialties     datatypes.JSON `gorm:"type:jsonb"` // ["Music", "Dance", ...]
	ExperienceYears int
	HourlyRate      float64
	Location        string
	IsVerified      bool   `gorm:"default:false"`
	IsActive        bool   `gorm:"default:true"`
	StripeAccountID string // Connect payout destination

	// Relations
	User    *User   `gorm:"foreignKey:UserID"`
	Classes []Class `gorm:"foreignKey:InstructorID"`
}
