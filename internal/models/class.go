package models

import "time"

// Class is a scheduled offering owned by exactly one instructor.
// PriceCredits and PriceDollars are alternative prices: a booking settles
// in one unit or the other, never both.
type Class struct {
	BaseModel
	InstructorID      string `gorm:"not null;index"`
	Title             string `gorm:"not null"`
	Description       string
	Category          string `gorm:"not null;index"`
	Subcategory       string
	DurationMinutes   int
	MaxStudents       int     `gorm:"not null;check:max_students > 0"`
	PriceCredits      int     `gorm:"not null;check:price_credits >= 0"`
	PriceDollars      float64 `gorm:"not null;check:price_dollars >= 0"`
	Location          string
	IsVirtual         bool `gorm:"default:false"`
	VirtualMeetingURL string
	ScheduledAt       time.Time `gorm:"not null;index"`
	IsActive          bool      `gorm:"default:true"`

	// Relations
	Instructor *Instructor `gorm:"foreignKey:InstructorID"`
	Bookings   []Booking   `gorm:"foreignKey:ClassID"`
}

// EndsAt returns the scheduled end of the class.
func (c *Class) EndsAt() time.Time {
	return c.ScheduledAt.Add(time.Duration(c.DurationMinutes) * time.Minute)
}
