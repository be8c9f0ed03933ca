package models

type Review struct {
	BaseModel
	UserID       string  `gorm:"not null;index"`
	InstructorID string  `gorm:"not null;index"`
	ClassID      *string `gorm:"index"`
	Rating       int     `gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment      string

	// Relations
	User       *User       `gorm:"foreignKey:UserID"`
	Instructor *Instructor `gorm:"foreignKey:InstructorID"`
	Class      *Class      `gorm:"foreignKey:ClassID"`
}
