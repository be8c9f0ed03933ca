package models

type FavoriteInstructor struct {
	BaseModel
	UserID       string `gorm:"not null;index;uniqueIndex:idx_fav_user_instructor"`
	InstructorID string `gorm:"not null;index;uniqueIndex:idx_fav_user_instructor"`

	// Relations
	Instructor *Instructor `gorm:"foreignKey:InstructorID"`
}
