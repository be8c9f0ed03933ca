package models

import "time"

type User struct {
	BaseModel
	Email             string     `gorm:"uniqueIndex;not null"`
	PasswordHash      string     `gorm:"not null"`
	FullName          string
	AvatarURL         string
	Role              UserRole   `gorm:"type:varchar(20);not null;default:'student'"`
	Credits           int        `gorm:"not null;default:0;check:credits >= 0"`
	Status            UserStatus `gorm:"type:varchar(20);default:'pending'"`
	IsVerified        bool       `gorm:"default:false"`
	VerificationToken string
	ResetToken        string
	ResetTokenExp     *time.Time
	StripeCustomerID  string

	// Relations
	Instructor    *Instructor    `gorm:"foreignKey:UserID"`
	Subscription  *Subscription  `gorm:"foreignKey:UserID"`
	Bookings      []Booking      `gorm:"foreignKey:UserID"`
	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID"`
}

type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"not null;index"`
	Token     string    `gorm:"not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null"`
}
