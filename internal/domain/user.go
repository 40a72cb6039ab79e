package domain

import "time"

// User Model
type User struct {
	ID         uint       `gorm:"primaryKey" json:"id"`                // Primary key
	Username   string     `gorm:"size:30;unique;not null" json:"username"` // Unique username
	Email      string     `gorm:"size:255;unique;not null" json:"email"`   // Unique email address
	Password   string     `gorm:"size:128;not null" json:"-"`          // Bcrypt hash, never serialized
	FirstName  *string    `gorm:"size:30" json:"first_name"`           // Optional first name
	LastName   *string    `gorm:"size:30" json:"last_name"`            // Optional last name
	Patronymic *string    `gorm:"size:30" json:"patronymic"`           // Optional patronymic
	Photo      *string    `gorm:"size:255" json:"photo"`               // Reference to the profile photo (photos/user/<id>/profile/<name>)
	IsActive   bool       `gorm:"default:true" json:"is_active"`       // Inactive accounts cannot log in
	LastLogin  *time.Time `json:"last_login"`                          // Stamped on each successful login
	CreatedAt  time.Time  `json:"created_at"`                          // Timestamp of creation
	UpdatedAt  time.Time  `json:"updated_at"`                          // Timestamp of last update
	Vehicles   []Vehicle  `gorm:"foreignKey:OwnerID" json:"-"`         // Vehicles owned by the user
}
