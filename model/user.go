package model

import "time"

// User is owned by the accounts service; the messenger only reads it.
type User struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Firstname string    `gorm:"size:100;not null" json:"firstname"`
	Email     string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Phone     string    `gorm:"size:20" json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

// DisplayName is the "<firstname> <name>" form used in notifications and pushes.
func (u User) DisplayName() string {
	switch {
	case u.Firstname == "":
		return u.Name
	case u.Name == "":
		return u.Firstname
	}
	return u.Firstname + " " + u.Name
}

// Car is owned by the listings service; read-only here.
type Car struct {
	ID        int64      `gorm:"primaryKey" json:"id"`
	Title     string     `gorm:"size:255;not null" json:"title"`
	Brand     string     `gorm:"size:100" json:"brand"`
	AddedByID int64      `gorm:"index" json:"added_by_id"`
	Photos    []CarPhoto `gorm:"constraint:OnDelete:CASCADE" json:"photos,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type CarPhoto struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	CarID     int64     `gorm:"not null;index" json:"car_id"`
	PhotoURL  string    `gorm:"size:255;not null" json:"photo_url"`
	CreatedAt time.Time `json:"created_at"`
}
