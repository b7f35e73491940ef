package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           string `gorm:"primaryKey"               json:"id"`
	Username     string `gorm:"not null"                 json:"username"`
	Email        string `gorm:"unique;not null"          json:"email"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null;default:user"    json:"role"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Movie is keyed by the external metadata id (MovieID), not the row id.
type Movie struct {
	ID            uint    `gorm:"primaryKey;autoIncrement" json:"-"`
	MovieID       string  `gorm:"unique;not null"          json:"movieId"`
	Title         string  `gorm:"not null"                 json:"title"`
	PosterPath    string  `json:"poster_path"`
	Genres        string  `json:"genres"`
	Tagline       string  `json:"tagline"`
	Director      string  `json:"director"`
	OriginalTitle string  `json:"original_title"`
	Rating        float64 `json:"rating"`
	Runtime       int     `json:"runtime"`
	TorrentLink   string  `json:"torrent_link"`
	Overview      string  `json:"overview"`
	Year          int     `json:"year"`
	UserID        string  `gorm:"index;not null"           json:"userId"`
}

type Review struct {
	ID        string    `gorm:"primaryKey"      json:"id"`
	Comment   string    `gorm:"not null"        json:"comment"`
	Rating    float64   `gorm:"not null"        json:"rating"`
	UserID    string    `gorm:"index;not null"  json:"userId"`
	MovieID   string    `gorm:"index;not null"  json:"movieId"`
	CreatedAt time.Time `json:"createdAt"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
