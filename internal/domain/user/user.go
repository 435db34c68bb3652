package user

import (
	"time"

	"github.com/google/uuid"
)

type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email    string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password string    `gorm:"not null;column:password" json:"-"`

	Nickname       string `gorm:"column:nickname;not null;default:''" json:"nickname"`
	Biography      string `gorm:"column:biography;type:varchar(300);not null;default:''" json:"biography"`
	PreferredTheme Theme  `gorm:"column:preferred_theme;not null;default:'system'" json:"preferred_theme"`
	AvatarColor    string `gorm:"column:avatar_color;not null;default:''" json:"avatar_color"`
	AvatarPNG      []byte `gorm:"column:avatar_png" json:"-"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string { return "user" }

func (u *User) HasAvatar() bool { return u != nil && len(u.AvatarPNG) > 0 }
