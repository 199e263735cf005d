package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a dashboard admin account
type User struct {
	gorm.Model
	UUID         string `json:"uuid" gorm:"type:uuid;uniqueIndex"`
	Name         string `json:"name"`
	Email        string `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"not null"`
	IsDeleted    bool   `gorm:"default:false"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.UUID == "" {
		u.UUID = uuid.NewString()
	}
	return
}
