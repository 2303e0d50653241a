package models

import (
	"time"
)

// SessionRecord is the single-row table backing the SQLite session store
type SessionRecord struct {
	Key       string    `gorm:"column:session_key;size:128;primarykey" json:"key"`
	LoggedIn  bool      `gorm:"not null;default:false" json:"logged_in"`
	Username  string    `gorm:"size:255" json:"username"`
	FirstName string    `gorm:"size:255" json:"first_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName pins the table name independent of gorm's pluralisation
func (SessionRecord) TableName() string {
	return "client_sessions"
}
