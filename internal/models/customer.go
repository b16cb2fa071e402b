package models

import "time"

type Customer struct {
	ID         uint    `gorm:"primaryKey"`
	LineUserID *string `gorm:"size:64;uniqueIndex"` // LINE user id (ลูกค้าที่มาจาก chatbot)
	Name       string  `gorm:"size:100;not null"`
	Phone      string  `gorm:"size:20;index"`
	Note       string  `gorm:"size:255"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
