package models

import "time"

// BankAccount: บัญชีธนาคารของร้านสำหรับรับโอน
type BankAccount struct {
	ID            uint   `gorm:"primaryKey"`
	BankName      string `gorm:"size:100;not null"`
	AccountNumber string `gorm:"size:30;not null"`
	AccountName   string `gorm:"size:100;not null"`
	IsActive      bool   `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
