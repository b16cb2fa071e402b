package models

import "time"

type SavingsStatus string

const (
	SavingsStatusActive SavingsStatus = "active"
	SavingsStatusClosed SavingsStatus = "closed"
)

// SavingsAccount: บัญชีออมของลูกค้า (ออมทอง/ออมเงิน)
type SavingsAccount struct {
	ID         uint `gorm:"primaryKey"`
	CustomerID uint `gorm:"index;not null"`
	Customer   Customer
	Balance    float64       `gorm:"not null;default:0"`
	Status     SavingsStatus `gorm:"size:20;not null;default:active"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type SavingsDeposit struct {
	ID        uint `gorm:"primaryKey"`
	AccountID uint `gorm:"index;not null"`
	Account   SavingsAccount `gorm:"foreignKey:AccountID"`
	Amount    float64        `gorm:"not null"`
	Note      string         `gorm:"size:255"`
	CreatedBy uint           // admin user id
	CreatedAt time.Time
}
