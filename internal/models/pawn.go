package models

import "time"

type PawnStatus string

const (
	PawnStatusActive    PawnStatus = "active"
	PawnStatusOverdue   PawnStatus = "overdue"
	PawnStatusRedeemed  PawnStatus = "redeemed"  // ไถ่ถอนแล้ว
	PawnStatusForfeited PawnStatus = "forfeited" // หลุดจำนำ
)

// Pawn: รายการรับจำนำ
type Pawn struct {
	ID                     uint `gorm:"primaryKey"`
	CustomerID             uint `gorm:"index;not null"`
	Customer               Customer
	ItemName               string     `gorm:"size:200;not null"` // ชื่อทรัพย์จำนำ
	LoanAmount             float64    `gorm:"not null"`          // เงินต้น
	InterestRate           float64    `gorm:"not null"`          // % ต่อเดือน
	ExpectedInterestAmount float64    `gorm:"not null"`          // ดอกเบี้ยต่อรอบ
	CurrentInterestAccrued float64    // ดอกเบี้ยค้างสะสมของรอบปัจจุบัน
	Status                 PawnStatus `gorm:"size:20;not null;default:active;index"`
	NextPaymentDue         time.Time  `gorm:"index;not null"`
	ExtensionCount         int        // จำนวนครั้งที่ต่อดอก
	LastPaymentDate        *time.Time
	RedeemedAt             *time.Time
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// PawnPayment: บันทึกการชำระของรายการจำนำ สร้างครั้งเดียวต่อสลิป แก้ไขไม่ได้
type PawnPayment struct {
	ID              uint `gorm:"primaryKey"`
	PawnID          uint `gorm:"index;not null"`
	Pawn            Pawn
	PrincipalAmount float64 `gorm:"not null"`
	InterestAmount  float64 `gorm:"not null"`
	TotalAmount     float64 `gorm:"not null"`
	IsRedemption    bool    `gorm:"not null;default:false"`
	SourcePaymentID uint    `gorm:"uniqueIndex;not null"` // อ้างกลับไปที่ Payment ต้นทาง (1:1)
	CreatedAt       time.Time
}
