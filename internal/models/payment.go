package models

import "time"

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"  // รอตรวจสอบ
	PaymentStatusVerified PaymentStatus = "verified" // ตรวจสอบแล้ว
	PaymentStatusRejected PaymentStatus = "rejected" // ปฏิเสธ
)

type MatchStatus string

const (
	MatchStatusPending       MatchStatus = "pending"
	MatchStatusAutoMatched   MatchStatus = "auto_matched"
	MatchStatusManualMatched MatchStatus = "manual_matched"
	MatchStatusNoMatch       MatchStatus = "no_match"
)

type ClassifiedAs string

const (
	ClassifiedAsOrder    ClassifiedAs = "order"
	ClassifiedAsPawn     ClassifiedAs = "pawn"
	ClassifiedAsRejected ClassifiedAs = "rejected"
)

// Payment: สลิปโอนเงินที่ลูกค้าส่งเข้ามา รอแอดมินจัดประเภท
// เมื่อ Status ไม่ใช่ pending แล้วจะแก้ไขไม่ได้อีก (terminal)
type Payment struct {
	ID            uint    `gorm:"primaryKey"`
	RefCode       string  `gorm:"size:36;uniqueIndex;not null"` // รหัสอ้างอิงสลิป
	CustomerID    uint    `gorm:"index;not null"`
	Customer      Customer
	BankAccountID *uint   `gorm:"index"` // บัญชีร้านที่ลูกค้าโอนเข้า
	Amount        float64 `gorm:"not null"`
	SenderName    string  `gorm:"size:100"`
	SlipURL       string  `gorm:"size:500"` // URL รูปสลิป (ฝั่ง storage เป็นระบบภายนอก)

	Status      PaymentStatus `gorm:"size:20;not null;default:pending;index"`
	MatchStatus MatchStatus   `gorm:"size:20;not null;default:pending;index"`

	// ผลการจัดประเภท — OrderID กับ LinkedPawnPaymentID ต้องไม่ถูกตั้งพร้อมกัน
	ClassifiedAs        ClassifiedAs `gorm:"size:20"`
	OrderID             *uint        `gorm:"index"`
	LinkedPawnPaymentID *uint        `gorm:"uniqueIndex"`
	RejectReason        string       `gorm:"size:255"`

	ClassifiedBy *uint // admin user id
	ClassifiedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
