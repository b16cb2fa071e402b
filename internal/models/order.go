package models

import "time"

type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusPaymentPending OrderStatus = "payment_pending"
	OrderStatusProcessing     OrderStatus = "processing"
	OrderStatusInstallment    OrderStatus = "installment" // ผ่อนชำระอยู่
	OrderStatusPaid           OrderStatus = "paid"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

// Order: คำสั่งซื้อ/สัญญาผ่อนชำระ
// RemainingAmount ลดลงอย่างเดียวเมื่อมีการจัดประเภทสลิปเข้า order นี้
type Order struct {
	ID                uint `gorm:"primaryKey"`
	CustomerID        uint `gorm:"index;not null"`
	Customer          Customer
	TotalAmount       float64     `gorm:"not null"`
	RemainingAmount   float64     `gorm:"not null"`
	InstallmentAmount float64     // ยอดผ่อนต่องวด (0 = ไม่ใช่สัญญาผ่อน)
	Status            OrderStatus `gorm:"size:20;not null;default:pending;index"`
	Description       string      `gorm:"size:255"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
