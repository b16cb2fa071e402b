package models

import "time"

type AuditAction string

const (
	AuditActionCreate   AuditAction = "create"
	AuditActionUpdate   AuditAction = "update"
	AuditActionClassify AuditAction = "classify"
	AuditActionReject   AuditAction = "reject"
)

type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID   uint   `json:"user_id"`
	UserName string `gorm:"size:100" json:"user_name"` // denormalize ไว้เพื่อให้อ่าน log ได้เลย

	// entity ที่ถูกแก้ (เช่น "payment", "order", "pawn", "savings_account")
	EntityType string `gorm:"size:50;index" json:"entity_type"`
	EntityID   uint   `gorm:"index" json:"entity_id"`

	Action      AuditAction `gorm:"size:20" json:"action"`
	Description string      `gorm:"size:255" json:"description"`

	// สภาพก่อน/หลัง (JSON)
	BeforeData string `gorm:"type:json" json:"before_data"`
	AfterData  string `gorm:"type:json" json:"after_data"`
}
