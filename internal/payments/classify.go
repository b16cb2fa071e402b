package payments

import (
	"fmt"
	"log"
	"strings"
	"time"

	"pawnshop-backend/internal/audit"
	"pawnshop-backend/internal/auth"
	"pawnshop-backend/internal/database"
	"pawnshop-backend/internal/events"
	"pawnshop-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm/clause"
)

type ClassifyType string

const (
	ClassifyOrder  ClassifyType = "order"
	ClassifyPawn   ClassifyType = "pawn"
	ClassifyReject ClassifyType = "reject"
)

type PawnPaymentKind string

const (
	PawnPaymentInterest   PawnPaymentKind = "interest"   // ต่อดอก
	PawnPaymentRedemption PawnPaymentKind = "redemption" // ไถ่ถอน
	PawnPaymentPartial    PawnPaymentKind = "partial"    // ชำระบางส่วน
)

// รอบต่อดอกหนึ่งรอบ = 30 วัน
const extensionPeriodDays = 30

type ClassifyRequest struct {
	PaymentID    uint            `json:"payment_id"`
	ClassifyType ClassifyType    `json:"classify_type"` // order | pawn | reject
	OrderID      uint            `json:"order_id"`
	PawnID       uint            `json:"pawn_id"`
	PaymentKind  PawnPaymentKind `json:"payment_type"` // เฉพาะ pawn
	Reason       string          `json:"reason"`       // เฉพาะ reject
}

type ClassifyResult struct {
	Payment models.Payment
	Message string
}

// splitPawnAmount แบ่งยอดโอนเป็นเงินต้น/ดอกเบี้ยตามประเภทการชำระ
// - interest / partial: ตัดดอกเบี้ยก่อน (ไม่เกินดอกเบี้ยที่คาดไว้) ที่เหลือเป็นเงินต้น
// - redemption: เงินต้นเต็มจำนวน ส่วนที่เหลือเป็นดอกเบี้ย
func splitPawnAmount(kind PawnPaymentKind, amount float64, pawn models.Pawn) (principal, interest float64) {
	if kind == PawnPaymentRedemption {
		principal = pawn.LoanAmount
		interest = amount - pawn.LoanAmount
		return principal, interest
	}

	interest = amount
	if interest > pawn.ExpectedInterestAmount {
		interest = pawn.ExpectedInterestAmount
	}
	principal = amount - interest
	return principal, interest
}

// extendDueDate คืนวันครบกำหนดใหม่หลังต่อดอก นับจากเวลาที่ชำระ
func extendDueDate(paidAt time.Time) time.Time {
	return paidAt.AddDate(0, 0, extensionPeriodDays)
}

// ensurePending: สลิปที่ไม่ใช่ pending เป็นสถานะปลายทางแล้ว ห้ามจัดประเภทซ้ำ
func ensurePending(p models.Payment) error {
	if p.Status != models.PaymentStatusPending {
		return fiber.NewError(fiber.StatusBadRequest, "รายการชำระเงินนี้ถูกดำเนินการไปแล้ว")
	}
	return nil
}

// applyOrderPayment คำนวณยอดคงเหลือใหม่ของ order (ไม่ต่ำกว่า 0)
// paid = จ่ายครบแล้ว order ต้องเปลี่ยนสถานะเป็น paid
func applyOrderPayment(order models.Order, amount float64) (newRemaining float64, paid bool) {
	newRemaining = order.RemainingAmount - amount
	if newRemaining < 0 {
		newRemaining = 0
	}
	return newRemaining, newRemaining <= 0
}

// applyReject ตั้งค่าฝั่ง payment อย่างเดียว ไม่มีการแตะ order หรือรายการจำนำ
func applyReject(p models.Payment, reason string, adminID uint, at time.Time) models.Payment {
	p.Status = models.PaymentStatusRejected
	p.MatchStatus = models.MatchStatusNoMatch
	p.ClassifiedAs = models.ClassifiedAsRejected
	p.RejectReason = strings.TrimSpace(reason)
	p.ClassifiedBy = &adminID
	p.ClassifiedAt = &at
	return p
}

// Classify ดำเนินการจัดประเภทสลิปหนึ่งใบใน transaction เดียว
// เงื่อนไขบังคับทุกสาขา: payment ต้องยัง pending อยู่ (ตรวจซ้ำใน transaction พร้อม lock แถว
// กันแอดมินสองคนจัดประเภทสลิปเดียวกันพร้อมกัน) ผิดเงื่อนไขเมื่อไหร่ rollback ทั้งหมด
func Classify(principal auth.Principal, req ClassifyRequest) (*ClassifyResult, error) {
	if req.PaymentID == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "ต้องระบุ payment_id")
	}

	switch req.ClassifyType {
	case ClassifyOrder, ClassifyPawn, ClassifyReject:
	default:
		return nil, fiber.NewError(fiber.StatusBadRequest, "classify_type ต้องเป็น order, pawn หรือ reject")
	}

	if req.ClassifyType == ClassifyReject && strings.TrimSpace(req.Reason) == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "ต้องระบุเหตุผลในการปฏิเสธ")
	}

	now := time.Now()

	tx := database.DB.Begin()
	if tx.Error != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "เริ่ม transaction ไม่สำเร็จ")
	}
	defer tx.Rollback() // no-op หลัง commit สำเร็จ

	var payment models.Payment
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&payment, "id = ?", req.PaymentID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "ไม่พบรายการชำระเงิน")
	}

	if err := ensurePending(payment); err != nil {
		return nil, err
	}

	before := paymentSnapshot(payment)

	var (
		message     string
		auditAction = models.AuditActionClassify
		eventKind   string
		eventTarget uint
	)

	switch req.ClassifyType {
	case ClassifyOrder:
		if req.OrderID == 0 {
			return nil, fiber.NewError(fiber.StatusBadRequest, "ต้องระบุ order_id")
		}

		var order models.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&order, "id = ? AND customer_id = ?", req.OrderID, payment.CustomerID).Error; err != nil {
			return nil, fiber.NewError(fiber.StatusNotFound, "ไม่พบคำสั่งซื้อของลูกค้ารายนี้")
		}

		newRemaining, paid := applyOrderPayment(order, payment.Amount)

		updates := map[string]interface{}{"remaining_amount": newRemaining}
		if paid {
			updates["status"] = models.OrderStatusPaid
		}
		if err := tx.Model(&order).Updates(updates).Error; err != nil {
			return nil, fiber.NewError(fiber.StatusInternalServerError, "อัปเดตคำสั่งซื้อไม่สำเร็จ")
		}

		payment.Status = models.PaymentStatusVerified
		payment.MatchStatus = models.MatchStatusManualMatched
		payment.ClassifiedAs = models.ClassifiedAsOrder
		payment.OrderID = &order.ID
		payment.ClassifiedBy = &principal.UserID
		payment.ClassifiedAt = &now

		message = fmt.Sprintf("จัดประเภทเข้าคำสั่งซื้อ #%d แล้ว (คงเหลือ %.2f บาท)", order.ID, newRemaining)
		eventTarget = order.ID

	case ClassifyPawn:
		if req.PawnID == 0 {
			return nil, fiber.NewError(fiber.StatusBadRequest, "ต้องระบุ pawn_id")
		}

		switch req.PaymentKind {
		case PawnPaymentInterest, PawnPaymentRedemption, PawnPaymentPartial:
		default:
			return nil, fiber.NewError(fiber.StatusBadRequest, "payment_type ต้องเป็น interest, redemption หรือ partial")
		}

		var pawn models.Pawn
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&pawn, "id = ? AND customer_id = ?", req.PawnID, payment.CustomerID).Error; err != nil {
			return nil, fiber.NewError(fiber.StatusNotFound, "ไม่พบรายการจำนำของลูกค้ารายนี้")
		}

		if req.PaymentKind == PawnPaymentRedemption && payment.Amount < pawn.LoanAmount {
			return nil, fiber.NewError(fiber.StatusBadRequest, "ยอดโอนไม่พอสำหรับไถ่ถอน (ต้องครอบคลุมเงินต้น)")
		}

		principalPaid, interestPaid := splitPawnAmount(req.PaymentKind, payment.Amount, pawn)

		pawnPayment := models.PawnPayment{
			PawnID:          pawn.ID,
			PrincipalAmount: principalPaid,
			InterestAmount:  interestPaid,
			TotalAmount:     payment.Amount,
			IsRedemption:    req.PaymentKind == PawnPaymentRedemption,
			SourcePaymentID: payment.ID,
		}
		if err := tx.Create(&pawnPayment).Error; err != nil {
			return nil, fiber.NewError(fiber.StatusInternalServerError, "บันทึกการชำระจำนำไม่สำเร็จ")
		}

		if req.PaymentKind == PawnPaymentRedemption {
			if err := tx.Model(&pawn).Updates(map[string]interface{}{
				"status":            models.PawnStatusRedeemed,
				"redeemed_at":       now,
				"last_payment_date": now,
			}).Error; err != nil {
				return nil, fiber.NewError(fiber.StatusInternalServerError, "อัปเดตรายการจำนำไม่สำเร็จ")
			}
			message = fmt.Sprintf("ไถ่ถอนรายการจำนำ #%d เรียบร้อย", pawn.ID)
		} else {
			// ต่อดอก: เลื่อนวันครบกำหนด 30 วัน ล้างดอกเบี้ยค้างของรอบนี้
			if err := tx.Model(&pawn).Updates(map[string]interface{}{
				"status":                   models.PawnStatusActive,
				"extension_count":          pawn.ExtensionCount + 1,
				"next_payment_due":         extendDueDate(now),
				"current_interest_accrued": 0,
				"last_payment_date":        now,
			}).Error; err != nil {
				return nil, fiber.NewError(fiber.StatusInternalServerError, "อัปเดตรายการจำนำไม่สำเร็จ")
			}
			message = fmt.Sprintf("ต่อดอกรายการจำนำ #%d แล้ว ครบกำหนดใหม่ %s", pawn.ID, extendDueDate(now).Format("2006-01-02"))
		}

		payment.Status = models.PaymentStatusVerified
		payment.MatchStatus = models.MatchStatusManualMatched
		payment.ClassifiedAs = models.ClassifiedAsPawn
		payment.LinkedPawnPaymentID = &pawnPayment.ID
		payment.ClassifiedBy = &principal.UserID
		payment.ClassifiedAt = &now

		eventKind = string(req.PaymentKind)
		eventTarget = pawn.ID

	case ClassifyReject:
		payment = applyReject(payment, req.Reason, principal.UserID, now)

		auditAction = models.AuditActionReject
		message = "ปฏิเสธรายการชำระเงินแล้ว"
	}

	if err := tx.Save(&payment).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "อัปเดตรายการชำระเงินไม่สำเร็จ")
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "บันทึกข้อมูลไม่สำเร็จ")
	}

	// หลัง commit: audit log + event + ล้าง cache (พลาดได้โดยไม่กระทบผลการจัดประเภท)
	if logErr := audit.WriteLog(audit.LogOptions{
		UserID:      principal.UserID,
		UserName:    principal.Name,
		EntityType:  "payment",
		EntityID:    payment.ID,
		Action:      auditAction,
		Description: message,
		Before:      before,
		After:       paymentSnapshot(payment),
	}); logErr != nil {
		log.Printf("เขียน audit log ไม่สำเร็จ: %v", logErr)
	}

	if req.ClassifyType == ClassifyReject {
		events.PublishPaymentRejected(events.PaymentRejectedEvent{
			PaymentID:  payment.ID,
			CustomerID: payment.CustomerID,
			Amount:     payment.Amount,
			Reason:     payment.RejectReason,
		})
	} else {
		events.PublishPaymentClassified(events.PaymentClassifiedEvent{
			PaymentID:    payment.ID,
			CustomerID:   payment.CustomerID,
			Amount:       payment.Amount,
			ClassifiedAs: string(payment.ClassifiedAs),
			TargetID:     eventTarget,
			PaymentKind:  eventKind,
		})
	}

	invalidateSummaryCache()

	return &ClassifyResult{Payment: payment, Message: message}, nil
}

// snapshot สำหรับ audit log — ตัด relation ออกกัน marshal วน
func paymentSnapshot(p models.Payment) map[string]interface{} {
	return map[string]interface{}{
		"id":                     p.ID,
		"customer_id":            p.CustomerID,
		"amount":                 p.Amount,
		"status":                 p.Status,
		"match_status":           p.MatchStatus,
		"classified_as":          p.ClassifiedAs,
		"order_id":               p.OrderID,
		"linked_pawn_payment_id": p.LinkedPawnPaymentID,
		"reject_reason":          p.RejectReason,
	}
}
