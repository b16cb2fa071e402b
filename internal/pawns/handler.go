package pawns

import (
	"fmt"
	"time"

	"pawnshop-backend/internal/audit"
	"pawnshop-backend/internal/auth"
	"pawnshop-backend/internal/database"
	"pawnshop-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreatePawnRequest struct {
	CustomerID   uint    `json:"customer_id"`
	ItemName     string  `json:"item_name"`
	LoanAmount   float64 `json:"loan_amount"`
	InterestRate float64 `json:"interest_rate"` // % ต่อเดือน
	DueDate      *string `json:"due_date"`      // "2026-10-01" ไม่ระบุ = 30 วันจากวันนี้
}

type PawnResponse struct {
	ID                     uint              `json:"id"`
	CustomerID             uint              `json:"customer_id"`
	CustomerName           string            `json:"customer_name,omitempty"`
	ItemName               string            `json:"item_name"`
	LoanAmount             float64           `json:"loan_amount"`
	InterestRate           float64           `json:"interest_rate"`
	ExpectedInterestAmount float64           `json:"expected_interest_amount"`
	CurrentInterestAccrued float64           `json:"current_interest_accrued"`
	Status                 models.PawnStatus `json:"status"`
	NextPaymentDue         string            `json:"next_payment_due"`
	ExtensionCount         int               `json:"extension_count"`
	RedeemedAt             *string           `json:"redeemed_at,omitempty"`
	CreatedAt              string            `json:"created_at"`
}

func toResponse(p models.Pawn) PawnResponse {
	resp := PawnResponse{
		ID:                     p.ID,
		CustomerID:             p.CustomerID,
		CustomerName:           p.Customer.Name,
		ItemName:               p.ItemName,
		LoanAmount:             p.LoanAmount,
		InterestRate:           p.InterestRate,
		ExpectedInterestAmount: p.ExpectedInterestAmount,
		CurrentInterestAccrued: p.CurrentInterestAccrued,
		Status:                 p.Status,
		NextPaymentDue:         p.NextPaymentDue.Format("2006-01-02"),
		ExtensionCount:         p.ExtensionCount,
		CreatedAt:              p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if p.RedeemedAt != nil {
		s := p.RedeemedAt.Format("2006-01-02T15:04:05Z07:00")
		resp.RedeemedAt = &s
	}
	return resp
}

// POST /api/admin/pawns
func CreatePawnHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, err := auth.CurrentPrincipal(c)
		if err != nil {
			return err
		}

		var body CreatePawnRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "ข้อมูลคำขอไม่ถูกต้อง")
		}

		if body.CustomerID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ต้องระบุ customer_id")
		}
		if body.ItemName == "" {
			return fiber.NewError(fiber.StatusBadRequest, "ต้องระบุชื่อทรัพย์จำนำ")
		}
		if body.LoanAmount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "เงินต้นต้องมากกว่า 0")
		}
		if body.InterestRate <= 0 || body.InterestRate > 10 {
			return fiber.NewError(fiber.StatusBadRequest, "อัตราดอกเบี้ยต้องอยู่ระหว่าง 0 ถึง 10% ต่อเดือน")
		}

		var customer models.Customer
		if err := database.DB.First(&customer, body.CustomerID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "ไม่พบลูกค้า")
		}

		var due time.Time
		if body.DueDate == nil || *body.DueDate == "" {
			due = time.Now().AddDate(0, 0, 30)
		} else {
			d, err := time.Parse("2006-01-02", *body.DueDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "รูปแบบวันที่ต้องเป็น 'YYYY-MM-DD'")
			}
			due = d
		}

		pawn := models.Pawn{
			CustomerID:             customer.ID,
			ItemName:               body.ItemName,
			LoanAmount:             body.LoanAmount,
			InterestRate:           body.InterestRate,
			ExpectedInterestAmount: body.LoanAmount * body.InterestRate / 100,
			Status:                 models.PawnStatusActive,
			NextPaymentDue:         due,
		}

		if err := database.DB.Create(&pawn).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "สร้างรายการจำนำไม่สำเร็จ")
		}

		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      principal.UserID,
			UserName:    principal.Name,
			EntityType:  "pawn",
			EntityID:    pawn.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("รับจำนำ %s เงินต้น %.2f บาท", pawn.ItemName, pawn.LoanAmount),
			After:       toResponse(pawn),
		}); logErr != nil {
			fmt.Printf("เขียน audit log ไม่สำเร็จ: %v\n", logErr)
		}

		pawn.Customer = customer
		return c.Status(fiber.StatusCreated).JSON(toResponse(pawn))
	}
}

// GET /api/admin/pawns?customer_id=1&status=active
func ListPawnsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Pawn{}).Preload("Customer")

		if cidStr := c.Query("customer_id"); cidStr != "" {
			var cid uint
			if _, err := fmt.Sscan(cidStr, &cid); err != nil || cid == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "customer_id ไม่ถูกต้อง")
			}
			dbq = dbq.Where("customer_id = ?", cid)
		}

		if status := c.Query("status"); status != "" {
			dbq = dbq.Where("status = ?", status)
		}

		var list []models.Pawn
		if err := dbq.Order("next_payment_due ASC").Limit(100).Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "ดึงรายการจำนำไม่สำเร็จ")
		}

		resp := make([]PawnResponse, 0, len(list))
		for _, p := range list {
			resp = append(resp, toResponse(p))
		}
		return c.JSON(resp)
	}
}

// GET /api/admin/pawns/:id — รวมประวัติการชำระ
func GetPawnHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id ไม่ถูกต้อง")
		}

		var pawn models.Pawn
		if err := database.DB.Preload("Customer").First(&pawn, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "ไม่พบรายการจำนำ")
		}

		var history []models.PawnPayment
		if err := database.DB.Where("pawn_id = ?", pawn.ID).
			Order("created_at ASC").Find(&history).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "ดึงประวัติการชำระไม่สำเร็จ")
		}

		return c.JSON(fiber.Map{
			"pawn":     toResponse(pawn),
			"payments": history,
		})
	}
}

// POST /api/admin/pawns/mark-overdue
// กวาดรายการ active ที่เลยกำหนดชำระให้เป็น overdue (แอดมินกดจากหน้า dashboard)
func MarkOverdueHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		result := database.DB.Model(&models.Pawn{}).
			Where("status = ? AND next_payment_due < ?", models.PawnStatusActive, time.Now()).
			Update("status", models.PawnStatusOverdue)
		if result.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "อัปเดตสถานะไม่สำเร็จ")
		}

		return c.JSON(fiber.Map{
			"updated": result.RowsAffected,
		})
	}
}
