package payments

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"pawnshop-backend/internal/auth"
	"pawnshop-backend/internal/cache"
	"pawnshop-backend/internal/config"
	"pawnshop-backend/internal/database"
	"pawnshop-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type SubmitPaymentRequest struct {
	CustomerID    uint    `json:"customer_id"`
	LineUserID    string  `json:"line_user_id"` // ใช้แทน customer_id ได้ (ฝั่ง chatbot)
	BankAccountID *uint   `json:"bank_account_id"`
	Amount        float64 `json:"amount"`
	SenderName    string  `json:"sender_name"`
	SlipURL       string  `json:"slip_url"`
}

type PaymentResponse struct {
	ID            uint                `json:"id"`
	RefCode       string              `json:"ref_code"`
	CustomerID    uint                `json:"customer_id"`
	CustomerName  string              `json:"customer_name,omitempty"`
	BankAccountID *uint               `json:"bank_account_id"`
	Amount        float64             `json:"amount"`
	SenderName    string              `json:"sender_name"`
	SlipURL       string              `json:"slip_url"`
	Status        models.PaymentStatus `json:"status"`
	MatchStatus   models.MatchStatus  `json:"match_status"`
	ClassifiedAs  models.ClassifiedAs `json:"classified_as,omitempty"`
	OrderID       *uint               `json:"order_id"`
	RejectReason  string              `json:"reject_reason,omitempty"`
	CreatedAt     string              `json:"created_at"`
}

func toPaymentResponse(p models.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		RefCode:       p.RefCode,
		CustomerID:    p.CustomerID,
		CustomerName:  p.Customer.Name,
		BankAccountID: p.BankAccountID,
		Amount:        p.Amount,
		SenderName:    p.SenderName,
		SlipURL:       p.SlipURL,
		Status:        p.Status,
		MatchStatus:   p.MatchStatus,
		ClassifiedAs:  p.ClassifiedAs,
		OrderID:       p.OrderID,
		RejectReason:  p.RejectReason,
		CreatedAt:     p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// -------------------------------------------------
// POST /api/payments — chatbot ส่งสลิปเข้ามาเป็นรายการรอจัดประเภท
// -------------------------------------------------
func SubmitPaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SubmitPaymentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "ข้อมูลคำขอไม่ถูกต้อง")
		}

		if body.Amount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ยอดเงินต้องมากกว่า 0")
		}

		// หา customer จาก id หรือ LINE user id
		var customer models.Customer
		switch {
		case body.CustomerID != 0:
			if err := database.DB.First(&customer, body.CustomerID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "ไม่พบลูกค้า")
			}
		case body.LineUserID != "":
			if err := database.DB.First(&customer, "line_user_id = ?", body.LineUserID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "ไม่พบลูกค้า")
			}
		default:
			return fiber.NewError(fiber.StatusBadRequest, "ต้องระบุ customer_id หรือ line_user_id")
		}

		if body.BankAccountID != nil {
			var account models.BankAccount
			if err := database.DB.First(&account, "id = ? AND is_active = ?", *body.BankAccountID, true).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "bank_account_id ไม่ถูกต้อง")
			}
		}

		payment := models.Payment{
			RefCode:       uuid.NewString(),
			CustomerID:    customer.ID,
			BankAccountID: body.BankAccountID,
			Amount:        body.Amount,
			SenderName:    body.SenderName,
			SlipURL:       body.SlipURL,
			Status:        models.PaymentStatusPending,
			MatchStatus:   models.MatchStatusPending,
		}

		if err := database.DB.Create(&payment).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "บันทึกรายการชำระเงินไม่สำเร็จ")
		}

		invalidateSummaryCache()

		payment.Customer = customer
		return c.Status(fiber.StatusCreated).JSON(toPaymentResponse(payment))
	}
}

// -------------------------------------------------
// GET /api/admin/payments/pending-classify?filter=pending&limit=50
// filter: pending | no_match | auto_matched | manual_matched | all
// -------------------------------------------------
func PendingClassifyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		filter := c.Query("filter", "pending")

		limit := 50
		if limitStr := c.Query("limit"); limitStr != "" {
			if _, err := fmt.Sscan(limitStr, &limit); err != nil || limit <= 0 || limit > 200 {
				return fiber.NewError(fiber.StatusBadRequest, "limit ไม่ถูกต้อง")
			}
		}

		dbq := database.DB.Model(&models.Payment{}).Preload("Customer")

		switch filter {
		case "all":
			// ไม่กรอง
		case "pending", "no_match", "auto_matched", "manual_matched":
			dbq = dbq.Where("match_status = ?", filter)
		default:
			return fiber.NewError(fiber.StatusBadRequest, "filter ต้องเป็น pending, no_match, auto_matched, manual_matched หรือ all")
		}

		var list []models.Payment
		if err := dbq.Order("created_at DESC").Limit(limit).Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "ดึงรายการไม่สำเร็จ")
		}

		resp := make([]PaymentResponse, 0, len(list))
		for _, p := range list {
			resp = append(resp, toPaymentResponse(p))
		}

		return c.JSON(resp)
	}
}

type ClassifyDetailResponse struct {
	Payment         PaymentResponse  `json:"payment"`
	OrderCandidates []OrderCandidate `json:"order_candidates"`
	PawnCandidates  []PawnCandidate  `json:"pawn_candidates"`
}

// -------------------------------------------------
// GET /api/admin/payments/classify-detail/:id
// สลิป + candidate ทั้งสองฝั่งเรียงตามคะแนน
// -------------------------------------------------
func ClassifyDetailHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id ไม่ถูกต้อง")
		}

		var payment models.Payment
		if err := database.DB.Preload("Customer").First(&payment, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "ไม่พบรายการชำระเงิน")
		}

		orderCandidates, pawnCandidates, err := FindCandidates(payment.CustomerID, payment.Amount, cfg.PartialFloorRatio)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "ค้นหา candidate ไม่สำเร็จ")
		}

		return c.JSON(ClassifyDetailResponse{
			Payment:         toPaymentResponse(payment),
			OrderCandidates: orderCandidates,
			PawnCandidates:  pawnCandidates,
		})
	}
}

// -------------------------------------------------
// POST /api/admin/payments/classify
// -------------------------------------------------
func ClassifyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, err := auth.CurrentPrincipal(c)
		if err != nil {
			return err
		}

		var req ClassifyRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "ข้อมูลคำขอไม่ถูกต้อง")
		}

		result, err := Classify(principal, req)
		if err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"message": result.Message,
			"payment": toPaymentResponse(result.Payment),
		})
	}
}

// -------------------------------------------------
// GET /api/admin/payments/classify-summary
// นับจำนวนสลิปตาม match_status สำหรับ badge หน้า dashboard
// -------------------------------------------------

const summaryCacheKey = "payments:classify-summary"
const summaryCacheTTL = 60 * time.Second

type ClassifySummaryResponse struct {
	Pending       int64 `json:"pending"`
	AutoMatched   int64 `json:"auto_matched"`
	ManualMatched int64 `json:"manual_matched"`
	NoMatch       int64 `json:"no_match"`
	Total         int64 `json:"total"`
}

func ClassifySummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cache.Enabled() {
			if raw, err := cache.Redis.Get(cache.Ctx, summaryCacheKey).Result(); err == nil {
				var cached ClassifySummaryResponse
				if json.Unmarshal([]byte(raw), &cached) == nil {
					return c.JSON(cached)
				}
			}
		}

		type row struct {
			MatchStatus string `gorm:"column:match_status"`
			Count       int64  `gorm:"column:count"`
		}
		var rows []row

		err := database.DB.Model(&models.Payment{}).
			Select("match_status, COUNT(*) AS count").
			Group("match_status").
			Scan(&rows).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "สรุปข้อมูลไม่สำเร็จ")
		}

		var resp ClassifySummaryResponse
		for _, r := range rows {
			switch models.MatchStatus(r.MatchStatus) {
			case models.MatchStatusPending:
				resp.Pending = r.Count
			case models.MatchStatusAutoMatched:
				resp.AutoMatched = r.Count
			case models.MatchStatusManualMatched:
				resp.ManualMatched = r.Count
			case models.MatchStatusNoMatch:
				resp.NoMatch = r.Count
			}
			resp.Total += r.Count
		}

		if cache.Enabled() {
			if b, err := json.Marshal(resp); err == nil {
				if err := cache.Redis.Set(cache.Ctx, summaryCacheKey, b, summaryCacheTTL).Err(); err != nil {
					log.Printf("เขียน cache ไม่สำเร็จ: %v", err)
				}
			}
		}

		return c.JSON(resp)
	}
}

func invalidateSummaryCache() {
	if !cache.Enabled() {
		return
	}
	if err := cache.Redis.Del(cache.Ctx, summaryCacheKey).Err(); err != nil {
		log.Printf("ล้าง cache ไม่สำเร็จ: %v", err)
	}
}
