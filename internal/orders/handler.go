package orders

import (
	"fmt"

	"pawnshop-backend/internal/audit"
	"pawnshop-backend/internal/auth"
	"pawnshop-backend/internal/database"
	"pawnshop-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateOrderRequest struct {
	CustomerID        uint    `json:"customer_id"`
	TotalAmount       float64 `json:"total_amount"`
	InstallmentAmount float64 `json:"installment_amount"` // 0 = จ่ายเต็ม ไม่ใช่สัญญาผ่อน
	Description       string  `json:"description"`
}

type OrderResponse struct {
	ID                uint               `json:"id"`
	CustomerID        uint               `json:"customer_id"`
	CustomerName      string             `json:"customer_name,omitempty"`
	TotalAmount       float64            `json:"total_amount"`
	RemainingAmount   float64            `json:"remaining_amount"`
	InstallmentAmount float64            `json:"installment_amount"`
	Status            models.OrderStatus `json:"status"`
	Description       string             `json:"description"`
	CreatedAt         string             `json:"created_at"`
}

func toResponse(o models.Order) OrderResponse {
	return OrderResponse{
		ID:                o.ID,
		CustomerID:        o.CustomerID,
		CustomerName:      o.Customer.Name,
		TotalAmount:       o.TotalAmount,
		RemainingAmount:   o.RemainingAmount,
		InstallmentAmount: o.InstallmentAmount,
		Status:            o.Status,
		Description:       o.Description,
		CreatedAt:         o.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// POST /api/admin/orders
func CreateOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, err := auth.CurrentPrincipal(c)
		if err != nil {
			return err
		}

		var body CreateOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "ข้อมูลคำขอไม่ถูกต้อง")
		}

		if body.CustomerID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ต้องระบุ customer_id")
		}
		if body.TotalAmount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ยอดรวมต้องมากกว่า 0")
		}
		if body.InstallmentAmount < 0 || body.InstallmentAmount > body.TotalAmount {
			return fiber.NewError(fiber.StatusBadRequest, "ยอดผ่อนต่องวดไม่ถูกต้อง")
		}

		var customer models.Customer
		if err := database.DB.First(&customer, body.CustomerID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "ไม่พบลูกค้า")
		}

		status := models.OrderStatusPaymentPending
		if body.InstallmentAmount > 0 {
			status = models.OrderStatusInstallment
		}

		order := models.Order{
			CustomerID:        customer.ID,
			TotalAmount:       body.TotalAmount,
			RemainingAmount:   body.TotalAmount,
			InstallmentAmount: body.InstallmentAmount,
			Status:            status,
			Description:       body.Description,
		}

		if err := database.DB.Create(&order).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "สร้างคำสั่งซื้อไม่สำเร็จ")
		}

		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      principal.UserID,
			UserName:    principal.Name,
			EntityType:  "order",
			EntityID:    order.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("สร้างคำสั่งซื้อ #%d ยอดรวม %.2f บาท", order.ID, order.TotalAmount),
			After:       toResponse(order),
		}); logErr != nil {
			fmt.Printf("เขียน audit log ไม่สำเร็จ: %v\n", logErr)
		}

		order.Customer = customer
		return c.Status(fiber.StatusCreated).JSON(toResponse(order))
	}
}

// GET /api/admin/orders?customer_id=1&status=installment
func ListOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Order{}).Preload("Customer")

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

		var list []models.Order
		if err := dbq.Order("created_at DESC").Limit(100).Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "ดึงรายการคำสั่งซื้อไม่สำเร็จ")
		}

		resp := make([]OrderResponse, 0, len(list))
		for _, o := range list {
			resp = append(resp, toResponse(o))
		}
		return c.JSON(resp)
	}
}

// GET /api/admin/orders/:id — รวมสลิปที่จัดประเภทเข้า order นี้แล้ว
func GetOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id ไม่ถูกต้อง")
		}

		var order models.Order
		if err := database.DB.Preload("Customer").First(&order, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "ไม่พบคำสั่งซื้อ")
		}

		var payments []models.Payment
		if err := database.DB.Where("order_id = ?", order.ID).
			Order("classified_at ASC").Find(&payments).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "ดึงประวัติการชำระไม่สำเร็จ")
		}

		type paymentRow struct {
			ID           uint    `json:"id"`
			Amount       float64 `json:"amount"`
			ClassifiedAt string  `json:"classified_at"`
		}
		history := make([]paymentRow, 0, len(payments))
		for _, p := range payments {
			row := paymentRow{ID: p.ID, Amount: p.Amount}
			if p.ClassifiedAt != nil {
				row.ClassifiedAt = p.ClassifiedAt.Format("2006-01-02T15:04:05Z07:00")
			}
			history = append(history, row)
		}

		return c.JSON(fiber.Map{
			"order":    toResponse(order),
			"payments": history,
		})
	}
}
