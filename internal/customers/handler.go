package customers

import (
	"strings"

	"pawnshop-backend/internal/database"
	"pawnshop-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateCustomerRequest struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	LineUserID string `json:"line_user_id"`
	Note       string `json:"note"`
}

type CustomerResponse struct {
	ID         uint    `json:"id"`
	Name       string  `json:"name"`
	Phone      string  `json:"phone"`
	LineUserID *string `json:"line_user_id"`
	Note       string  `json:"note"`
	CreatedAt  string  `json:"created_at"`
}

func toResponse(cu models.Customer) CustomerResponse {
	return CustomerResponse{
		ID:         cu.ID,
		Name:       cu.Name,
		Phone:      cu.Phone,
		LineUserID: cu.LineUserID,
		Note:       cu.Note,
		CreatedAt:  cu.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// POST /api/admin/customers
func CreateCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateCustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "ข้อมูลคำขอไม่ถูกต้อง")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "ต้องระบุชื่อลูกค้า")
		}

		customer := models.Customer{
			Name:  body.Name,
			Phone: strings.TrimSpace(body.Phone),
			Note:  body.Note,
		}
		if lid := strings.TrimSpace(body.LineUserID); lid != "" {
			customer.LineUserID = &lid
		}

		if err := database.DB.Create(&customer).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "สร้างลูกค้าไม่สำเร็จ (LINE id อาจซ้ำ)")
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(customer))
	}
}

// GET /api/admin/customers?q=ชื่อหรือเบอร์&line_user_id=U123
func ListCustomersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Customer{})

		// chatbot ใช้ lookup ด้วย LINE user id
		if lid := c.Query("line_user_id"); lid != "" {
			dbq = dbq.Where("line_user_id = ?", lid)
		}

		if q := strings.TrimSpace(c.Query("q")); q != "" {
			like := "%" + q + "%"
			dbq = dbq.Where("name LIKE ? OR phone LIKE ?", like, like)
		}

		var list []models.Customer
		if err := dbq.Order("created_at DESC").Limit(100).Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "ดึงรายชื่อลูกค้าไม่สำเร็จ")
		}

		resp := make([]CustomerResponse, 0, len(list))
		for _, cu := range list {
			resp = append(resp, toResponse(cu))
		}
		return c.JSON(resp)
	}
}

// GET /api/admin/customers/:id
func GetCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id ไม่ถูกต้อง")
		}

		var customer models.Customer
		if err := database.DB.First(&customer, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "ไม่พบลูกค้า")
		}

		return c.JSON(toResponse(customer))
	}
}

type UpdateCustomerRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	Note  *string `json:"note"`
}

// PUT /api/admin/customers/:id
func UpdateCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id ไม่ถูกต้อง")
		}

		var customer models.Customer
		if err := database.DB.First(&customer, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "ไม่พบลูกค้า")
		}

		var body UpdateCustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "ข้อมูลคำขอไม่ถูกต้อง")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "ชื่อลูกค้าห้ามว่าง")
			}
			customer.Name = name
		}
		if body.Phone != nil {
			customer.Phone = strings.TrimSpace(*body.Phone)
		}
		if body.Note != nil {
			customer.Note = *body.Note
		}

		if err := database.DB.Save(&customer).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "อัปเดตลูกค้าไม่สำเร็จ")
		}

		return c.JSON(toResponse(customer))
	}
}
