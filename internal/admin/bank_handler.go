package admin

import (
	"pawnshop-backend/internal/database"
	"pawnshop-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateBankAccountRequest struct {
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name"`
}

type UpdateBankAccountRequest struct {
	BankName      *string `json:"bank_name"`
	AccountNumber *string `json:"account_number"`
	AccountName   *string `json:"account_name"`
	IsActive      *bool   `json:"is_active"`
}

type BankAccountResponse struct {
	ID            uint   `json:"id"`
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name"`
	IsActive      bool   `json:"is_active"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

func toBankAccountResponse(a models.BankAccount) BankAccountResponse {
	return BankAccountResponse{
		ID:            a.ID,
		BankName:      a.BankName,
		AccountNumber: a.AccountNumber,
		AccountName:   a.AccountName,
		IsActive:      a.IsActive,
		CreatedAt:     a.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:     a.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// POST /api/admin/bank-accounts — บัญชีร้านสำหรับรับโอน
func CreateBankAccountHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateBankAccountRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "ข้อมูลคำขอไม่ถูกต้อง")
		}

		if body.BankName == "" || body.AccountNumber == "" || body.AccountName == "" {
			return fiber.NewError(fiber.StatusBadRequest, "ต้องระบุธนาคาร เลขบัญชี และชื่อบัญชี")
		}

		account := models.BankAccount{
			BankName:      body.BankName,
			AccountNumber: body.AccountNumber,
			AccountName:   body.AccountName,
			IsActive:      true,
		}

		if err := database.DB.Create(&account).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "สร้างบัญชีไม่สำเร็จ")
		}

		return c.Status(fiber.StatusCreated).JSON(toBankAccountResponse(account))
	}
}

// GET /api/admin/bank-accounts
func ListBankAccountsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var accounts []models.BankAccount
		if err := database.DB.Order("id ASC").Find(&accounts).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "ดึงรายการบัญชีไม่สำเร็จ")
		}

		resp := make([]BankAccountResponse, 0, len(accounts))
		for _, a := range accounts {
			resp = append(resp, toBankAccountResponse(a))
		}
		return c.JSON(resp)
	}
}

// PUT /api/admin/bank-accounts/:id
func UpdateBankAccountHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id ไม่ถูกต้อง")
		}

		var account models.BankAccount
		if err := database.DB.First(&account, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "ไม่พบบัญชี")
		}

		var body UpdateBankAccountRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "ข้อมูลคำขอไม่ถูกต้อง")
		}

		if body.BankName != nil {
			account.BankName = *body.BankName
		}
		if body.AccountNumber != nil {
			account.AccountNumber = *body.AccountNumber
		}
		if body.AccountName != nil {
			account.AccountName = *body.AccountName
		}
		if body.IsActive != nil {
			account.IsActive = *body.IsActive
		}

		if err := database.DB.Save(&account).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "อัปเดตบัญชีไม่สำเร็จ")
		}

		return c.JSON(toBankAccountResponse(account))
	}
}
