package savings

import (
	"fmt"

	"pawnshop-backend/internal/audit"
	"pawnshop-backend/internal/auth"
	"pawnshop-backend/internal/database"
	"pawnshop-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreateAccountRequest struct {
	CustomerID uint `json:"customer_id"`
}

// POST /api/admin/savings-accounts
func CreateAccountHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateAccountRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "ข้อมูลคำขอไม่ถูกต้อง")
		}

		if body.CustomerID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ต้องระบุ customer_id")
		}

		var customer models.Customer
		if err := database.DB.First(&customer, body.CustomerID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "ไม่พบลูกค้า")
		}

		account := models.SavingsAccount{
			CustomerID: customer.ID,
			Balance:    0,
			Status:     models.SavingsStatusActive,
		}

		if err := database.DB.Create(&account).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "เปิดบัญชีออมไม่สำเร็จ")
		}

		return c.Status(fiber.StatusCreated).JSON(account)
	}
}

// GET /api/admin/savings-accounts?customer_id=1
func ListAccountsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.SavingsAccount{}).Preload("Customer")

		if cidStr := c.Query("customer_id"); cidStr != "" {
			var cid uint
			if _, err := fmt.Sscan(cidStr, &cid); err != nil || cid == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "customer_id ไม่ถูกต้อง")
			}
			dbq = dbq.Where("customer_id = ?", cid)
		}

		var list []models.SavingsAccount
		if err := dbq.Order("created_at DESC").Limit(100).Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "ดึงบัญชีออมไม่สำเร็จ")
		}

		return c.JSON(list)
	}
}

type DepositRequest struct {
	Amount float64 `json:"amount"`
	Note   string  `json:"note"`
}

// validateDeposit ตรวจเงื่อนไขการฝากก่อนแตะยอด
func validateDeposit(account models.SavingsAccount, amount float64) error {
	if amount <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "ยอดฝากต้องมากกว่า 0")
	}
	if account.Status != models.SavingsStatusActive {
		return fiber.NewError(fiber.StatusBadRequest, "บัญชีนี้ปิดแล้ว")
	}
	return nil
}

// POST /api/admin/savings-accounts/:id/deposits
// ปรับยอดกับบันทึกการฝากต้องไปด้วยกันใน transaction เดียว
func DepositHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, err := auth.CurrentPrincipal(c)
		if err != nil {
			return err
		}

		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id ไม่ถูกต้อง")
		}

		var body DepositRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "ข้อมูลคำขอไม่ถูกต้อง")
		}

		tx := database.DB.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "เริ่ม transaction ไม่สำเร็จ")
		}
		defer tx.Rollback()

		// lock แถวบัญชีกันฝากพร้อมกันสองรายการแล้วยอดหาย
		var account models.SavingsAccount
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&account, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "ไม่พบบัญชีออม")
		}

		if err := validateDeposit(account, body.Amount); err != nil {
			return err
		}

		deposit := models.SavingsDeposit{
			AccountID: account.ID,
			Amount:    body.Amount,
			Note:      body.Note,
			CreatedBy: principal.UserID,
		}
		if err := tx.Create(&deposit).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "บันทึกการฝากไม่สำเร็จ")
		}

		// บวกยอดในฝั่ง SQL ไม่ใช้ค่าที่อ่านมาคำนวณ
		newBalance := account.Balance + body.Amount
		if err := tx.Model(&account).
			Update("balance", gorm.Expr("balance + ?", body.Amount)).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "อัปเดตยอดคงเหลือไม่สำเร็จ")
		}

		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "บันทึกข้อมูลไม่สำเร็จ")
		}

		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      principal.UserID,
			UserName:    principal.Name,
			EntityType:  "savings_account",
			EntityID:    account.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("ฝากเข้าบัญชีออม #%d จำนวน %.2f บาท", account.ID, body.Amount),
			Before:      fiber.Map{"balance": account.Balance},
			After:       fiber.Map{"balance": newBalance},
		}); logErr != nil {
			fmt.Printf("เขียน audit log ไม่สำเร็จ: %v\n", logErr)
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"deposit_id": deposit.ID,
			"balance":    newBalance,
		})
	}
}

// GET /api/admin/savings-accounts/:id/deposits
func ListDepositsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id ไม่ถูกต้อง")
		}

		var deposits []models.SavingsDeposit
		if err := database.DB.Where("account_id = ?", id).
			Order("created_at DESC").Find(&deposits).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "ดึงประวัติการฝากไม่สำเร็จ")
		}

		return c.JSON(deposits)
	}
}
