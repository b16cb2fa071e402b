package main

import (
	"log"
	"strings"

	"pawnshop-backend/internal/admin"
	"pawnshop-backend/internal/audit"
	"pawnshop-backend/internal/auth"
	"pawnshop-backend/internal/cache"
	"pawnshop-backend/internal/config"
	"pawnshop-backend/internal/customers"
	"pawnshop-backend/internal/dashboard"
	"pawnshop-backend/internal/database"
	"pawnshop-backend/internal/events"
	"pawnshop-backend/internal/models"
	"pawnshop-backend/internal/orders"
	"pawnshop-backend/internal/pawns"
	"pawnshop-backend/internal/payments"
	"pawnshop-backend/internal/savings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)
	cache.Init(cfg.RedisAddr)
	events.Init(cfg.KafkaBroker)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "เกิดข้อผิดพลาดในระบบ",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-super-admin", auth.RegisterSuperAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// ช่องรับสลิปจาก chatbot
	api.Post("/payments", payments.SubmitPaymentHandler())

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleSuperAdmin, models.RoleAdmin))

	// การจัดประเภทสลิป
	adminRoutes.Get("/payments/pending-classify", payments.PendingClassifyHandler())
	adminRoutes.Get("/payments/classify-detail/:id", payments.ClassifyDetailHandler(cfg))
	adminRoutes.Post("/payments/classify", payments.ClassifyHandler())
	adminRoutes.Get("/payments/classify-summary", payments.ClassifySummaryHandler())

	// ลูกค้า
	adminRoutes.Post("/customers", customers.CreateCustomerHandler())
	adminRoutes.Get("/customers", customers.ListCustomersHandler())
	adminRoutes.Get("/customers/:id", customers.GetCustomerHandler())
	adminRoutes.Put("/customers/:id", customers.UpdateCustomerHandler())

	// คำสั่งซื้อ/สัญญาผ่อน
	adminRoutes.Post("/orders", orders.CreateOrderHandler())
	adminRoutes.Get("/orders", orders.ListOrdersHandler())
	adminRoutes.Get("/orders/:id", orders.GetOrderHandler())

	// รายการจำนำ
	adminRoutes.Post("/pawns", pawns.CreatePawnHandler())
	adminRoutes.Get("/pawns", pawns.ListPawnsHandler())
	adminRoutes.Get("/pawns/:id", pawns.GetPawnHandler())
	adminRoutes.Post("/pawns/mark-overdue", pawns.MarkOverdueHandler())

	// บัญชีออม
	adminRoutes.Post("/savings-accounts", savings.CreateAccountHandler())
	adminRoutes.Get("/savings-accounts", savings.ListAccountsHandler())
	adminRoutes.Post("/savings-accounts/:id/deposits", savings.DepositHandler())
	adminRoutes.Get("/savings-accounts/:id/deposits", savings.ListDepositsHandler())

	// Dashboard
	adminRoutes.Get("/dashboard/classify-chart", dashboard.ClassifyChartHandler())

	// Audit logs
	adminRoutes.Get("/audit-logs", audit.ListAuditLogsHandler())

	// เฉพาะ super admin
	superRoutes := protected.Group("/admin")
	superRoutes.Use(auth.RequireRole(models.RoleSuperAdmin))
	superRoutes.Post("/users", auth.CreateAdminHandler())
	superRoutes.Post("/bank-accounts", admin.CreateBankAccountHandler())
	superRoutes.Get("/bank-accounts", admin.ListBankAccountsHandler())
	superRoutes.Put("/bank-accounts/:id", admin.UpdateBankAccountHandler())

	log.Println("Server กำลังทำงานที่ port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
