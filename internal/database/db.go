package database

import (
	"log"

	"pawnshop-backend/internal/config"
	"pawnshop-backend/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(mysql.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("เชื่อมต่อฐานข้อมูลไม่ได้: %v", err)
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.BankAccount{},
		&models.Order{},
		&models.Pawn{},
		&models.PawnPayment{},
		&models.Payment{},
		&models.SavingsAccount{},
		&models.SavingsDeposit{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate ล้มเหลว: %v", err)
	}

	log.Println("เชื่อมต่อฐานข้อมูลสำเร็จ migration เรียบร้อย")
}
