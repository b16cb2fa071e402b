package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	CORSOrigins string
	RedisAddr   string // ว่าง = ไม่ใช้ cache
	KafkaBroker string // ว่าง = ไม่ส่ง event

	// เกณฑ์ขั้นต่ำของการชำระบางส่วน (สัดส่วนของยอดคงเหลือ)
	// ค่านี้เป็น heuristic ปรับได้ ไม่ใช่กติกาธุรกิจตายตัว
	PartialFloorRatio float64
}

func Load() *Config {
	// .env สำหรับ dev, production ใช้ env จริง
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:       getEnv("DATABASE_DSN", "root:root@tcp(localhost:3306)/pawnshop?charset=utf8mb4&parseTime=True&loc=Local"),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		CORSOrigins:       getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		KafkaBroker:       getEnv("KAFKA_BROKER", ""),
		PartialFloorRatio: getEnvFloat("PARTIAL_FLOOR_RATIO", 0.3),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] ไม่ได้ตั้งค่า JWT_SECRET — จำเป็นสำหรับ production")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET ต้องยาวอย่างน้อย 32 ตัวอักษร")
	}
	if cfg.PartialFloorRatio < 0 || cfg.PartialFloorRatio >= 1 {
		log.Fatal("[FATAL] PARTIAL_FLOOR_RATIO ต้องอยู่ระหว่าง 0 ถึง 1")
	}
	if cfg.CORSOrigins == "http://localhost:5173" {
		log.Println("[WARN] CORS_ALLOWED_ORIGINS ใช้ค่า default อยู่ อย่าลืมตั้งค่า domain จริงตอน deploy")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Fatalf("[FATAL] %s ไม่ใช่ตัวเลข: %q", key, v)
	}
	return f
}
