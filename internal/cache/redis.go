package cache

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
)

var Ctx = context.Background()
var Redis *redis.Client

// Init: ต่อ Redis ถ้าตั้งค่า REDIS_ADDR ไว้ ไม่ตั้งก็ข้าม (summary จะ query ตรงจาก DB)
func Init(addr string) {
	if addr == "" {
		log.Println("ไม่ได้ตั้งค่า REDIS_ADDR — ข้าม cache")
		return
	}

	Redis = redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if _, err := Redis.Ping(Ctx).Result(); err != nil {
		log.Printf("ต่อ Redis ไม่ได้ (%v) — ทำงานต่อโดยไม่มี cache", err)
		Redis = nil
		return
	}

	log.Println("เชื่อมต่อ Redis สำเร็จ")
}

func Enabled() bool {
	return Redis != nil
}
