package dashboard

import (
	"fmt"
	"time"

	"pawnshop-backend/internal/database"

	"github.com/gofiber/fiber/v2"
)

type ClassifyChartPoint struct {
	Label    string  `json:"label"` // วัน หรือเดือน
	Order    float64 `json:"order"`
	Pawn     float64 `json:"pawn"`
	Rejected int64   `json:"rejected"`
	Total    float64 `json:"total"`
}

type ClassifyChartResponse struct {
	Period string               `json:"period"` // daily | monthly
	From   string               `json:"from"`
	To     string               `json:"to"`
	Points []ClassifyChartPoint `json:"points"`
}

// GET /api/admin/dashboard/classify-chart?period=daily&count=7
// ยอดที่จัดประเภทแล้วต่อวัน แยกฝั่ง order/pawn สำหรับกราฟหน้า dashboard
func ClassifyChartHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		period := c.Query("period", "daily")
		countStr := c.Query("count", "")

		var count int
		if countStr == "" {
			if period == "monthly" {
				count = 12
			} else {
				period = "daily"
				count = 7
			}
		} else {
			if _, err := fmt.Sscan(countStr, &count); err != nil || count <= 0 || count > 90 {
				return fiber.NewError(fiber.StatusBadRequest, "count ไม่ถูกต้อง")
			}
		}

		now := time.Now()
		loc := now.Location()
		end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
		var start time.Time

		var bucketExpr string
		switch period {
		case "monthly":
			bucketExpr = "DATE_FORMAT(classified_at, '%Y-%m-01')"
			start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc).AddDate(0, -(count - 1), 0)
		default:
			period = "daily"
			bucketExpr = "DATE(classified_at)"
			start = end.AddDate(0, 0, -count)
		}

		type row struct {
			Bucket       string  `gorm:"column:bucket"`
			ClassifiedAs string  `gorm:"column:classified_as"`
			Total        float64 `gorm:"column:total"`
			Cnt          int64   `gorm:"column:cnt"`
		}
		var rows []row

		sql := fmt.Sprintf(`
			SELECT %s AS bucket,
			       classified_as,
			       SUM(amount) AS total,
			       COUNT(*) AS cnt
			FROM payments
			WHERE classified_at IS NOT NULL AND classified_at >= ? AND classified_at < ?
			GROUP BY bucket, classified_as
			ORDER BY bucket ASC
		`, bucketExpr)

		if err := database.DB.Raw(sql, start, end).Scan(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "สรุปข้อมูลไม่สำเร็จ")
		}

		// รวมเป็นจุดต่อ bucket ตามลำดับเวลา
		order := make([]string, 0)
		points := make(map[string]*ClassifyChartPoint)
		for _, r := range rows {
			p, ok := points[r.Bucket]
			if !ok {
				p = &ClassifyChartPoint{Label: r.Bucket}
				points[r.Bucket] = p
				order = append(order, r.Bucket)
			}

			switch r.ClassifiedAs {
			case "order":
				p.Order += r.Total
				p.Total += r.Total
			case "pawn":
				p.Pawn += r.Total
				p.Total += r.Total
			case "rejected":
				p.Rejected += r.Cnt
			}
		}

		resp := ClassifyChartResponse{
			Period: period,
			From:   start.Format("2006-01-02"),
			To:     end.AddDate(0, 0, -1).Format("2006-01-02"),
			Points: make([]ClassifyChartPoint, 0, len(order)),
		}
		for _, key := range order {
			resp.Points = append(resp.Points, *points[key])
		}

		return c.JSON(resp)
	}
}
