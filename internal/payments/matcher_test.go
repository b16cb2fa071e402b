package payments

import (
	"testing"
	"time"

	"pawnshop-backend/internal/models"
)

const defaultFloorRatio = 0.3

func TestScoreOrder(t *testing.T) {
	order := models.Order{
		TotalAmount:       1200,
		RemainingAmount:   1000,
		InstallmentAmount: 250,
	}

	tests := []struct {
		name       string
		amount     float64
		wantScore  int
		wantReason string
	}{
		{"ยอดเต็มพอดี", 1000, 100, ReasonOrderFullMatch},
		{"ยอดเต็มต่างกันไม่ถึงสตางค์", 1000.005, 100, ReasonOrderFullMatch},
		{"ยอดผ่อนต่องวด", 250, 95, ReasonOrderInstallmentMatch},
		{"ยอดรวมทั้งสัญญา", 1200, 90, ReasonOrderTotalMatch},
		{"ชำระบางส่วนเกิน 30%", 350, 70, ReasonOrderPartial},
		{"ต่ำกว่าเกณฑ์ 30% ไม่เป็น candidate", 100, 0, ""},
		{"เท่าเกณฑ์ 30% พอดี ไม่เป็น candidate", 300, 0, ""},
		{"เกินยอดคงเหลือและไม่ตรง tier ไหนเลย", 1500, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, reason := ScoreOrder(order, tt.amount, defaultFloorRatio)
			if score != tt.wantScore {
				t.Errorf("ScoreOrder(%v) score = %d, want %d", tt.amount, score, tt.wantScore)
			}
			if reason != tt.wantReason {
				t.Errorf("ScoreOrder(%v) reason = %q, want %q", tt.amount, reason, tt.wantReason)
			}
		})
	}
}

func TestScoreOrderNoInstallmentPlan(t *testing.T) {
	// InstallmentAmount = 0 ต้องไม่ชน tier ผ่อนต่องวด
	order := models.Order{TotalAmount: 500, RemainingAmount: 500, InstallmentAmount: 0}

	score, reason := ScoreOrder(order, 0, defaultFloorRatio)
	if score != 0 || reason != "" {
		t.Errorf("amount 0 ต้องได้ 0 ได้ %d %q", score, reason)
	}
}

func TestScoreOrderConfigurableFloor(t *testing.T) {
	order := models.Order{TotalAmount: 2000, RemainingAmount: 1000}

	// เกณฑ์ 10%: ยอด 150 ผ่าน
	if score, _ := ScoreOrder(order, 150, 0.1); score != 70 {
		t.Errorf("floor 0.1 amount 150 score = %d, want 70", score)
	}
	// เกณฑ์ 50%: ยอด 350 ไม่ผ่านแล้ว
	if score, _ := ScoreOrder(order, 350, 0.5); score != 0 {
		t.Errorf("floor 0.5 amount 350 score = %d, want 0", score)
	}
}

func TestScorePawn(t *testing.T) {
	pawn := models.Pawn{
		LoanAmount:             5000,
		ExpectedInterestAmount: 100,
	}

	tests := []struct {
		name       string
		amount     float64
		wantScore  int
		wantReason string
	}{
		{"ดอกเบี้ยพอดี", 100, 100, ReasonPawnInterestMatch},
		{"ยอดไถ่ถอนพอดี", 5100, 95, ReasonPawnRedemptionMatch},
		{"ยอดไถ่ถอนคลาดไม่ถึงบาท", 5100.5, 95, ReasonPawnRedemptionMatch},
		{"เงินต้นพอดี", 5000, 90, ReasonPawnPrincipalMatch},
		{"ใกล้ดอกเบี้ย (ขอบล่าง 90%)", 90, 75, ReasonPawnNearInterest},
		{"ใกล้ดอกเบี้ย (ขอบบน 110%)", 110, 75, ReasonPawnNearInterest},
		{"เกินดอกเบี้ยไปมาก", 800, 50, ReasonPawnAboveInterest},
		{"ต่ำกว่าช่วงดอกเบี้ย", 50, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, reason := ScorePawn(pawn, tt.amount)
			if score != tt.wantScore {
				t.Errorf("ScorePawn(%v) score = %d, want %d", tt.amount, score, tt.wantScore)
			}
			if reason != tt.wantReason {
				t.Errorf("ScorePawn(%v) reason = %q, want %q", tt.amount, reason, tt.wantReason)
			}
		})
	}
}

func TestRankOrderCandidatesSortsAndFilters(t *testing.T) {
	// เรียงจากใหม่ไปเก่าเหมือนผลจาก query
	orders := []models.Order{
		{ID: 3, TotalAmount: 900, RemainingAmount: 600},  // 500 -> 70 (partial)
		{ID: 2, TotalAmount: 2000, RemainingAmount: 500}, // 500 -> 100 (full)
		{ID: 1, TotalAmount: 500, RemainingAmount: 100},  // 500 -> 90 (total)
		{ID: 4, TotalAmount: 300, RemainingAmount: 0},    // 500 -> 0 ตัดทิ้ง
	}

	got := rankOrderCandidates(orders, 500, defaultFloorRatio)

	wantIDs := []uint{2, 1, 3}
	if len(got) != len(wantIDs) {
		t.Fatalf("candidate %d รายการ want %d", len(got), len(wantIDs))
	}
	for i, want := range wantIDs {
		if got[i].Order.ID != want {
			t.Errorf("ลำดับที่ %d ได้ order #%d want #%d", i, got[i].Order.ID, want)
		}
	}
	if got[0].Confidence != 100 || got[1].Confidence != 90 || got[2].Confidence != 70 {
		t.Errorf("คะแนนเรียงผิด: %d %d %d", got[0].Confidence, got[1].Confidence, got[2].Confidence)
	}
}

func TestRankOrderCandidatesStableOnTies(t *testing.T) {
	// คะแนนเท่ากันต้องคงลำดับเดิม (ใหม่สุดก่อน)
	orders := []models.Order{
		{ID: 9, TotalAmount: 1000, RemainingAmount: 800},
		{ID: 7, TotalAmount: 1000, RemainingAmount: 900},
	}

	got := rankOrderCandidates(orders, 400, defaultFloorRatio)
	if len(got) != 2 {
		t.Fatalf("candidate %d รายการ want 2", len(got))
	}
	if got[0].Order.ID != 9 || got[1].Order.ID != 7 {
		t.Errorf("คะแนนเท่ากันแต่ลำดับสลับ: #%d #%d", got[0].Order.ID, got[1].Order.ID)
	}
}

func TestRankPawnCandidatesSortsAndFilters(t *testing.T) {
	due := time.Now()
	pawns := []models.Pawn{
		{ID: 1, LoanAmount: 3000, ExpectedInterestAmount: 150, NextPaymentDue: due},                       // 150 -> 100
		{ID: 2, LoanAmount: 5000, ExpectedInterestAmount: 500, NextPaymentDue: due.AddDate(0, 0, 5)},      // 150 -> 0
		{ID: 3, LoanAmount: 100, ExpectedInterestAmount: 50, NextPaymentDue: due.AddDate(0, 0, 10)},       // 150 -> 95 (ไถ่ถอน 150)
		{ID: 4, LoanAmount: 4000, ExpectedInterestAmount: 140, NextPaymentDue: due.AddDate(0, 0, 15)},     // 150 -> 75 (ใกล้ดอก)
	}

	got := rankPawnCandidates(pawns, 150)

	wantIDs := []uint{1, 3, 4}
	if len(got) != len(wantIDs) {
		t.Fatalf("candidate %d รายการ want %d", len(got), len(wantIDs))
	}
	for i, want := range wantIDs {
		if got[i].Pawn.ID != want {
			t.Errorf("ลำดับที่ %d ได้ pawn #%d want #%d", i, got[i].Pawn.ID, want)
		}
	}
}
