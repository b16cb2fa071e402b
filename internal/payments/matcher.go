package payments

import (
	"math"
	"sort"

	"pawnshop-backend/internal/database"
	"pawnshop-backend/internal/models"
)

// เหตุผลการจับคู่ที่แสดงให้แอดมินเห็นในหน้าจัดประเภท
const (
	ReasonOrderFullMatch        = "ยอดเต็มตรงกัน"
	ReasonOrderInstallmentMatch = "ยอดผ่อนต่องวดตรงกัน"
	ReasonOrderTotalMatch       = "ยอดรวมตรงกัน"
	ReasonOrderPartial          = "ชำระบางส่วน"

	ReasonPawnInterestMatch   = "ดอกเบี้ยตรงกัน"
	ReasonPawnRedemptionMatch = "ยอดไถ่ถอนตรงกัน"
	ReasonPawnPrincipalMatch  = "ยอดเงินกู้ตรงกัน"
	ReasonPawnNearInterest    = "ใกล้เคียงยอดดอกเบี้ย"
	ReasonPawnAboveInterest   = "เกินยอดดอกเบี้ย (อาจไถ่ถอนบางส่วน)"
)

// เทียบยอดเงินแบบทศนิยมสองหลัก
const amountEpsilon = 0.01

// จำนวน candidate สูงสุดต่อฝั่ง
const candidateLimit = 20

type OrderCandidate struct {
	Order      models.Order `json:"order"`
	Confidence int          `json:"confidence"`
	Reason     string       `json:"reason"`
}

type PawnCandidate struct {
	Pawn       models.Pawn `json:"pawn"`
	Confidence int         `json:"confidence"`
	Reason     string      `json:"reason"`
}

func approxEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) < tolerance
}

// ScoreOrder ให้คะแนนความมั่นใจ 0–100 ว่าสลิปยอดนี้เป็นของ order นี้
// floorRatio คือเกณฑ์ขั้นต่ำของการชำระบางส่วน (สัดส่วนของยอดคงเหลือ)
// ยอดที่ไม่เกินเกณฑ์จะได้ 0 และไม่ถูกเสนอเป็น candidate
func ScoreOrder(o models.Order, amount, floorRatio float64) (int, string) {
	switch {
	case approxEqual(amount, o.RemainingAmount, amountEpsilon):
		return 100, ReasonOrderFullMatch
	case o.InstallmentAmount > 0 && approxEqual(amount, o.InstallmentAmount, amountEpsilon):
		return 95, ReasonOrderInstallmentMatch
	case approxEqual(amount, o.TotalAmount, amountEpsilon):
		return 90, ReasonOrderTotalMatch
	case amount <= o.RemainingAmount && amount > o.RemainingAmount*floorRatio:
		return 70, ReasonOrderPartial
	default:
		return 0, ""
	}
}

// ScorePawn ให้คะแนนความมั่นใจ 0–100 ว่าสลิปยอดนี้เป็นของรายการจำนำนี้
// ยอดไถ่ถอน = เงินต้น + ดอกเบี้ยที่คาดไว้
func ScorePawn(p models.Pawn, amount float64) (int, string) {
	redemptionAmount := p.LoanAmount + p.ExpectedInterestAmount

	switch {
	case approxEqual(amount, p.ExpectedInterestAmount, amountEpsilon):
		return 100, ReasonPawnInterestMatch
	case approxEqual(amount, redemptionAmount, 1):
		return 95, ReasonPawnRedemptionMatch
	case approxEqual(amount, p.LoanAmount, 1):
		return 90, ReasonPawnPrincipalMatch
	case amount >= p.ExpectedInterestAmount*0.9 && amount <= p.ExpectedInterestAmount*1.1:
		return 75, ReasonPawnNearInterest
	case amount > p.ExpectedInterestAmount:
		return 50, ReasonPawnAboveInterest
	default:
		return 0, ""
	}
}

// rankOrderCandidates ให้คะแนนทุก order ตัด 0 ทิ้ง แล้วเรียงคะแนนมากไปน้อย
// ใช้ stable sort เพื่อให้คะแนนเท่ากันคงลำดับเดิม (ใหม่สุดก่อน)
func rankOrderCandidates(orders []models.Order, amount, floorRatio float64) []OrderCandidate {
	candidates := make([]OrderCandidate, 0, len(orders))
	for _, o := range orders {
		score, reason := ScoreOrder(o, amount, floorRatio)
		if score == 0 {
			continue
		}
		candidates = append(candidates, OrderCandidate{Order: o, Confidence: score, Reason: reason})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})
	return candidates
}

// rankPawnCandidates เหมือนกันแต่ฝั่งจำนำ (ลำดับเดิมคือใกล้ครบกำหนดก่อน)
func rankPawnCandidates(pawns []models.Pawn, amount float64) []PawnCandidate {
	candidates := make([]PawnCandidate, 0, len(pawns))
	for _, p := range pawns {
		score, reason := ScorePawn(p, amount)
		if score == 0 {
			continue
		}
		candidates = append(candidates, PawnCandidate{Pawn: p, Confidence: score, Reason: reason})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})
	return candidates
}

// FindCandidates หา order และรายการจำนำของลูกค้าที่น่าจะเป็นเป้าหมายของสลิปนี้
// อ่านอย่างเดียว ไม่แตะข้อมูล
func FindCandidates(customerID uint, amount, floorRatio float64) ([]OrderCandidate, []PawnCandidate, error) {
	var orders []models.Order
	err := database.DB.
		Where("customer_id = ? AND status IN ?", customerID, []models.OrderStatus{
			models.OrderStatusPending,
			models.OrderStatusPaymentPending,
			models.OrderStatusProcessing,
			models.OrderStatusInstallment,
		}).
		Order("created_at DESC").
		Limit(candidateLimit).
		Find(&orders).Error
	if err != nil {
		return nil, nil, err
	}

	var pawns []models.Pawn
	err = database.DB.
		Where("customer_id = ? AND status IN ?", customerID, []models.PawnStatus{
			models.PawnStatusActive,
			models.PawnStatusOverdue,
		}).
		Order("next_payment_due ASC").
		Limit(candidateLimit).
		Find(&pawns).Error
	if err != nil {
		return nil, nil, err
	}

	return rankOrderCandidates(orders, amount, floorRatio), rankPawnCandidates(pawns, amount), nil
}
