package payments

import (
	"testing"
	"time"

	"pawnshop-backend/internal/auth"
	"pawnshop-backend/internal/models"
)

func dummyPrincipal() auth.Principal {
	return auth.Principal{UserID: 1, Name: "ทดสอบ", Role: models.RoleAdmin}
}

func TestSplitPawnAmount(t *testing.T) {
	pawn := models.Pawn{LoanAmount: 5000, ExpectedInterestAmount: 100}

	tests := []struct {
		name          string
		kind          PawnPaymentKind
		amount        float64
		wantPrincipal float64
		wantInterest  float64
	}{
		{"ต่อดอกพอดี", PawnPaymentInterest, 100, 0, 100},
		{"ต่อดอกเกิน ส่วนเกินตัดเงินต้น", PawnPaymentInterest, 150, 50, 100},
		{"ต่อดอกไม่ถึง ดอกเบี้ยตามจ่ายจริง", PawnPaymentInterest, 80, 0, 80},
		{"ชำระบางส่วน ตัดดอกก่อน", PawnPaymentPartial, 600, 500, 100},
		{"ชำระบางส่วนน้อยกว่าดอก", PawnPaymentPartial, 60, 0, 60},
		{"ไถ่ถอน เงินต้นเต็ม ที่เหลือเป็นดอก", PawnPaymentRedemption, 5100, 5000, 100},
		{"ไถ่ถอนเกิน ดอกรับส่วนเกิน", PawnPaymentRedemption, 5200, 5000, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			principal, interest := splitPawnAmount(tt.kind, tt.amount, pawn)
			if principal != tt.wantPrincipal {
				t.Errorf("principal = %v, want %v", principal, tt.wantPrincipal)
			}
			if interest != tt.wantInterest {
				t.Errorf("interest = %v, want %v", interest, tt.wantInterest)
			}
			if principal+interest != tt.amount {
				t.Errorf("principal+interest = %v ต้องเท่ายอดโอน %v", principal+interest, tt.amount)
			}
		})
	}
}

func TestExtendDueDate(t *testing.T) {
	paidAt := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

	got := extendDueDate(paidAt)
	want := time.Date(2026, 4, 14, 10, 30, 0, 0, time.UTC)

	if !got.Equal(want) {
		t.Errorf("extendDueDate = %v, want %v (+30 วันจากเวลาชำระ)", got, want)
	}
}

func TestApplyOrderPayment(t *testing.T) {
	tests := []struct {
		name          string
		remaining     float64
		amount        float64
		wantRemaining float64
		wantPaid      bool
	}{
		{"ชำระบางส่วน", 1000, 350, 650, false},
		{"ชำระครบพอดี", 1000, 1000, 0, true},
		{"โอนเกิน ยอดคงเหลือไม่ติดลบ", 1000, 1200, 0, true},
		{"งวดสุดท้ายเหลือเศษ", 50, 49, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := models.Order{RemainingAmount: tt.remaining}
			newRemaining, paid := applyOrderPayment(order, tt.amount)
			if newRemaining != tt.wantRemaining {
				t.Errorf("newRemaining = %v, want %v", newRemaining, tt.wantRemaining)
			}
			if paid != tt.wantPaid {
				t.Errorf("paid = %v, want %v", paid, tt.wantPaid)
			}
		})
	}
}

func TestEnsurePendingBlocksReclassification(t *testing.T) {
	// สลิปใบเดียวถูกยิงจัดประเภทสองรอบ: รอบแรกเข้า order สำเร็จ
	// รอบสองต้องถูกปัดตก และยอดคงเหลือของ order ต้องไม่ขยับจากค่าหลังรอบแรก
	order := models.Order{RemainingAmount: 1000}
	payment := models.Payment{Status: models.PaymentStatusPending, Amount: 400}

	if err := ensurePending(payment); err != nil {
		t.Fatalf("สลิป pending ต้องผ่าน precondition: %v", err)
	}

	newRemaining, _ := applyOrderPayment(order, payment.Amount)
	order.RemainingAmount = newRemaining
	payment.Status = models.PaymentStatusVerified

	if err := ensurePending(payment); err == nil {
		t.Fatal("สลิปที่ verified แล้วต้องถูกปัดตก ไม่ใช่จัดประเภทซ้ำ")
	}
	if order.RemainingAmount != 600 {
		t.Errorf("ยอดคงเหลือหลังโดนยิงซ้ำ = %v ต้องค้างที่ 600", order.RemainingAmount)
	}
}

func TestEnsurePendingRejectedIsTerminal(t *testing.T) {
	payment := models.Payment{Status: models.PaymentStatusRejected}
	if err := ensurePending(payment); err == nil {
		t.Error("สลิปที่ rejected แล้วต้องถูกปัดตก")
	}
}

func TestApplyRejectTouchesOnlyPayment(t *testing.T) {
	at := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	payment := models.Payment{ID: 7, Status: models.PaymentStatusPending, Amount: 250}

	got := applyReject(payment, "  สลิปซ้ำ  ", 3, at)

	if got.Status != models.PaymentStatusRejected {
		t.Errorf("status = %v, want rejected", got.Status)
	}
	if got.MatchStatus != models.MatchStatusNoMatch {
		t.Errorf("match_status = %v, want no_match", got.MatchStatus)
	}
	if got.ClassifiedAs != models.ClassifiedAsRejected {
		t.Errorf("classified_as = %v, want rejected", got.ClassifiedAs)
	}
	if got.RejectReason != "สลิปซ้ำ" {
		t.Errorf("reject_reason = %q ต้อง trim ช่องว่าง", got.RejectReason)
	}
	if got.ClassifiedBy == nil || *got.ClassifiedBy != 3 {
		t.Errorf("classified_by = %v, want 3", got.ClassifiedBy)
	}
	if got.ClassifiedAt == nil || !got.ClassifiedAt.Equal(at) {
		t.Errorf("classified_at = %v, want %v", got.ClassifiedAt, at)
	}

	// การปฏิเสธต้องไม่ผูกสลิปเข้า order หรือรายการจำนำ
	if got.OrderID != nil || got.LinkedPawnPaymentID != nil {
		t.Errorf("reject ห้ามตั้ง order_id/linked_pawn_payment_id: %v %v", got.OrderID, got.LinkedPawnPaymentID)
	}
}

func TestClassifyRequestValidation(t *testing.T) {
	// ตรวจ validation ก่อนแตะฐานข้อมูล — เคสพวกนี้ต้องตกก่อนเปิด transaction
	principal := dummyPrincipal()

	tests := []struct {
		name string
		req  ClassifyRequest
	}{
		{"ไม่มี payment_id", ClassifyRequest{ClassifyType: ClassifyOrder, OrderID: 1}},
		{"classify_type เพี้ยน", ClassifyRequest{PaymentID: 1, ClassifyType: "savings"}},
		{"classify_type ว่าง", ClassifyRequest{PaymentID: 1}},
		{"reject ไม่มีเหตุผล", ClassifyRequest{PaymentID: 1, ClassifyType: ClassifyReject}},
		{"reject เหตุผลเป็นช่องว่าง", ClassifyRequest{PaymentID: 1, ClassifyType: ClassifyReject, Reason: "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Classify(principal, tt.req); err == nil {
				t.Errorf("Classify(%+v) ต้อง error", tt.req)
			}
		})
	}
}
