package savings

import (
	"testing"

	"pawnshop-backend/internal/models"
)

func TestValidateDeposit(t *testing.T) {
	tests := []struct {
		name    string
		account models.SavingsAccount
		amount  float64
		wantErr bool
	}{
		{"บัญชีเปิด ยอดปกติ", models.SavingsAccount{Status: models.SavingsStatusActive}, 100, false},
		{"ยอดศูนย์", models.SavingsAccount{Status: models.SavingsStatusActive}, 0, true},
		{"ยอดติดลบ", models.SavingsAccount{Status: models.SavingsStatusActive}, -50, true},
		{"บัญชีปิดแล้ว", models.SavingsAccount{Status: models.SavingsStatusClosed}, 100, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateDeposit(tt.account, tt.amount)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateDeposit(%v, %v) err = %v, wantErr %v", tt.account.Status, tt.amount, err, tt.wantErr)
			}
		})
	}
}
