package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaymentMetaValidate(t *testing.T) {
	tests := []struct {
		name    string
		meta    PaymentMeta
		wantErr bool
	}{
		{"cash needs nothing extra", PaymentMeta{Mode: ModeCash}, false},
		{"unknown mode", PaymentMeta{Mode: "barter"}, true},
		{"empty mode", PaymentMeta{}, true},
		{"cheque without number", PaymentMeta{Mode: ModeCheque, BankName: "Stanbic"}, true},
		{"cheque without bank", PaymentMeta{Mode: ModeCheque, ChequeNumber: "001122"}, true},
		{"complete cheque", PaymentMeta{Mode: ModeCheque, ChequeNumber: "001122", BankName: "Stanbic"}, false},
		{"bank transfer without reference", PaymentMeta{Mode: ModeBankTransfer}, true},
		{"bank transfer with reference", PaymentMeta{Mode: ModeBankTransfer, TransactionRef: "TRX-9"}, false},
		{"mobile money without reference", PaymentMeta{Mode: ModeMobileMoney, PhoneNumber: "0772000000"}, true},
		{"mobile money with reference", PaymentMeta{Mode: ModeMobileMoney, TransactionRef: "MM-17"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.meta.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
