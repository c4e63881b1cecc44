package payment

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/subcycle/subcycle/internal/types"
)

func validCardPayment() *Payment {
	return &Payment{
		ID:         "pay_1",
		InvoiceID:  "inv_1",
		Amount:     decimal.NewFromInt(10),
		PaidAt:     time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		MethodType: types.PaymentMethodTypeCard,
		Card: &CardDetails{
			Number: "4111111111111111",
			Holder: "Ana Garcia",
		},
	}
}

func TestPayment_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Payment)
		wantErr bool
	}{
		{
			name:   "valid_card",
			mutate: func(p *Payment) {},
		},
		{
			name: "valid_paypal",
			mutate: func(p *Payment) {
				p.MethodType = types.PaymentMethodTypePaypal
				p.Card = nil
				p.Paypal = &PaypalDetails{Email: "ana@example.com"}
			},
		},
		{
			name: "valid_bank_transfer",
			mutate: func(p *Payment) {
				p.MethodType = types.PaymentMethodTypeBankTransfer
				p.Card = nil
				p.BankTransfer = &BankTransferDetails{Account: "ES9121000418450200051332"}
			},
		},
		{
			name:    "missing_invoice",
			mutate:  func(p *Payment) { p.InvoiceID = "" },
			wantErr: true,
		},
		{
			name:    "zero_amount",
			mutate:  func(p *Payment) { p.Amount = decimal.Zero },
			wantErr: true,
		},
		{
			name:    "unknown_method_type",
			mutate:  func(p *Payment) { p.MethodType = "crypto" },
			wantErr: true,
		},
		{
			name:    "card_without_details",
			mutate:  func(p *Payment) { p.Card = nil },
			wantErr: true,
		},
		{
			name:    "card_number_too_short",
			mutate:  func(p *Payment) { p.Card.Number = "4111" },
			wantErr: true,
		},
		{
			name: "details_do_not_match_method",
			mutate: func(p *Payment) {
				p.Paypal = &PaypalDetails{Email: "ana@example.com"}
			},
			wantErr: true,
		},
		{
			name: "paypal_without_email",
			mutate: func(p *Payment) {
				p.MethodType = types.PaymentMethodTypePaypal
				p.Card = nil
				p.Paypal = &PaypalDetails{}
			},
			wantErr: true,
		},
		{
			name: "bank_transfer_without_account",
			mutate: func(p *Payment) {
				p.MethodType = types.PaymentMethodTypeBankTransfer
				p.Card = nil
				p.BankTransfer = &BankTransferDetails{Bank: "Banco Azul"}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validCardPayment()
			tt.mutate(p)
			err := p.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPayment_MaskedDisplay(t *testing.T) {
	card := validCardPayment()
	assert.Equal(t, "card ****1111", card.MaskedDisplay())

	paypal := &Payment{
		MethodType: types.PaymentMethodTypePaypal,
		Paypal:     &PaypalDetails{Email: "ana@example.com"},
	}
	assert.Equal(t, "paypal a***@example.com", paypal.MaskedDisplay())

	shortLocal := &Payment{
		MethodType: types.PaymentMethodTypePaypal,
		Paypal:     &PaypalDetails{Email: "a@example.com"},
	}
	assert.Equal(t, "paypal *@example.com", shortLocal.MaskedDisplay())

	bank := &Payment{
		MethodType: types.PaymentMethodTypeBankTransfer,
		BankTransfer: &BankTransferDetails{
			Account: "ES9121000418450200051332",
		},
	}
	assert.Equal(t, "bank transfer ...1332", bank.MaskedDisplay())
}
