package dto

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/subcycle/subcycle/internal/domain/payment"
	"github.com/subcycle/subcycle/internal/types"
)

type CardDetailsRequest struct {
	Number string `json:"number" validate:"required,min=8,max=19"`
	Holder string `json:"holder" validate:"required,max=255"`
	Expiry string `json:"expiry" validate:"omitempty,max=7"`
}

type PaypalDetailsRequest struct {
	Email         string `json:"email" validate:"required,email"`
	TransactionID string `json:"transaction_id" validate:"omitempty,max=100"`
}

type BankTransferDetailsRequest struct {
	Bank      string `json:"bank" validate:"omitempty,max=255"`
	Account   string `json:"account" validate:"required,max=50"`
	Reference string `json:"reference" validate:"omitempty,max=100"`
}

type RecordPaymentRequest struct {
	InvoiceID  string                      `json:"invoice_id" validate:"required"`
	Amount     decimal.Decimal             `json:"amount" validate:"required"`
	MethodType types.PaymentMethodType     `json:"method_type" validate:"required"`
	Card       *CardDetailsRequest         `json:"card,omitempty"`
	Paypal     *PaypalDetailsRequest       `json:"paypal,omitempty"`
	Bank       *BankTransferDetailsRequest `json:"bank_transfer,omitempty"`
}

type PaymentResponse struct {
	*payment.Payment

	// MaskedMethod is the display form of the payment instrument
	MaskedMethod string `json:"masked_method"`
}

func NewPaymentResponse(p *payment.Payment) *PaymentResponse {
	return &PaymentResponse{
		Payment:      p,
		MaskedMethod: p.MaskedDisplay(),
	}
}

func (r *RecordPaymentRequest) Validate() error {
	if err := validator.New().Struct(r); err != nil {
		return err
	}
	return r.MethodType.Validate()
}

func (r *RecordPaymentRequest) ToPayment(ctx context.Context, paidAt time.Time) *payment.Payment {
	p := &payment.Payment{
		ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT),
		InvoiceID:  r.InvoiceID,
		Amount:     r.Amount,
		PaidAt:     paidAt,
		MethodType: r.MethodType,
		BaseModel:  types.GetDefaultBaseModel(ctx),
	}
	if r.Card != nil {
		p.Card = &payment.CardDetails{
			Number: r.Card.Number,
			Holder: r.Card.Holder,
			Expiry: r.Card.Expiry,
		}
	}
	if r.Paypal != nil {
		p.Paypal = &payment.PaypalDetails{
			Email:         r.Paypal.Email,
			TransactionID: r.Paypal.TransactionID,
		}
	}
	if r.Bank != nil {
		p.BankTransfer = &payment.BankTransferDetails{
			Bank:      r.Bank.Bank,
			Account:   r.Bank.Account,
			Reference: r.Bank.Reference,
		}
	}
	return p
}
