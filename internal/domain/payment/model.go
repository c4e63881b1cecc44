package payment

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	ierr "github.com/subcycle/subcycle/internal/errors"
	"github.com/subcycle/subcycle/internal/types"
)

// Payment records a settled invoice payment. Exactly one of the details
// structs is set, selected by MethodType.
type Payment struct {
	// ID is the unique identifier for the payment
	ID string `db:"id" json:"id"`

	// InvoiceID is the invoice this payment settles
	InvoiceID string `db:"invoice_id" json:"invoice_id"`

	// Amount is the amount paid; must equal the invoice total
	Amount decimal.Decimal `db:"amount" json:"amount"`

	// PaidAt is when the payment was recorded
	PaidAt time.Time `db:"paid_at" json:"paid_at"`

	// MethodType selects which details struct is populated
	MethodType types.PaymentMethodType `db:"method_type" json:"method_type"`

	Card         *CardDetails         `json:"card,omitempty"`
	Paypal       *PaypalDetails       `json:"paypal,omitempty"`
	BankTransfer *BankTransferDetails `json:"bank_transfer,omitempty"`

	types.BaseModel
}

type CardDetails struct {
	Number string `db:"card_number" json:"number"`
	Holder string `db:"card_holder" json:"holder"`
	Expiry string `db:"card_expiry" json:"expiry"`
}

type PaypalDetails struct {
	Email         string `db:"paypal_email" json:"email"`
	TransactionID string `db:"paypal_transaction_id" json:"transaction_id"`
}

type BankTransferDetails struct {
	Bank      string `db:"bank_name" json:"bank"`
	Account   string `db:"bank_account" json:"account"`
	Reference string `db:"bank_reference" json:"reference"`
}

func (p *Payment) Validate() error {
	if p.InvoiceID == "" {
		return ierr.NewError("invoice_id is required").
			WithHint("Payment must reference an invoice").
			Mark(ierr.ErrValidation)
	}
	if !p.Amount.IsPositive() {
		return ierr.NewError("amount must be positive").
			WithHint("Payment amount must be greater than zero").
			Mark(ierr.ErrValidation)
	}
	if err := p.MethodType.Validate(); err != nil {
		return err
	}

	switch p.MethodType {
	case types.PaymentMethodTypeCard:
		if p.Paypal != nil || p.BankTransfer != nil {
			return errMismatchedDetails(p.MethodType)
		}
		if p.Card == nil || p.Card.Number == "" || p.Card.Holder == "" {
			return ierr.NewError("card details are incomplete").
				WithHint("Card payments require a number and holder").
				Mark(ierr.ErrValidation)
		}
		if len(p.Card.Number) < 8 {
			return ierr.NewError("card number is too short").
				WithHint("Card number must have at least 8 digits").
				Mark(ierr.ErrValidation)
		}
	case types.PaymentMethodTypePaypal:
		if p.Card != nil || p.BankTransfer != nil {
			return errMismatchedDetails(p.MethodType)
		}
		if p.Paypal == nil || p.Paypal.Email == "" {
			return ierr.NewError("paypal details are incomplete").
				WithHint("Paypal payments require an account email").
				Mark(ierr.ErrValidation)
		}
	case types.PaymentMethodTypeBankTransfer:
		if p.Card != nil || p.Paypal != nil {
			return errMismatchedDetails(p.MethodType)
		}
		if p.BankTransfer == nil || p.BankTransfer.Account == "" {
			return ierr.NewError("bank transfer details are incomplete").
				WithHint("Bank transfers require an account identifier").
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}

// MaskedDisplay renders the payment method for invoices and logs without
// exposing the full instrument.
func (p *Payment) MaskedDisplay() string {
	switch p.MethodType {
	case types.PaymentMethodTypeCard:
		if p.Card == nil {
			return "card"
		}
		n := p.Card.Number
		if len(n) > 4 {
			n = n[len(n)-4:]
		}
		return fmt.Sprintf("card ****%s", n)
	case types.PaymentMethodTypePaypal:
		if p.Paypal == nil {
			return "paypal"
		}
		return fmt.Sprintf("paypal %s", maskEmail(p.Paypal.Email))
	case types.PaymentMethodTypeBankTransfer:
		if p.BankTransfer == nil {
			return "bank transfer"
		}
		a := p.BankTransfer.Account
		if len(a) > 4 {
			a = a[len(a)-4:]
		}
		return fmt.Sprintf("bank transfer ...%s", a)
	default:
		return string(p.MethodType)
	}
}

func maskEmail(email string) string {
	for i, r := range email {
		if r == '@' {
			if i <= 1 {
				return "*" + email[i:]
			}
			return email[:1] + "***" + email[i:]
		}
	}
	return "***"
}

func errMismatchedDetails(mt types.PaymentMethodType) error {
	return ierr.NewError("payment details do not match method type").
		WithHintf("Only %s details may be set", mt).
		Mark(ierr.ErrValidation)
}
