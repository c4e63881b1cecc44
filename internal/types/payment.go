package types

import (
	ierr "github.com/subcycle/subcycle/internal/errors"
	"github.com/samber/lo"
)

// PaymentMethodType discriminates the payment variant recorded against an
// invoice. Each variant carries its own details struct on the payment
// model; exactly one must be set.
type PaymentMethodType string

const (
	PaymentMethodTypeCard         PaymentMethodType = "card"
	PaymentMethodTypePaypal       PaymentMethodType = "paypal"
	PaymentMethodTypeBankTransfer PaymentMethodType = "bank_transfer"
)

func (t PaymentMethodType) String() string {
	return string(t)
}

func (t PaymentMethodType) Validate() error {
	allowed := []PaymentMethodType{
		PaymentMethodTypeCard,
		PaymentMethodTypePaypal,
		PaymentMethodTypeBankTransfer,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid payment method type").
			WithHint("Invalid payment method type").
			WithReportableDetails(map[string]any{
				"payment_method_type": t,
				"allowed_values":      allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
