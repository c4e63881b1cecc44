package types

// Billing cycle and dunning policy. The cycle is a flat 30 days regardless
// of calendar month length; dunning thresholds are measured in days past an
// invoice's due date, not time spent in a status.
const (
	// BillingCycleDays is the length of one billing cycle and the fixed
	// proration divisor.
	BillingCycleDays = 30

	// MonthlyInvoiceDueDays is the payment term on renewal invoices.
	MonthlyInvoiceDueDays = 15

	// ProrationInvoiceDueDays is the payment term on proration invoices.
	ProrationInvoiceDueDays = 7

	// DelinquencyThresholdDays past due moves an active subscription to
	// delinquent.
	DelinquencyThresholdDays = 7

	// SuspensionThresholdDays past due moves a delinquent subscription to
	// suspended.
	SuspensionThresholdDays = 30

	// ExpirationThresholdDays past due moves a suspended subscription to
	// expired, terminally.
	ExpirationThresholdDays = 60
)
