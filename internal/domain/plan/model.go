package plan

import (
	"github.com/shopspring/decimal"
	"github.com/subcycle/subcycle/internal/types"
)

// Plan is a catalog entry. The lifecycle core treats the catalog as
// read-only; prices are snapshotted onto subscriptions at creation or
// plan change.
type Plan struct {
	// ID is the unique identifier for the plan
	ID string `db:"id" json:"id"`

	// Name is the display name of the plan
	Name string `db:"name" json:"name"`

	// Description is an optional description of the plan
	Description string `db:"description" json:"description"`

	// MonthlyPrice is the recurring price charged each billing cycle
	MonthlyPrice decimal.Decimal `db:"monthly_price" json:"monthly_price"`

	types.BaseModel
}
