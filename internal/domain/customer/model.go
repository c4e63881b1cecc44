package customer

import "github.com/subcycle/subcycle/internal/types"

type Customer struct {
	// ID is the unique identifier for the customer
	ID string `db:"id" json:"id"`

	// Email is the billing email of the customer
	Email string `db:"email" json:"email"`

	// Name is the display name of the customer
	Name string `db:"name" json:"name"`

	// Country identifies the tax jurisdiction. May be an ISO code or a
	// full country name; blank means the configured fallback applies.
	Country string `db:"country" json:"country"`

	types.BaseModel
}
