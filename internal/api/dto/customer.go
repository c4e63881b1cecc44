package dto

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/subcycle/subcycle/internal/domain/customer"
	"github.com/subcycle/subcycle/internal/types"
)

type CreateCustomerRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Email   string `json:"email" validate:"required,email"`
	Country string `json:"country" validate:"omitempty,max=100"`
}

type CustomerResponse struct {
	*customer.Customer
}

type ListCustomersResponse = types.ListResponse[*CustomerResponse]

func (r *CreateCustomerRequest) Validate() error {
	return validator.New().Struct(r)
}

func (r *CreateCustomerRequest) ToCustomer(ctx context.Context) *customer.Customer {
	return &customer.Customer{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CUSTOMER),
		Name:      r.Name,
		Email:     r.Email,
		Country:   r.Country,
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
}
