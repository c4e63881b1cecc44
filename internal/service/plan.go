package service

import (
	"context"

	"github.com/subcycle/subcycle/internal/api/dto"
)

// PlanService exposes the read-only plan catalog. Catalog management is
// out of scope for this service; plans are seeded out of band.
type PlanService interface {
	GetPlan(ctx context.Context, id string) (*dto.PlanResponse, error)
	ListPlans(ctx context.Context) (*dto.ListPlansResponse, error)
}

type planService struct {
	ServiceParams
}

func NewPlanService(params ServiceParams) PlanService {
	return &planService{ServiceParams: params}
}

func (s *planService) GetPlan(ctx context.Context, id string) (*dto.PlanResponse, error) {
	p, err := s.PlanRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.PlanResponse{Plan: p}, nil
}

func (s *planService) ListPlans(ctx context.Context) (*dto.ListPlansResponse, error) {
	plans, err := s.PlanRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.PlanResponse, 0, len(plans))
	for _, p := range plans {
		items = append(items, &dto.PlanResponse{Plan: p})
	}

	resp := dto.ListPlansResponse{Items: items, Total: len(items)}
	return &resp, nil
}
