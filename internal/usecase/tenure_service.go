package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/coach-ledger/internal/domain/tenure"
)

type TenureService struct {
	repo tenure.Repository
}

func NewTenureService(repo tenure.Repository) *TenureService {
	return &TenureService{repo: repo}
}

// List returns every tenure, latest start first.
func (s *TenureService) List(ctx context.Context) ([]tenure.Tenure, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TenureService.List")
	defer span.End()

	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tenures: %w", err)
	}
	return items, nil
}

func (s *TenureService) Get(ctx context.Context, id int64) (tenure.Tenure, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TenureService.Get")
	defer span.End()

	return getTenure(ctx, s.repo, id)
}
