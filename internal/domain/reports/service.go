package reports

import (
	"context"
	"fmt"
	"time"
)

// Service provides report generation operations.
type Service struct {
	repo Repository
}

// NewService creates a new reports service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetDashboard builds the dashboard summary.
func (s *Service) GetDashboard(ctx context.Context) (*DashboardSummary, error) {
	summary, err := s.repo.GetDashboardSummary(ctx)
	if err != nil {
		return nil, fmt.Errorf("get dashboard summary: %w", err)
	}
	summary.GeneratedAt = time.Now()
	return summary, nil
}

// GetMostRented returns the most-rented products ranking.
func (s *Service) GetMostRented(ctx context.Context, filter MostRentedFilter) ([]MostRentedRow, error) {
	if filter.Limit <= 0 {
		filter.Limit = 10
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, fmt.Errorf("from must be before to")
	}

	rows, err := s.repo.GetMostRented(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get most rented: %w", err)
	}
	return rows, nil
}

// GetMovementSummary aggregates ledger activity by kind.
func (s *Service) GetMovementSummary(ctx context.Context, filter MovementSummaryFilter) ([]MovementSummaryRow, error) {
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, fmt.Errorf("from must be before to")
	}

	rows, err := s.repo.GetMovementSummary(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get movement summary: %w", err)
	}
	return rows, nil
}

// GetConditionBreakdown counts products per physical condition.
func (s *Service) GetConditionBreakdown(ctx context.Context) ([]ConditionRow, error) {
	rows, err := s.repo.GetConditionBreakdown(ctx)
	if err != nil {
		return nil, fmt.Errorf("get condition breakdown: %w", err)
	}
	return rows, nil
}
