package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/salescope/salescope/modules/analytics/domain/fact"
	"github.com/salescope/salescope/modules/scope/ranking"
)

// FactsService reads performance facts from the warehouse and exposes them
// in the shape the ranking engine consumes.
type FactsService struct {
	repo fact.Repository
}

func NewFactsService(repo fact.Repository) *FactsService {
	return &FactsService{repo: repo}
}

func (s *FactsService) ForEmployees(ctx context.Context, ids []uuid.UUID, period string) ([]ranking.Fact, error) {
	facts, err := s.repo.ForEmployees(ctx, ids, period)
	if err != nil {
		return nil, err
	}

	out := make([]ranking.Fact, 0, len(facts))
	for _, f := range facts {
		out = append(out, ranking.Fact{
			EmployeeID: f.EmployeeID,
			Period:     f.Period,
			Values: map[ranking.Metric]decimal.Decimal{
				ranking.MetricSalesAmount:     f.SalesAmount,
				ranking.MetricUnitsSold:       decimal.NewFromInt(f.UnitsSold),
				ranking.MetricDealsClosed:     decimal.NewFromInt(f.DealsClosed),
				ranking.MetricQuotaAttainment: f.QuotaAttainment,
			},
		})
	}
	return out, nil
}

func (s *FactsService) Periods(ctx context.Context) ([]string, error) {
	return s.repo.Periods(ctx)
}
