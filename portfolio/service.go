// Package portfolio wraps the portfolio endpoint and derives the summary
// metrics the dashboards display.
package portfolio

import (
	"context"

	"github.com/pkg/errors"

	"github.com/confiance/confiance-go/apiclient"
)

type Portfolio struct {
	UserID            int64   `json:"userId"`
	TotalInvested     float64 `json:"totalInvested"`
	CurrentValue      float64 `json:"currentValue"`
	TotalReturns      float64 `json:"totalReturns"`
	ReturnsPercentage float64 `json:"returnsPercentage"`
}

// Metrics is the derived view of a portfolio.
type Metrics struct {
	TotalInvested        float64
	CurrentValue         float64
	TotalReturns         float64
	ReturnsPercentage    float64
	ProfitLoss           float64
	ProfitLossPercentage float64
}

type Service struct {
	client *apiclient.Client
}

func New(client *apiclient.Client) *Service {
	return &Service{client: client}
}

func (s *Service) ForUser(ctx context.Context, userID int64) (*Portfolio, error) {
	env, err := s.client.Get(ctx, apiclient.UserPortfolioPath(userID))
	if err != nil {
		return nil, errors.Wrap(err, "[Service.ForUser] get")
	}
	var p Portfolio
	if err := env.DecodeData(&p); err != nil {
		return nil, errors.Wrap(err, "[Service.ForUser] decode data")
	}
	return &p, nil
}

// ComputeMetrics derives display metrics from a portfolio. A nil portfolio
// yields nil.
func ComputeMetrics(p *Portfolio) *Metrics {
	if p == nil {
		return nil
	}
	return &Metrics{
		TotalInvested:        p.TotalInvested,
		CurrentValue:         p.CurrentValue,
		TotalReturns:         p.TotalReturns,
		ReturnsPercentage:    p.ReturnsPercentage,
		ProfitLoss:           p.TotalReturns,
		ProfitLossPercentage: p.ReturnsPercentage,
	}
}
