// Package investments wraps the investment product endpoints and the
// client-side filtering helpers the dashboards use.
package investments

import (
	"context"
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"github.com/confiance/confiance-go/apiclient"
)

// Investment types.
const (
	TypeMutualFund       = "MUTUAL_FUND"
	TypeEquity           = "EQUITY"
	TypeBond             = "BOND"
	TypeFixedDeposit     = "FIXED_DEPOSIT"
	TypeRecurringDeposit = "RECURRING_DEPOSIT"
	TypeGold             = "GOLD"
	TypeRealEstate       = "REAL_ESTATE"
	TypeCrypto           = "CRYPTO"
	TypeOther            = "OTHER"
)

// Investment statuses.
const (
	StatusActive    = "ACTIVE"
	StatusMatured   = "MATURED"
	StatusWithdrawn = "WITHDRAWN"
	StatusClosed    = "CLOSED"
	StatusSuspended = "SUSPENDED"
)

type Investment struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	Status       string  `json:"status"`
	Amount       float64 `json:"amount"`
	ExpectedRate float64 `json:"expectedRate,omitempty"`
	MaturityDate string  `json:"maturityDate,omitempty"`
}

// CreateRequest carries the fields for a new investment product.
type CreateRequest struct {
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	Amount       float64 `json:"amount"`
	ExpectedRate float64 `json:"expectedRate,omitempty"`
	MaturityDate string  `json:"maturityDate,omitempty"`
}

// Page is a paginated investment listing.
type Page struct {
	Content       []Investment `json:"content"`
	Page          int          `json:"page"`
	Size          int          `json:"size"`
	TotalElements int64        `json:"totalElements"`
}

type Service struct {
	client *apiclient.Client
}

func New(client *apiclient.Client) *Service {
	return &Service{client: client}
}

func (s *Service) List(ctx context.Context, page, size int) (*Page, error) {
	if page < 0 {
		page = apiclient.DefaultPage
	}
	if size <= 0 {
		size = apiclient.DefaultSize
	}
	query := url.Values{
		"page": {strconv.Itoa(page)},
		"size": {strconv.Itoa(size)},
	}

	env, err := s.client.Get(ctx, apiclient.EndpointInvestments, apiclient.WithQuery(query))
	if err != nil {
		return nil, errors.Wrap(err, "[Service.List] get")
	}
	var listing Page
	if err := env.DecodeData(&listing); err != nil {
		return nil, errors.Wrap(err, "[Service.List] decode data")
	}
	return &listing, nil
}

func (s *Service) Get(ctx context.Context, investmentID int64) (*Investment, error) {
	env, err := s.client.Get(ctx, apiclient.InvestmentPath(investmentID))
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Get] get")
	}
	var investment Investment
	if err := env.DecodeData(&investment); err != nil {
		return nil, errors.Wrap(err, "[Service.Get] decode data")
	}
	return &investment, nil
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*Investment, error) {
	env, err := s.client.Post(ctx, apiclient.EndpointInvestments, req)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Create] post")
	}
	var investment Investment
	if err := env.DecodeData(&investment); err != nil {
		return nil, errors.Wrap(err, "[Service.Create] decode data")
	}
	return &investment, nil
}

// FilterByType filters client-side. An empty type passes everything through.
func FilterByType(investments []Investment, investmentType string) []Investment {
	if investmentType == "" {
		return investments
	}
	filtered := make([]Investment, 0, len(investments))
	for _, inv := range investments {
		if inv.Type == investmentType {
			filtered = append(filtered, inv)
		}
	}
	return filtered
}

// FilterByStatus filters client-side. An empty status passes everything
// through.
func FilterByStatus(investments []Investment, status string) []Investment {
	if status == "" {
		return investments
	}
	filtered := make([]Investment, 0, len(investments))
	for _, inv := range investments {
		if inv.Status == status {
			filtered = append(filtered, inv)
		}
	}
	return filtered
}
