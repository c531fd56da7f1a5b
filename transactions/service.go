// Package transactions wraps the transaction endpoints and the client-side
// aggregation helpers.
package transactions

import (
	"context"
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"github.com/confiance/confiance-go/apiclient"
)

// Transaction types.
const (
	TypeDeposit    = "DEPOSIT"
	TypeWithdrawal = "WITHDRAWAL"
	TypeInvestment = "INVESTMENT"
	TypeReturn     = "RETURN"
	TypeDividend   = "DIVIDEND"
	TypeInterest   = "INTEREST"
	TypeFee        = "FEE"
	TypeRefund     = "REFUND"
)

// Transaction statuses.
const (
	StatusPending    = "PENDING"
	StatusProcessing = "PROCESSING"
	StatusCompleted  = "COMPLETED"
	StatusFailed     = "FAILED"
	StatusCancelled  = "CANCELLED"
	StatusRefunded   = "REFUNDED"
)

type Transaction struct {
	ID        int64   `json:"id"`
	UserID    int64   `json:"userId"`
	Type      string  `json:"type"`
	Status    string  `json:"status"`
	Amount    float64 `json:"amount"`
	CreatedAt string  `json:"createdAt,omitempty"`
}

// CreateRequest carries the fields for a new transaction.
type CreateRequest struct {
	UserID int64   `json:"userId"`
	Type   string  `json:"type"`
	Amount float64 `json:"amount"`
}

// Page is a paginated transaction listing.
type Page struct {
	Content       []Transaction `json:"content"`
	Page          int           `json:"page"`
	Size          int           `json:"size"`
	TotalElements int64         `json:"totalElements"`
}

type Service struct {
	client *apiclient.Client
}

func New(client *apiclient.Client) *Service {
	return &Service{client: client}
}

func (s *Service) ListForUser(ctx context.Context, userID int64, page, size int) (*Page, error) {
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

	env, err := s.client.Get(ctx, apiclient.UserTransactionsPath(userID), apiclient.WithQuery(query))
	if err != nil {
		return nil, errors.Wrap(err, "[Service.ListForUser] get")
	}
	var listing Page
	if err := env.DecodeData(&listing); err != nil {
		return nil, errors.Wrap(err, "[Service.ListForUser] decode data")
	}
	return &listing, nil
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*Transaction, error) {
	env, err := s.client.Post(ctx, apiclient.EndpointTransactions, req)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Create] post")
	}
	var txn Transaction
	if err := env.DecodeData(&txn); err != nil {
		return nil, errors.Wrap(err, "[Service.Create] decode data")
	}
	return &txn, nil
}

// FilterByType filters client-side. An empty type passes everything through.
func FilterByType(txns []Transaction, txnType string) []Transaction {
	if txnType == "" {
		return txns
	}
	filtered := make([]Transaction, 0, len(txns))
	for _, txn := range txns {
		if txn.Type == txnType {
			filtered = append(filtered, txn)
		}
	}
	return filtered
}

// FilterByStatus filters client-side. An empty status passes everything
// through.
func FilterByStatus(txns []Transaction, status string) []Transaction {
	if status == "" {
		return txns
	}
	filtered := make([]Transaction, 0, len(txns))
	for _, txn := range txns {
		if txn.Status == status {
			filtered = append(filtered, txn)
		}
	}
	return filtered
}

// TotalByType sums the amounts of all transactions of the given type.
func TotalByType(txns []Transaction, txnType string) float64 {
	var total float64
	for _, txn := range txns {
		if txn.Type == txnType {
			total += txn.Amount
		}
	}
	return total
}
