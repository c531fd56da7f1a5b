package transactions_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/confiance/confiance-go/apiclient"
	"github.com/confiance/confiance-go/tokenstore/storefakes"
	"github.com/confiance/confiance-go/transactions"
)

func TestListForUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/transactions/user/7", r.URL.Path)
		w.Write([]byte(`{"success":true,"data":{"content":[` +
			`{"id":1,"userId":7,"type":"DEPOSIT","status":"COMPLETED","amount":100},` +
			`{"id":2,"userId":7,"type":"FEE","status":"COMPLETED","amount":2.5}],` +
			`"page":0,"size":20,"totalElements":2}}`))
	}))
	defer server.Close()

	client, err := apiclient.New(server.URL, storefakes.NewFakeStore())
	require.NoError(t, err)

	listing, err := transactions.New(client).ListForUser(context.Background(), 7, 0, 20)
	require.NoError(t, err)
	require.Len(t, listing.Content, 2)
	require.Equal(t, transactions.TypeDeposit, listing.Content[0].Type)
}

func TestCreate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var req transactions.CreateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, transactions.TypeWithdrawal, req.Type)

		w.Write([]byte(`{"success":true,"data":` +
			`{"id":9,"userId":7,"type":"WITHDRAWAL","status":"PENDING","amount":50}}`))
	}))
	defer server.Close()

	client, err := apiclient.New(server.URL, storefakes.NewFakeStore())
	require.NoError(t, err)

	txn, err := transactions.New(client).Create(context.Background(), transactions.CreateRequest{
		UserID: 7,
		Type:   transactions.TypeWithdrawal,
		Amount: 50,
	})
	require.NoError(t, err)
	require.Equal(t, int64(9), txn.ID)
	require.Equal(t, transactions.StatusPending, txn.Status)
}

func TestAggregationHelpers(t *testing.T) {
	sample := []transactions.Transaction{
		{ID: 1, Type: transactions.TypeDeposit, Status: transactions.StatusCompleted, Amount: 100},
		{ID: 2, Type: transactions.TypeDeposit, Status: transactions.StatusPending, Amount: 40},
		{ID: 3, Type: transactions.TypeWithdrawal, Status: transactions.StatusCompleted, Amount: 25},
		{ID: 4, Type: transactions.TypeFee, Status: transactions.StatusFailed, Amount: 1.5},
	}

	t.Run("filter by type", func(t *testing.T) {
		deposits := transactions.FilterByType(sample, transactions.TypeDeposit)
		require.Len(t, deposits, 2)
		require.Len(t, transactions.FilterByType(sample, ""), 4)
	})

	t.Run("filter by status", func(t *testing.T) {
		completed := transactions.FilterByStatus(sample, transactions.StatusCompleted)
		require.Len(t, completed, 2)
		require.Empty(t, transactions.FilterByStatus(sample, transactions.StatusRefunded))
	})

	t.Run("total by type", func(t *testing.T) {
		require.Equal(t, 140.0, transactions.TotalByType(sample, transactions.TypeDeposit))
		require.Equal(t, 25.0, transactions.TotalByType(sample, transactions.TypeWithdrawal))
		require.Equal(t, 0.0, transactions.TotalByType(sample, transactions.TypeDividend))
		require.Equal(t, 0.0, transactions.TotalByType(nil, transactions.TypeDeposit))
	})
}
