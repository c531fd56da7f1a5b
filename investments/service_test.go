package investments_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/confiance/confiance-go/apiclient"
	"github.com/confiance/confiance-go/investments"
	"github.com/confiance/confiance-go/tokenstore/storefakes"
)

func TestList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/investments", r.URL.Path)
		require.Equal(t, "2", r.URL.Query().Get("page"))
		require.Equal(t, "10", r.URL.Query().Get("size"))
		w.Write([]byte(`{"success":true,"data":{"content":[` +
			`{"id":1,"name":"Index Fund","type":"MUTUAL_FUND","status":"ACTIVE","amount":5000}],` +
			`"page":2,"size":10,"totalElements":21}}`))
	}))
	defer server.Close()

	client, err := apiclient.New(server.URL, storefakes.NewFakeStore())
	require.NoError(t, err)

	listing, err := investments.New(client).List(context.Background(), 2, 10)
	require.NoError(t, err)
	require.Len(t, listing.Content, 1)
	require.Equal(t, investments.TypeMutualFund, listing.Content[0].Type)
	require.Equal(t, int64(21), listing.TotalElements)
}

func TestListAppliesPagingDefaults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "0", r.URL.Query().Get("page"))
		require.Equal(t, "20", r.URL.Query().Get("size"))
		w.Write([]byte(`{"success":true,"data":{"content":[],"page":0,"size":20,"totalElements":0}}`))
	}))
	defer server.Close()

	client, err := apiclient.New(server.URL, storefakes.NewFakeStore())
	require.NoError(t, err)

	_, err = investments.New(client).List(context.Background(), -1, 0)
	require.NoError(t, err)
}

func TestFilters(t *testing.T) {
	sample := []investments.Investment{
		{ID: 1, Type: investments.TypeEquity, Status: investments.StatusActive},
		{ID: 2, Type: investments.TypeBond, Status: investments.StatusMatured},
		{ID: 3, Type: investments.TypeEquity, Status: investments.StatusClosed},
	}

	t.Run("by type", func(t *testing.T) {
		equities := investments.FilterByType(sample, investments.TypeEquity)
		require.Len(t, equities, 2)
		require.Equal(t, int64(1), equities[0].ID)
		require.Equal(t, int64(3), equities[1].ID)

		require.Empty(t, investments.FilterByType(sample, investments.TypeCrypto))
	})

	t.Run("by status", func(t *testing.T) {
		matured := investments.FilterByStatus(sample, investments.StatusMatured)
		require.Len(t, matured, 1)
		require.Equal(t, int64(2), matured[0].ID)
	})

	t.Run("empty filter passes everything through", func(t *testing.T) {
		require.Len(t, investments.FilterByType(sample, ""), 3)
		require.Len(t, investments.FilterByStatus(sample, ""), 3)
	})
}
