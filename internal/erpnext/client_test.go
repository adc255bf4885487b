package erpnext

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"dukadrop/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticSettings(baseURL string) SettingsSource {
	return func() models.Settings {
		return models.Settings{
			BaseURL:   baseURL,
			APIKey:    "key123",
			APISecret: "secret456",
		}
	}
}

func TestListOpenOrders(t *testing.T) {
	var gotAuth, gotFilters string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/resource/Sales%20Order", r.URL.EscapedPath())
		gotAuth = r.Header.Get("Authorization")
		gotFilters = r.URL.Query().Get("filters")
		w.Write([]byte(`{"data":[{"name":"SO-0001","customer":"CUST-1","customer_name":"Jane","grand_total":1500.5,"status":"To Deliver"}]}`))
	}))
	defer srv.Close()

	c := NewClient(staticSettings(srv.URL))
	orders, err := c.ListOpenOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "SO-0001", orders[0].Name)
	assert.Equal(t, 1500.5, orders[0].GrandTotal)
	assert.Equal(t, "token key123:secret456", gotAuth)
	assert.Contains(t, gotFilters, "To Deliver and Bill")
}

func TestGetSalesOrderItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/resource/Sales%20Order/SO-0002", r.URL.EscapedPath())
		w.Write([]byte(`{"data":{"name":"SO-0002","grand_total":300,"items":[{"item_code":"COF-1","item_name":"Coffee 1kg","qty":2,"rate":150,"amount":300}]}}`))
	}))
	defer srv.Close()

	c := NewClient(staticSettings(srv.URL))
	order, err := c.GetSalesOrder(context.Background(), "SO-0002")
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Coffee 1kg", order.Items[0].ItemName)
}

func TestGetCustomerAddressFallsBackToShipping(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.EscapedPath())
		if r.URL.EscapedPath() == "/api/resource/Address/CUST-1-Billing-Billing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"data":{"name":"CUST-1-Shipping-Shipping","address_line1":"Moi Ave","city":"Nairobi"}}`))
	}))
	defer srv.Close()

	c := NewClient(staticSettings(srv.URL))
	addr, err := c.GetCustomerAddress(context.Background(), "CUST-1")
	require.NoError(t, err)
	require.NotNil(t, addr)
	assert.Equal(t, "Moi Ave", addr.AddressLine1)
	assert.Len(t, paths, 2, "billing tried before shipping")
}

func TestGetCustomerAddressMissingIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(staticSettings(srv.URL))
	addr, err := c.GetCustomerAddress(context.Background(), "CUST-9")
	assert.NoError(t, err)
	assert.Nil(t, addr)
}

func TestUpdateOrderStatus(t *testing.T) {
	var gotMethod, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		buf, _ := io.ReadAll(r.Body)
		gotBody = string(buf)
		w.Write([]byte(`{"data":{}}`))
	}))
	defer srv.Close()

	c := NewClient(staticSettings(srv.URL))
	require.NoError(t, c.UpdateOrderStatus(context.Background(), "SO-0001", "Completed"))
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.JSONEq(t, `{"status":"Completed"}`, gotBody)
}

func TestListTodaysPayments(t *testing.T) {
	var gotFilters string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/resource/Payment%20Entry", r.URL.EscapedPath())
		gotFilters = r.URL.Query().Get("filters")
		w.Write([]byte(`{"data":[{"name":"PE-0001","party_name":"Jane","paid_amount":1500.5,"mode_of_payment":"M-Pesa"}]}`))
	}))
	defer srv.Close()

	c := NewClient(staticSettings(srv.URL))
	entries, err := c.ListTodaysPayments(context.Background(), "M-Pesa")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 1500.5, entries[0].PaidAmount)
	assert.Contains(t, gotFilters, `"mode_of_payment","=","M-Pesa"`)
	assert.Contains(t, gotFilters, `"posting_date"`)
}

func TestProxyPrefixing(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	c := NewClient(func() models.Settings {
		return models.Settings{
			BaseURL:  "/erp",
			UseProxy: true,
			ProxyURL: srv.URL,
		}
	})
	_, err := c.ListOpenOrders(context.Background())
	require.NoError(t, err)
	assert.Contains(t, gotPath, "/erp/api/resource/")
}

func TestErrorStatusSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(staticSettings(srv.URL))
	_, err := c.ListOpenOrders(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}
