package erpnext

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"dukadrop/internal/models"
)

// SettingsSource returns the current ERP connection settings. It is read on
// every request so settings saved from the app take effect immediately.
type SettingsSource func() models.Settings

// Client is a read-mostly REST client for the ERPNext backend.
type Client struct {
	settings SettingsSource
	http     *http.Client
}

func NewClient(src SettingsSource) *Client {
	return &Client{
		settings: src,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) request(ctx context.Context, method, endpoint string, payload, out interface{}) error {
	settings := c.settings()
	// With the proxy enabled the target URL is passed through as a path
	// suffix: proxyUrl + baseUrl + endpoint.
	reqURL := settings.BaseURL + endpoint
	if settings.UseProxy {
		reqURL = settings.ProxyURL + settings.BaseURL + endpoint
	}
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if settings.APIKey != "" && settings.APISecret != "" {
		req.Header.Set("Authorization", "token "+settings.APIKey+":"+settings.APISecret)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("erpnext: %s %s: status %d", method, endpoint, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("erpnext: decode: %w", err)
	}
	return json.Unmarshal(envelope.Data, out)
}

func resource(doctype, name string) string {
	return "/api/resource/" + url.PathEscape(doctype) + "/" + url.PathEscape(name)
}

// ListOpenOrders returns undelivered sales orders, newest first.
func (c *Client) ListOpenOrders(ctx context.Context) ([]models.SalesOrder, error) {
	q := url.Values{}
	q.Set("fields", `["name","customer","customer_name","delivery_date","grand_total","status"]`)
	q.Set("filters", `[["status","in",["To Deliver and Bill","To Deliver"]]]`)
	q.Set("limit_page_length", "50")
	q.Set("order_by", "creation desc")
	var orders []models.SalesOrder
	endpoint := "/api/resource/" + url.PathEscape("Sales Order") + "?" + q.Encode()
	if err := c.request(ctx, http.MethodGet, endpoint, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetSalesOrder fetches the full order document including items.
func (c *Client) GetSalesOrder(ctx context.Context, name string) (*models.SalesOrder, error) {
	var order models.SalesOrder
	if err := c.request(ctx, http.MethodGet, resource("Sales Order", name), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetCustomer fetches customer contact details.
func (c *Client) GetCustomer(ctx context.Context, name string) (*models.Customer, error) {
	q := url.Values{}
	q.Set("fields", `["customer_name","mobile_no","email_id","territory"]`)
	var customer models.Customer
	endpoint := resource("Customer", name) + "?" + q.Encode()
	if err := c.request(ctx, http.MethodGet, endpoint, nil, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetCustomerAddress looks up the customer's billing address, falling back
// to the shipping address. ERPNext names these records <customer>-<type>-<type>.
// Returns (nil, nil) when neither exists; callers display the address as
// absent rather than failing the order view.
func (c *Client) GetCustomerAddress(ctx context.Context, customer string) (*models.Address, error) {
	q := url.Values{}
	q.Set("fields", `["name","address_line1","address_line2","city","state","pincode"]`)
	for _, suffix := range []string{"-Billing-Billing", "-Shipping-Shipping"} {
		var addr models.Address
		endpoint := resource("Address", customer+suffix) + "?" + q.Encode()
		if err := c.request(ctx, http.MethodGet, endpoint, nil, &addr); err == nil {
			return &addr, nil
		}
	}
	log.Printf("[ERPNEXT] no billing or shipping address for customer %s", customer)
	return nil, nil
}

// UpdateOrderStatus sets the order's status field.
func (c *Client) UpdateOrderStatus(ctx context.Context, name, status string) error {
	payload := map[string]string{"status": status}
	return c.request(ctx, http.MethodPut, resource("Sales Order", name), payload, nil)
}

// ListTodaysPayments returns today's Payment Entry rows for the given mode
// of payment, newest first.
func (c *Client) ListTodaysPayments(ctx context.Context, mode string) ([]models.PaymentEntry, error) {
	today := time.Now().Format("2006-01-02")
	q := url.Values{}
	q.Set("fields", `["name","party","party_name","paid_amount","posting_date","reference_no","mode_of_payment"]`)
	q.Set("filters", fmt.Sprintf(`[["mode_of_payment","=",%q],["posting_date","=",%q]]`, mode, today))
	q.Set("order_by", "posting_date desc")
	q.Set("limit_page_length", "50")
	var entries []models.PaymentEntry
	endpoint := "/api/resource/" + url.PathEscape("Payment Entry") + "?" + q.Encode()
	if err := c.request(ctx, http.MethodGet, endpoint, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// GetPaymentEntry fetches one Payment Entry document.
func (c *Client) GetPaymentEntry(ctx context.Context, name string) (*models.PaymentEntry, error) {
	var entry models.PaymentEntry
	if err := c.request(ctx, http.MethodGet, resource("Payment Entry", name), nil, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}
