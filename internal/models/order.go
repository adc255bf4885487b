package models

// SalesOrder mirrors the ERPNext Sales Order fields the app reads.
type SalesOrder struct {
	Name         string      `json:"name"`
	Customer     string      `json:"customer"`
	CustomerName string      `json:"customer_name"`
	DeliveryDate string      `json:"delivery_date"`
	GrandTotal   float64     `json:"grand_total"`
	Status       string      `json:"status"`
	Items        []OrderItem `json:"items"`
}

type OrderItem struct {
	ItemCode    string  `json:"item_code"`
	ItemName    string  `json:"item_name"`
	Qty         float64 `json:"qty"`
	Rate        float64 `json:"rate"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description,omitempty"`
}

// Customer is the contact record attached to an order. Lookups degrade
// gracefully: a missing customer is displayed as absent, not an error.
type Customer struct {
	CustomerName string `json:"customer_name"`
	MobileNo     string `json:"mobile_no"`
	EmailID      string `json:"email_id"`
	Territory    string `json:"territory"`
}

type Address struct {
	Name         string `json:"name"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
}

// PaymentEntry is an ERPNext Payment Entry row (today's collections view).
type PaymentEntry struct {
	Name          string  `json:"name"`
	Party         string  `json:"party"`
	PartyName     string  `json:"party_name"`
	PaidAmount    float64 `json:"paid_amount"`
	PostingDate   string  `json:"posting_date"`
	ReferenceNo   string  `json:"reference_no,omitempty"`
	ModeOfPayment string  `json:"mode_of_payment"`
}
