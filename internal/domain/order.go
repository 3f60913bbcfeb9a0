package domain

import "fmt"

// PriceUnavailable replaces the price and total of items whose page shows no price.
const PriceUnavailable = "Price unavailable"

// LineItem is one purchased product extracted from an order's detail page
type LineItem struct {
	OrderID      string  `json:"orderId"`
	ProductTitle string  `json:"productTitle"`
	Date         string  `json:"date"`
	UnitPrice    float64 `json:"unitPrice"`
	Quantity     int     `json:"quantity"`
	Price        string  `json:"price"` // "$12.34" or PriceUnavailable
	Total        string  `json:"total"` // "$24.68" or PriceUnavailable
}

// NewLineItem computes the display price and total for an item.
// A zero unit price is reported as PriceUnavailable rather than $0.00.
func NewLineItem(orderID, title, date string, unitPrice float64, quantity int) LineItem {
	item := LineItem{
		OrderID:      orderID,
		ProductTitle: title,
		Date:         date,
		UnitPrice:    unitPrice,
		Quantity:     quantity,
		Price:        PriceUnavailable,
		Total:        PriceUnavailable,
	}
	if unitPrice > 0 {
		item.Price = fmt.Sprintf("$%.2f", unitPrice)
		item.Total = fmt.Sprintf("$%.2f", unitPrice*float64(quantity))
	}
	return item
}

// OrderRecord is the normalized form of a matched line item
type OrderRecord struct {
	OrderID  string `json:"Order ID" yaml:"order_id"`
	Product  string `json:"Product" yaml:"product"`
	Date     string `json:"Date" yaml:"date"`
	Price    string `json:"Price" yaml:"price"`
	Quantity int    `json:"Quantity" yaml:"quantity"`
	Total    string `json:"Total" yaml:"total"`
}

// Record wraps the item into an OrderRecord
func (l LineItem) Record() OrderRecord {
	return OrderRecord{
		OrderID:  l.OrderID,
		Product:  l.ProductTitle,
		Date:     l.Date,
		Price:    l.Price,
		Quantity: l.Quantity,
		Total:    l.Total,
	}
}

// OrderFailure records an order that was skipped during an eligibility check
type OrderFailure struct {
	OrderID string `json:"orderId" yaml:"order_id"`
	Reason  string `json:"reason" yaml:"reason"`
}

// EligibilityResult holds the HSA and FSA eligible orders in discovery order.
// A record can appear in both sequences.
type EligibilityResult struct {
	HSAOrders []OrderRecord  `json:"eligibleHsaOrders" yaml:"eligible_hsa_orders"`
	FSAOrders []OrderRecord  `json:"eligibleFsaOrders" yaml:"eligible_fsa_orders"`
	Failures  []OrderFailure `json:"failures,omitempty" yaml:"failures,omitempty"`
}
