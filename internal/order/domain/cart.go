// Package domain contains the order domain model: the cart being built
// during a conversation and the stage machine that governs the flow.
package domain

import (
	"fmt"
	"strings"
)

// DeliveryType is how the customer receives the order.
type DeliveryType string

const (
	DeliveryPickup   DeliveryType = "pickup"
	DeliveryDelivery DeliveryType = "delivery"
)

// PaymentMethod is how the customer pays. Values are customer-facing
// Spanish words because they appear verbatim in replies.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "efectivo"
	PaymentTransfer PaymentMethod = "transferencia"
	PaymentCard     PaymentMethod = "tarjeta"
)

// FreeShippingThreshold is the subtotal above which delivery is free.
const FreeShippingThreshold = 500.0

// FlatShippingFee applies to deliveries below the threshold.
const FlatShippingFee = 50.0

// CartItem is one product line in the cart.
type CartItem struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// Subtotal is the line total for this item.
func (i CartItem) Subtotal() float64 {
	return float64(i.Quantity) * i.UnitPrice
}

// Cart is the order being assembled during a conversation. Totals are
// derived on every call so they always reflect the current item list.
type Cart struct {
	Items                []CartItem    `json:"items"`
	DeliveryType         DeliveryType  `json:"delivery_type,omitempty"`
	DeliveryAddress      string        `json:"delivery_address,omitempty"`
	BranchID             string        `json:"branch_id,omitempty"`
	BranchName           string        `json:"branch_name,omitempty"`
	PaymentMethod        PaymentMethod `json:"payment_method,omitempty"`
	PaymentProofReceived bool          `json:"payment_proof_received,omitempty"`
	Notes                string        `json:"notes,omitempty"`
}

// AddItem merges by product id, otherwise appends. There is no upper
// bound on quantity or item count.
func (c *Cart) AddItem(item CartItem) {
	for i := range c.Items {
		if c.Items[i].ProductID == item.ProductID {
			c.Items[i].Quantity += item.Quantity
			return
		}
	}
	c.Items = append(c.Items, item)
}

// RemoveItem removes the first item with the given product id and
// reports whether anything was removed.
func (c *Cart) RemoveItem(productID string) bool {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the items and resets delivery and payment selections.
// The payment proof flag survives a clear.
func (c *Cart) Clear() {
	c.Items = nil
	c.DeliveryType = ""
	c.DeliveryAddress = ""
	c.BranchID = ""
	c.BranchName = ""
	c.PaymentMethod = ""
}

// Subtotal sums the line totals.
func (c *Cart) Subtotal() float64 {
	var sum float64
	for _, item := range c.Items {
		sum += item.Subtotal()
	}
	return sum
}

// ShippingCost is zero for pickup and for deliveries at or above the
// free-shipping threshold; otherwise the flat fee applies.
func (c *Cart) ShippingCost() float64 {
	if c.DeliveryType == DeliveryDelivery {
		if c.Subtotal() >= FreeShippingThreshold {
			return 0
		}
		return FlatShippingFee
	}
	return 0
}

// Total is subtotal plus shipping.
func (c *Cart) Total() float64 {
	return c.Subtotal() + c.ShippingCost()
}

// ItemCount is the total quantity across all lines.
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// Summary renders the cart as customer-facing reply text.
func (c *Cart) Summary() string {
	lines := []string{"📦 **Tu pedido:**"}
	for _, item := range c.Items {
		lines = append(lines, fmt.Sprintf("  • %dx %s - $%.2f", item.Quantity, item.ProductName, item.Subtotal()))
	}
	lines = append(lines, fmt.Sprintf("\n💰 Subtotal: $%.2f", c.Subtotal()))
	if c.ShippingCost() > 0 {
		lines = append(lines, fmt.Sprintf("🚚 Envío: $%.2f", c.ShippingCost()))
	}
	lines = append(lines, fmt.Sprintf("**Total: $%.2f**", c.Total()))
	return strings.Join(lines, "\n")
}
