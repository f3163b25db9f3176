package domain

import "testing"

func TestAddItemMergesByProductID(t *testing.T) {
	cart := &Cart{}
	cart.AddItem(CartItem{ProductID: "A1", ProductName: "Croquetas", Quantity: 1, UnitPrice: 450})
	cart.AddItem(CartItem{ProductID: "A1", ProductName: "Croquetas", Quantity: 2, UnitPrice: 450})

	if len(cart.Items) != 1 {
		t.Fatalf("expected 1 line, got %d", len(cart.Items))
	}
	if cart.Items[0].Quantity != 3 {
		t.Errorf("expected merged quantity 3, got %d", cart.Items[0].Quantity)
	}
	if cart.Subtotal() != 1350 {
		t.Errorf("expected subtotal 1350, got %v", cart.Subtotal())
	}
}

func TestRemoveItem(t *testing.T) {
	cart := &Cart{}
	cart.AddItem(CartItem{ProductID: "A1", ProductName: "Croquetas", Quantity: 1, UnitPrice: 450})

	if !cart.RemoveItem("A1") {
		t.Error("expected removal of existing item to report true")
	}
	if cart.RemoveItem("A1") {
		t.Error("expected removal of missing item to report false")
	}
	if len(cart.Items) != 0 {
		t.Errorf("expected empty cart, got %d items", len(cart.Items))
	}
}

func TestClearResetsSelectionsButNotProofFlag(t *testing.T) {
	cart := &Cart{
		DeliveryType:         DeliveryDelivery,
		DeliveryAddress:      "Calle Falsa 123, Col. Centro, Tecámac",
		BranchID:             "tecamac",
		PaymentMethod:        PaymentTransfer,
		PaymentProofReceived: true,
	}
	cart.AddItem(CartItem{ProductID: "A1", Quantity: 1, UnitPrice: 100})

	cart.Clear()

	if len(cart.Items) != 0 || cart.DeliveryType != "" || cart.DeliveryAddress != "" ||
		cart.BranchID != "" || cart.PaymentMethod != "" {
		t.Errorf("expected selections reset, got %+v", cart)
	}
	if !cart.PaymentProofReceived {
		t.Error("expected payment proof flag to survive clear")
	}
}

func TestShippingCost(t *testing.T) {
	tests := []struct {
		name     string
		delivery DeliveryType
		subtotal float64
		want     float64
	}{
		{"pickup never ships", DeliveryPickup, 85, 0},
		{"delivery below threshold", DeliveryDelivery, 85, 50},
		{"delivery at threshold", DeliveryDelivery, 500, 0},
		{"delivery above threshold", DeliveryDelivery, 900, 0},
		{"no delivery type chosen", "", 85, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart := &Cart{DeliveryType: tt.delivery}
			cart.AddItem(CartItem{ProductID: "A1", Quantity: 1, UnitPrice: tt.subtotal})
			if got := cart.ShippingCost(); got != tt.want {
				t.Errorf("ShippingCost() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTotalScenarios(t *testing.T) {
	// Two units at 450 picked up in store: no shipping.
	pickup := &Cart{DeliveryType: DeliveryPickup}
	pickup.AddItem(CartItem{ProductID: "A1", Quantity: 2, UnitPrice: 450})
	if pickup.Total() != 900 {
		t.Errorf("pickup total = %v, want 900", pickup.Total())
	}

	// Delivery at 500 or more ships free.
	free := &Cart{DeliveryType: DeliveryDelivery}
	free.AddItem(CartItem{ProductID: "A1", Quantity: 2, UnitPrice: 450})
	if free.Total() != 900 {
		t.Errorf("free delivery total = %v, want 900", free.Total())
	}

	// Small delivery pays the flat fee.
	small := &Cart{DeliveryType: DeliveryDelivery}
	small.AddItem(CartItem{ProductID: "B2", Quantity: 1, UnitPrice: 85})
	if small.Total() != 135 {
		t.Errorf("small delivery total = %v, want 135", small.Total())
	}
}

func TestTotalsRecomputeAfterMutation(t *testing.T) {
	cart := &Cart{DeliveryType: DeliveryDelivery}
	cart.AddItem(CartItem{ProductID: "A1", Quantity: 1, UnitPrice: 300})
	if cart.ShippingCost() != 50 {
		t.Fatalf("expected flat fee at 300, got %v", cart.ShippingCost())
	}

	cart.AddItem(CartItem{ProductID: "B2", Quantity: 1, UnitPrice: 250})
	if cart.ShippingCost() != 0 {
		t.Errorf("expected free shipping at 550, got %v", cart.ShippingCost())
	}
}
