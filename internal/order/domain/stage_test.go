package domain

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from Stage
		to   Stage
		want bool
	}{
		{"unset starts collecting", StageUnset, StageCollectingItems, true},
		{"unset cannot complete", StageUnset, StageCompleted, false},
		{"confirm advances to delivery", StageConfirmingItems, StageSelectingDelivery, true},
		{"confirm backs to collecting", StageConfirmingItems, StageCollectingItems, true},
		{"collecting self loop", StageCollectingItems, StageCollectingItems, true},
		{"delivery branches pickup", StageSelectingDelivery, StageSelectingBranch, true},
		{"delivery branches address", StageSelectingDelivery, StageCollectingAddress, true},
		{"address goes to payment", StageCollectingAddress, StageSelectingPayment, true},
		{"payment to proof", StageSelectingPayment, StageWaitingPaymentProof, true},
		{"proof to confirm", StageWaitingPaymentProof, StageConfirmingOrder, true},
		{"confirm order completes", StageConfirmingOrder, StageCompleted, true},
		{"confirm order restarts", StageConfirmingOrder, StageCollectingItems, true},
		{"completed is terminal", StageCompleted, StageUnset, true},
		{"no skipping ahead", StageCollectingItems, StageSelectingPayment, false},
		{"no going backward", StageSelectingPayment, StageCollectingAddress, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestIsValid(t *testing.T) {
	if !StageUnset.IsValid() {
		t.Error("unset stage should be valid")
	}
	if !StageCollectingItems.IsValid() {
		t.Error("collecting_items should be valid")
	}
	if Stage("banana").IsValid() {
		t.Error("unknown stage should be invalid")
	}
}

func TestNextStages(t *testing.T) {
	next := NextStages(StageSelectingDelivery)
	if len(next) != 2 {
		t.Fatalf("expected 2 next stages, got %d", len(next))
	}
}
