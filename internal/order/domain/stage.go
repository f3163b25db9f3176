package domain

// Stage is one step of the order-collection flow. The zero value is
// StageUnset, meaning no order is in progress.
type Stage string

const (
	StageUnset               Stage = ""
	StageCollectingItems     Stage = "collecting_items"
	StageConfirmingItems     Stage = "confirming_items"
	StageSelectingDelivery   Stage = "selecting_delivery"
	StageCollectingAddress   Stage = "collecting_address"
	StageSelectingBranch     Stage = "selecting_branch"
	StageSelectingPayment    Stage = "selecting_payment"
	StageWaitingPaymentProof Stage = "waiting_payment_proof"
	StageConfirmingOrder     Stage = "confirming_order"
	StageCompleted           Stage = "completed"
)

// transitions is the full stage graph. Handlers enforce the guards;
// this table is the single source of truth for which edges exist.
var transitions = map[Stage][]Stage{
	StageUnset:               {StageCollectingItems},
	StageCollectingItems:     {StageConfirmingItems, StageCollectingItems},
	StageConfirmingItems:     {StageSelectingDelivery, StageCollectingItems},
	StageSelectingDelivery:   {StageCollectingAddress, StageSelectingBranch},
	StageCollectingAddress:   {StageSelectingPayment},
	StageSelectingBranch:     {StageSelectingPayment},
	StageSelectingPayment:    {StageWaitingPaymentProof, StageConfirmingOrder},
	StageWaitingPaymentProof: {StageConfirmingOrder},
	StageConfirmingOrder:     {StageCompleted, StageCollectingItems},
	StageCompleted:           {StageUnset},
}

// CanTransition reports whether the stage graph has an edge from one
// stage to another.
func CanTransition(from, to Stage) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStages returns the stages reachable from the current one.
func NextStages(current Stage) []Stage {
	return transitions[current]
}

// IsValid reports whether the stage is a known node of the graph.
// Data loaded from an external store may carry anything.
func (s Stage) IsValid() bool {
	_, ok := transitions[s]
	return ok
}
