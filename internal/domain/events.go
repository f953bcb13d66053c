package domain

// Event subjects published on the message bus.
const (
	EventCartItemAdded      = "cart.item_added"
	EventCartItemRemoved    = "cart.item_removed"
	EventCartCleared        = "cart.cleared"
	EventAgreementGenerated = "agreement.generated"
)
