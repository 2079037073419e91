package checkout

import (
	"fmt"

	"github.com/angelmondragon/storewise-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storewise-backend/pkg/errors"
)

// Status is the externally visible checkout session.
type Status struct {
	State             enums.CheckoutState `json:"state"`
	LastTransactionID string              `json:"last_transaction_id,omitempty"`
}

var transitions = map[enums.CheckoutState][]enums.CheckoutState{
	enums.CheckoutStateIdle:                        {enums.CheckoutStateReviewingCart},
	enums.CheckoutStatePosted:                      {enums.CheckoutStateReviewingCart},
	enums.CheckoutStateReviewingCart:               {enums.CheckoutStateReviewingCart, enums.CheckoutStateAwaitingPaymentConfirmation, enums.CheckoutStateIdle},
	enums.CheckoutStateAwaitingPaymentConfirmation: {enums.CheckoutStatePosted, enums.CheckoutStateIdle},
}

// CanTransition reports whether the session may move from one state to another.
func CanTransition(from, to enums.CheckoutState) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func stateConflict(action string, state enums.CheckoutState) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("cannot %s while checkout is %s", action, state)).
		WithDetails(map[string]string{"state": state.String()})
}
