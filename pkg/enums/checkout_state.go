package enums

import "fmt"

// CheckoutState tracks where the single register session is in the sale flow.
type CheckoutState string

const (
	CheckoutStateIdle                        CheckoutState = "idle"
	CheckoutStateReviewingCart               CheckoutState = "reviewing_cart"
	CheckoutStateAwaitingPaymentConfirmation CheckoutState = "awaiting_payment_confirmation"
	CheckoutStatePosted                      CheckoutState = "posted"
)

var validCheckoutStates = []CheckoutState{
	CheckoutStateIdle,
	CheckoutStateReviewingCart,
	CheckoutStateAwaitingPaymentConfirmation,
	CheckoutStatePosted,
}

// String implements fmt.Stringer.
func (s CheckoutState) String() string {
	return string(s)
}

// IsValid reports whether the value is a known CheckoutState.
func (s CheckoutState) IsValid() bool {
	for _, candidate := range validCheckoutStates {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseCheckoutState converts raw input into a CheckoutState.
func ParseCheckoutState(value string) (CheckoutState, error) {
	for _, candidate := range validCheckoutStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout state %q", value)
}
