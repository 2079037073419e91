package enums

import "fmt"

// IntentKind names a user action emitted by the presentation layer.
type IntentKind string

const (
	IntentAddToCart        IntentKind = "add_to_cart"
	IntentSetQuantity      IntentKind = "set_quantity"
	IntentAdjustQuantity   IntentKind = "adjust_quantity"
	IntentRemoveLine       IntentKind = "remove_line"
	IntentClearCart        IntentKind = "clear_cart"
	IntentBeginCheckout    IntentKind = "begin_checkout"
	IntentProceedToPayment IntentKind = "proceed_to_payment"
	IntentCompletePayment  IntentKind = "complete_payment"
	IntentCancelCheckout   IntentKind = "cancel_checkout"
	IntentSaveProduct      IntentKind = "save_product"
	IntentNavigateSection  IntentKind = "navigate_section"
)

var validIntentKinds = []IntentKind{
	IntentAddToCart,
	IntentSetQuantity,
	IntentAdjustQuantity,
	IntentRemoveLine,
	IntentClearCart,
	IntentBeginCheckout,
	IntentProceedToPayment,
	IntentCompletePayment,
	IntentCancelCheckout,
	IntentSaveProduct,
	IntentNavigateSection,
}

// IntentKinds returns every known intent kind.
func IntentKinds() []IntentKind {
	out := make([]IntentKind, len(validIntentKinds))
	copy(out, validIntentKinds)
	return out
}

func (k IntentKind) String() string {
	return string(k)
}

func (k IntentKind) IsValid() bool {
	for _, candidate := range validIntentKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseIntentKind converts raw input into an IntentKind.
func ParseIntentKind(value string) (IntentKind, error) {
	for _, candidate := range validIntentKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid intent %q", value)
}
