package intents

import (
	"bytes"
	"encoding/json"

	"github.com/angelmondragon/storewise-backend/internal/cart"
)

// Quantity accepts either a JSON number or the raw text of a quantity input
// and reads it leniently.
type Quantity int

func (q *Quantity) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var raw string
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		*q = Quantity(cart.ParseQuantity(raw))
		return nil
	}
	*q = Quantity(cart.ParseQuantity(string(trimmed)))
	return nil
}
