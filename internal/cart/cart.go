package cart

import (
	"fmt"
	"sync"

	pkgerrors "github.com/angelmondragon/storewise-backend/pkg/errors"
	"github.com/angelmondragon/storewise-backend/pkg/money"
	"github.com/shopspring/decimal"
)

// MaxQuantity caps a single cart line.
const MaxQuantity = 9999

// Line is one cart entry. Price and Name are copied from the catalog when the
// line is first added and keep that value afterwards.
type Line struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Name      string          `json:"name"`
}

// LineTotal is price times quantity.
func (l Line) LineTotal() decimal.Decimal {
	return money.Line(l.Price, l.Quantity)
}

// Totals are exact; call Rounded before showing them.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// Rounded rounds each figure to cents. Total is rounded from the exact sum.
func (t Totals) Rounded() Totals {
	return Totals{
		Subtotal: money.Round(t.Subtotal),
		Tax:      money.Round(t.Tax),
		Total:    money.Round(t.Total),
	}
}

// ComputeTotals derives subtotal, tax and total for lines at taxRate.
func ComputeTotals(lines []Line, taxRate decimal.Decimal) Totals {
	subtotal := money.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.LineTotal())
	}
	tax := subtotal.Mul(taxRate)
	return Totals{Subtotal: subtotal, Tax: tax, Total: subtotal.Add(tax)}
}

// Cart is the register's single in-progress sale. The zero value is empty and
// ready to use.
type Cart struct {
	mu    sync.Mutex
	lines []Line
}

// Add merges qty into an existing line for the product or appends a new
// line snapshotting price and name.
func (c *Cart) Add(productID, name string, price decimal.Decimal, qty int) error {
	if qty < 1 {
		return pkgerrors.InvalidInput("quantity must be at least 1")
	}
	if qty > MaxQuantity {
		return tooMany()
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			if qty > MaxQuantity-c.lines[i].Quantity {
				return tooMany()
			}
			c.lines[i].Quantity += qty
			return nil
		}
	}
	c.lines = append(c.lines, Line{ProductID: productID, Quantity: qty, Price: price, Name: name})
	return nil
}

// Contains reports whether a line for productID exists.
func (c *Cart) Contains(productID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, l := range c.lines {
		if l.ProductID == productID {
			return true
		}
	}
	return false
}

// SetQuantity overwrites the quantity of the line at index, clamped to
// 1..MaxQuantity.
func (c *Cart) SetQuantity(index, qty int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkIndex(index); err != nil {
		return err
	}
	c.lines[index].Quantity = clampQuantity(qty)
	return nil
}

// AdjustQuantity adds delta to the line at index, clamped to 1..MaxQuantity.
func (c *Cart) AdjustQuantity(index, delta int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkIndex(index); err != nil {
		return err
	}
	current := c.lines[index].Quantity
	switch {
	case delta > MaxQuantity-current:
		c.lines[index].Quantity = MaxQuantity
	case delta < 1-current:
		c.lines[index].Quantity = 1
	default:
		c.lines[index].Quantity = current + delta
	}
	return nil
}

// Remove deletes the line at index.
func (c *Cart) Remove(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkIndex(index); err != nil {
		return err
	}
	c.lines = append(c.lines[:index], c.lines[index+1:]...)
	return nil
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// Lines returns a copy of the current lines.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// Len returns the number of lines.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

// Totals computes exact totals at taxRate.
func (c *Cart) Totals(taxRate decimal.Decimal) Totals {
	return ComputeTotals(c.Lines(), taxRate)
}

// Settle hands a copy of the lines to fn while holding the cart lock, so no
// mutation can interleave. The cart is cleared only when fn succeeds.
func (c *Cart) Settle(fn func(lines []Line) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.lines) == 0 {
		return pkgerrors.EmptyCart()
	}
	if err := fn(c.snapshot()); err != nil {
		return err
	}
	c.lines = nil
	return nil
}

func (c *Cart) snapshot() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) checkIndex(index int) error {
	if index < 0 || index >= len(c.lines) {
		return pkgerrors.NotFound(fmt.Sprintf("cart line %d not found", index))
	}
	return nil
}

func clampQuantity(qty int) int {
	switch {
	case qty < 1:
		return 1
	case qty > MaxQuantity:
		return MaxQuantity
	}
	return qty
}

func tooMany() error {
	return pkgerrors.InvalidInput(fmt.Sprintf("quantity cannot exceed %d per line", MaxQuantity)).
		WithDetails(map[string]any{"max_quantity": MaxQuantity})
}
