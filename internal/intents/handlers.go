package intents

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/angelmondragon/storewise-backend/internal/cart"
	"github.com/angelmondragon/storewise-backend/internal/catalog"
	"github.com/angelmondragon/storewise-backend/internal/checkout"
	"github.com/angelmondragon/storewise-backend/internal/dashboard"
	"github.com/angelmondragon/storewise-backend/internal/ledger"
	"github.com/angelmondragon/storewise-backend/internal/settings"
	"github.com/angelmondragon/storewise-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storewise-backend/pkg/errors"
	"github.com/angelmondragon/storewise-backend/pkg/pagination"
)

// Services are the store operations intents can reach.
type Services struct {
	Catalog   catalog.Service
	Cart      cart.Service
	Checkout  checkout.Service
	Ledger    ledger.Service
	Dashboard dashboard.Service
	Settings  settings.Service
}

// SectionView is returned by navigate_section.
type SectionView struct {
	Section enums.Section `json:"section"`
	Title   string        `json:"title"`
	View    any           `json:"view"`
}

type addToCartPayload struct {
	ProductID string `json:"product_id"`
	Quantity  *int   `json:"quantity"`
}

type lineQuantityPayload struct {
	Index    *int     `json:"index"`
	Quantity Quantity `json:"quantity"`
}

type adjustPayload struct {
	Index *int `json:"index"`
	Delta int  `json:"delta"`
}

type linePayload struct {
	Index *int `json:"index"`
}

type paymentPayload struct {
	PaymentMethod string `json:"payment_method"`
	CustomerName  string `json:"customer_name"`
}

type saveProductPayload struct {
	ID string `json:"id"`
	catalog.ProductForm
}

type navigatePayload struct {
	Section string `json:"section"`
}

// NewDefault builds a dispatcher with a handler for every intent kind.
func NewDefault(svcs Services, d *Dispatcher) (*Dispatcher, error) {
	if svcs.Catalog == nil || svcs.Cart == nil || svcs.Checkout == nil ||
		svcs.Ledger == nil || svcs.Dashboard == nil || svcs.Settings == nil {
		return nil, fmt.Errorf("intent services required")
	}
	if d == nil {
		d = NewDispatcher(nil)
	}
	h := handlers{svcs}
	table := map[enums.IntentKind]Handler{
		enums.IntentAddToCart:        h.addToCart,
		enums.IntentSetQuantity:      h.setQuantity,
		enums.IntentAdjustQuantity:   h.adjustQuantity,
		enums.IntentRemoveLine:       h.removeLine,
		enums.IntentClearCart:        h.clearCart,
		enums.IntentBeginCheckout:    h.beginCheckout,
		enums.IntentProceedToPayment: h.proceedToPayment,
		enums.IntentCompletePayment:  h.completePayment,
		enums.IntentCancelCheckout:   h.cancelCheckout,
		enums.IntentSaveProduct:      h.saveProduct,
		enums.IntentNavigateSection:  h.navigateSection,
	}
	for kind, fn := range table {
		if err := d.Register(kind, fn); err != nil {
			return nil, err
		}
	}
	return d, nil
}

type handlers struct {
	svcs Services
}

func (h handlers) addToCart(ctx context.Context, payload json.RawMessage) (any, error) {
	var p addToCartPayload
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	if p.ProductID == "" {
		return nil, pkgerrors.InvalidInput("product_id is required")
	}
	qty := 1
	if p.Quantity != nil {
		qty = *p.Quantity
	}
	return h.svcs.Cart.Add(ctx, p.ProductID, qty)
}

func (h handlers) setQuantity(ctx context.Context, payload json.RawMessage) (any, error) {
	var p lineQuantityPayload
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	index, err := requireIndex(p.Index)
	if err != nil {
		return nil, err
	}
	return h.svcs.Cart.SetQuantity(ctx, index, int(p.Quantity))
}

func (h handlers) adjustQuantity(ctx context.Context, payload json.RawMessage) (any, error) {
	var p adjustPayload
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	index, err := requireIndex(p.Index)
	if err != nil {
		return nil, err
	}
	return h.svcs.Cart.AdjustQuantity(ctx, index, p.Delta)
}

func (h handlers) removeLine(ctx context.Context, payload json.RawMessage) (any, error) {
	var p linePayload
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	index, err := requireIndex(p.Index)
	if err != nil {
		return nil, err
	}
	return h.svcs.Cart.Remove(ctx, index)
}

func requireIndex(index *int) (int, error) {
	if index == nil {
		return 0, pkgerrors.InvalidInput("index is required")
	}
	return *index, nil
}

func (h handlers) clearCart(ctx context.Context, _ json.RawMessage) (any, error) {
	return h.svcs.Cart.Clear(ctx)
}

func (h handlers) beginCheckout(ctx context.Context, _ json.RawMessage) (any, error) {
	return h.svcs.Checkout.Review(ctx)
}

func (h handlers) proceedToPayment(ctx context.Context, _ json.RawMessage) (any, error) {
	return h.svcs.Checkout.ProceedToPayment(ctx)
}

func (h handlers) completePayment(ctx context.Context, payload json.RawMessage) (any, error) {
	var p paymentPayload
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	return h.svcs.Checkout.CompletePayment(ctx, checkout.PaymentInput{
		PaymentMethod: p.PaymentMethod,
		CustomerName:  p.CustomerName,
	})
}

func (h handlers) cancelCheckout(ctx context.Context, _ json.RawMessage) (any, error) {
	return h.svcs.Checkout.Cancel(ctx)
}

func (h handlers) saveProduct(ctx context.Context, payload json.RawMessage) (any, error) {
	var p saveProductPayload
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	if p.ID == "" {
		input, err := p.ProductForm.Input()
		if err != nil {
			return nil, err
		}
		return h.svcs.Catalog.AddProduct(ctx, input)
	}
	patch, err := p.ProductForm.Patch()
	if err != nil {
		return nil, err
	}
	return h.svcs.Catalog.UpdateProduct(ctx, p.ID, patch)
}

func (h handlers) navigateSection(ctx context.Context, payload json.RawMessage) (any, error) {
	var p navigatePayload
	if err := decode(payload, &p); err != nil {
		return nil, err
	}
	section, err := enums.ParseSection(p.Section)
	if err != nil {
		return nil, pkgerrors.InvalidInput(err.Error())
	}
	view, err := h.sectionView(ctx, section)
	if err != nil {
		return nil, err
	}
	return &SectionView{Section: section, Title: section.Title(), View: view}, nil
}

// SalesView backs the point-of-sale screen.
type SalesView struct {
	Cart       *cart.View             `json:"cart"`
	Checkout   checkout.Status        `json:"checkout"`
	Categories []catalog.CategoryView `json:"categories"`
	Recent     *ledger.Page           `json:"recent_transactions"`
}

func (h handlers) sectionView(ctx context.Context, section enums.Section) (any, error) {
	switch section {
	case enums.SectionDashboard:
		return h.svcs.Dashboard.Summary(ctx)
	case enums.SectionInventory:
		return h.svcs.Catalog.ListProducts(ctx)
	case enums.SectionSales:
		view, err := h.svcs.Cart.View(ctx)
		if err != nil {
			return nil, err
		}
		recent, err := h.svcs.Ledger.Recent(ctx, pagination.Params{})
		if err != nil {
			return nil, err
		}
		return &SalesView{
			Cart:       view,
			Checkout:   h.svcs.Checkout.Status(),
			Categories: h.svcs.Catalog.ListCategories(),
			Recent:     recent,
		}, nil
	case enums.SectionAnalytics:
		return h.svcs.Dashboard.Charts(ctx, dashboard.ChartParams{})
	case enums.SectionSuppliers:
		return h.svcs.Catalog.ListSuppliers(ctx)
	case enums.SectionSettings:
		return h.svcs.Settings.Get(ctx)
	}
	return nil, pkgerrors.InvalidInput(fmt.Sprintf("unknown section %q", section))
}
