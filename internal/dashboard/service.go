package dashboard

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/angelmondragon/storewise-backend/internal/ledger"
	"github.com/angelmondragon/storewise-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storewise-backend/pkg/errors"
	"github.com/angelmondragon/storewise-backend/pkg/metrics"
	"github.com/angelmondragon/storewise-backend/pkg/money"
	"github.com/shopspring/decimal"
)

type productLister interface {
	List(ctx context.Context) ([]models.Product, error)
}

type settingsReader interface {
	Get(ctx context.Context) (*models.Settings, error)
}

// Service derives dashboard figures from the catalog and ledger on demand.
type Service interface {
	Summary(ctx context.Context) (*Summary, error)
	Charts(ctx context.Context, params ChartParams) (*Charts, error)
}

// Summary is the dashboard header and alert list.
type Summary struct {
	Date              string          `json:"date"`
	Currency          string          `json:"currency"`
	InventoryValue    decimal.Decimal `json:"inventory_value"`
	InventoryDisplay  string          `json:"inventory_value_display"`
	TotalProducts     int             `json:"total_products"`
	LowStockCount     int             `json:"low_stock_count"`
	LowStockAlerts    []Alert         `json:"low_stock_alerts"`
	TodaySales        decimal.Decimal `json:"today_sales"`
	TodaySalesDisplay string          `json:"today_sales_display"`
	TodayTransactions int             `json:"today_transactions"`
}

// Alert flags a product at or below its minimum stock.
type Alert struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Glyph     string `json:"image_url"`
	Stock     int    `json:"stock"`
	MinStock  int    `json:"min_stock"`
}

// ChartParams sizes the chart series. Zero values fall back to the defaults.
type ChartParams struct {
	Days  int
	Weeks int
	Top   int
}

// Point is one bar or vertex of a sales series.
type Point struct {
	Label string          `json:"label"`
	From  string          `json:"from"`
	To    string          `json:"to"`
	Value decimal.Decimal `json:"value"`
}

// ProductUnits ranks a product by units sold.
type ProductUnits struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Units     int    `json:"units"`
}

// Charts holds the analytics series.
type Charts struct {
	DailySales  []Point        `json:"daily_sales"`
	WeeklySales []Point        `json:"weekly_sales"`
	TopProducts []ProductUnits `json:"top_products"`
}

// Options configures chart defaults and the store clock.
type Options struct {
	Location *time.Location
	Clock    func() time.Time
	Defaults ChartParams
	Metrics  *metrics.StoreMetrics
}

const maxSeriesLength = 366

type service struct {
	products productLister
	ledger   ledger.Repository
	settings settingsReader
	loc      *time.Location
	clock    func() time.Time
	defaults ChartParams
	metrics  *metrics.StoreMetrics
}

// NewService wires the aggregator.
func NewService(products productLister, ledgerRepo ledger.Repository, settings settingsReader, opts Options) (Service, error) {
	if products == nil {
		return nil, fmt.Errorf("product lister required")
	}
	if ledgerRepo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	if settings == nil {
		return nil, fmt.Errorf("settings reader required")
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	opts.Defaults = withDefaults(opts.Defaults, ChartParams{Days: 7, Weeks: 4, Top: 5})
	return &service{
		products: products,
		ledger:   ledgerRepo,
		settings: settings,
		loc:      opts.Location,
		clock:    opts.Clock,
		defaults: opts.Defaults,
		metrics:  opts.Metrics,
	}, nil
}

func (s *service) today() time.Time {
	return s.clock().In(s.loc)
}

func (s *service) Summary(ctx context.Context) (*Summary, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	current, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	date, _ := ledger.Stamp(s.today())
	todays, err := s.ledger.ListByDate(ctx, date)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list today's sales")
	}

	value := InventoryValue(products)
	alerts := LowStockAlerts(products)
	sales := ledger.SumTotals(todays)
	s.metrics.SetInventory(value, len(alerts))

	return &Summary{
		Date:              date,
		Currency:          current.Currency,
		InventoryValue:    money.Round(value),
		InventoryDisplay:  money.Format(value, current.Currency),
		TotalProducts:     len(products),
		LowStockCount:     len(alerts),
		LowStockAlerts:    alerts,
		TodaySales:        money.Round(sales),
		TodaySalesDisplay: money.Format(sales, current.Currency),
		TodayTransactions: len(todays),
	}, nil
}

func (s *service) Charts(ctx context.Context, params ChartParams) (*Charts, error) {
	params = withDefaults(params, s.defaults)
	if params.Days > maxSeriesLength || params.Weeks > maxSeriesLength/7+1 {
		return nil, pkgerrors.InvalidInput("chart range too large")
	}
	now := s.today()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)

	span := params.Days
	if weeks := params.Weeks * 7; weeks > span {
		span = weeks
	}
	from, _ := ledger.Stamp(day.AddDate(0, 0, -(span - 1)))
	to, _ := ledger.Stamp(day)
	window, err := s.ledger.ListByDateRange(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list sales window")
	}
	byDate := make(map[string]decimal.Decimal)
	for _, t := range window {
		byDate[t.Date] = byDate[t.Date].Add(t.Total)
	}

	all, err := s.ledger.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list transactions")
	}
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}

	return &Charts{
		DailySales:  DailySeries(byDate, day, params.Days),
		WeeklySales: WeeklySeries(byDate, day, params.Weeks),
		TopProducts: TopProducts(all, products, params.Top),
	}, nil
}

// InventoryValue sums price times stock over products.
func InventoryValue(products []models.Product) decimal.Decimal {
	total := money.Zero
	for _, p := range products {
		total = total.Add(p.StockValue())
	}
	return total
}

// LowStockAlerts lists products with stock at or below min_stock, in
// catalog order.
func LowStockAlerts(products []models.Product) []Alert {
	alerts := []Alert{}
	for _, p := range products {
		if !p.IsLowStock() {
			continue
		}
		alerts = append(alerts, Alert{
			ProductID: p.ID,
			Name:      p.Name,
			Glyph:     p.ImageURL,
			Stock:     p.Stock,
			MinStock:  p.MinStock,
		})
	}
	return alerts
}

// DailySeries returns one point per day for the days ending on end, oldest
// first, labelled by weekday.
func DailySeries(byDate map[string]decimal.Decimal, end time.Time, days int) []Point {
	points := make([]Point, 0, days)
	for i := days - 1; i >= 0; i-- {
		d := end.AddDate(0, 0, -i)
		date, _ := ledger.Stamp(d)
		points = append(points, Point{
			Label: d.Format("Mon"),
			From:  date,
			To:    date,
			Value: money.Round(byDate[date]),
		})
	}
	return points
}

// WeeklySeries buckets the weeks ending on end into seven-day windows labelled
// "Week 1" (oldest) through "Week N".
func WeeklySeries(byDate map[string]decimal.Decimal, end time.Time, weeks int) []Point {
	points := make([]Point, 0, weeks)
	for w := 0; w < weeks; w++ {
		last := end.AddDate(0, 0, -7*(weeks-1-w))
		first := last.AddDate(0, 0, -6)
		sum := money.Zero
		for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
			date, _ := ledger.Stamp(d)
			sum = sum.Add(byDate[date])
		}
		from, _ := ledger.Stamp(first)
		to, _ := ledger.Stamp(last)
		points = append(points, Point{
			Label: fmt.Sprintf("Week %d", w+1),
			From:  from,
			To:    to,
			Value: money.Round(sum),
		})
	}
	return points
}

// TopProducts ranks products by units sold across txns. Names come from the
// catalog when the product still exists, otherwise from the sale snapshot.
func TopProducts(txns []models.Transaction, products []models.Product, limit int) []ProductUnits {
	names := make(map[string]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}

	units := map[string]*ProductUnits{}
	order := []string{}
	for _, t := range txns {
		for _, item := range t.Items {
			entry, ok := units[item.ProductID]
			if !ok {
				name := names[item.ProductID]
				if name == "" {
					name = item.Name
				}
				entry = &ProductUnits{ProductID: item.ProductID, Name: name}
				units[item.ProductID] = entry
				order = append(order, item.ProductID)
			}
			entry.Units += item.Quantity
		}
	}

	ranked := make([]ProductUnits, 0, len(order))
	for _, id := range order {
		ranked = append(ranked, *units[id])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Units > ranked[j].Units
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func withDefaults(p, defaults ChartParams) ChartParams {
	if p.Days <= 0 {
		p.Days = defaults.Days
	}
	if p.Weeks <= 0 {
		p.Weeks = defaults.Weeks
	}
	if p.Top <= 0 {
		p.Top = defaults.Top
	}
	return p
}
