// Package analytics derives the admin dashboard figures from raw orders and
// order items. Nothing is cached; every call recomputes from the store.
package analytics

import (
	"context"
	"sort"
	"time"

	"campus-canteen/models"
	"campus-canteen/repository"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type Range string

const (
	Today Range = "today"
	Week  Range = "week"
	Month Range = "month"
)

// TopN is how many items the ranking keeps.
const TopN = 5

// PopularWindow is how far back the landing page looks for popular dishes.
const PopularWindow = 14 * 24 * time.Hour

var ErrBadRange = errors.New("range must be today, week or month")

// ParseRange accepts today, week or month; empty means week.
func ParseRange(s string) (Range, error) {
	switch Range(s) {
	case "":
		return Week, nil
	case Today, Week, Month:
		return Range(s), nil
	}
	return "", ErrBadRange
}

func (r Range) Days() int {
	switch r {
	case Week:
		return 7
	case Month:
		return 30
	}
	return 1
}

// Window is a reporting period and the equally long period right before it.
type Window struct {
	From, To         time.Time
	PrevFrom, PrevTo time.Time
	Days             int
}

// WindowFor ends the window at the last millisecond of now's day and starts
// it at midnight Days-1 days earlier.
func WindowFor(r Range, now time.Time) Window {
	days := r.Days()
	y, m, d := now.Date()
	loc := now.Location()
	to := time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), loc)
	from := time.Date(y, m, d-(days-1), 0, 0, 0, 0, loc)
	prevFrom := time.Date(y, m, d-(2*days-1), 0, 0, 0, 0, loc)
	return Window{
		From:     from,
		To:       to,
		PrevFrom: prevFrom,
		PrevTo:   from.Add(-time.Millisecond),
		Days:     days,
	}
}

type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type ItemCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type StatusCounts struct {
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
}

type Report struct {
	Range            Range        `json:"range"`
	From             time.Time    `json:"from"`
	To               time.Time    `json:"to"`
	TotalOrders      int          `json:"total_orders"`
	StatusCounts     StatusCounts `json:"status_counts"`
	OrdersPerDay     []DayCount   `json:"orders_per_day"`
	Revenue          float64      `json:"revenue"`
	AvgOrderValue    float64      `json:"avg_order_value"`
	GrowthOrdersPct  float64      `json:"growth_orders_pct"`
	GrowthRevenuePct float64      `json:"growth_revenue_pct"`
	TopItems         []ItemCount  `json:"top_items"`
	GeneratedAt      time.Time    `json:"generated_at"`
}

// Source is the read side of the order repository analytics needs.
type Source interface {
	ListOrdersBetween(ctx context.Context, from, to time.Time) ([]models.Order, error)
	ItemsForOrders(ctx context.Context, orderIDs []int64) ([]models.OrderItem, error)
	ItemNamesBetween(ctx context.Context, from, to time.Time, limit int) ([]string, error)
}

type FoodLister interface {
	ListFoods(ctx context.Context, f repository.FoodFilter) ([]models.Food, error)
}

type Service struct {
	src   Source
	foods FoodLister
	loc   *time.Location
}

func NewService(src Source, foods FoodLister, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{src: src, foods: foods, loc: loc}
}

// Compute builds the report for r with now as the current instant.
func (s *Service) Compute(ctx context.Context, r Range, now time.Time) (*Report, error) {
	w := WindowFor(r, now.In(s.loc))

	all, err := s.src.ListOrdersBetween(ctx, w.PrevFrom.UTC(), w.To.UTC())
	if err != nil {
		return nil, errors.Wrap(err, "load orders")
	}

	var cur, prev []models.Order
	for _, o := range all {
		switch {
		case within(o.CreatedAt, w.From, w.To):
			cur = append(cur, o)
		case within(o.CreatedAt, w.PrevFrom, w.PrevTo):
			prev = append(prev, o)
		}
	}

	rep := &Report{
		Range:        r,
		From:         w.From,
		To:           w.To,
		TotalOrders:  len(cur),
		OrdersPerDay: s.perDay(cur, w),
		GeneratedAt:  now.UTC(),
	}
	for _, o := range cur {
		switch o.Status {
		case models.StatusPending:
			rep.StatusCounts.Pending++
		case models.StatusCompleted:
			rep.StatusCounts.Completed++
		}
	}

	var revenue, prevRevenue decimal.Decimal
	var names []string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		revenue, err = s.revenue(gctx, cur)
		return err
	})
	g.Go(func() (err error) {
		prevRevenue, err = s.revenue(gctx, prev)
		return err
	})
	g.Go(func() (err error) {
		names, err = s.src.ItemNamesBetween(gctx, w.From.UTC(), w.To.UTC(), repository.TopItemsScanLimit)
		return errors.Wrap(err, "load item names")
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rep.Revenue = revenue.Round(2).InexactFloat64()
	if rep.StatusCounts.Completed > 0 {
		rep.AvgOrderValue = revenue.Div(decimal.NewFromInt(int64(rep.StatusCounts.Completed))).Round(2).InexactFloat64()
	}
	rep.GrowthOrdersPct = growth(decimal.NewFromInt(int64(len(cur))), decimal.NewFromInt(int64(len(prev))))
	rep.GrowthRevenuePct = growth(revenue, prevRevenue)
	rep.TopItems = rank(names, TopN)
	return rep, nil
}

// Popular ranks available dishes by how often they were ordered in the last
// two weeks.
func (s *Service) Popular(ctx context.Context, n int, now time.Time) ([]models.Food, error) {
	names, err := s.src.ItemNamesBetween(ctx, now.Add(-PopularWindow).UTC(), now.UTC(), repository.TopItemsScanLimit)
	if err != nil {
		return nil, errors.Wrap(err, "load item names")
	}
	foods, err := s.foods.ListFoods(ctx, repository.FoodFilter{OnlyAvailable: true})
	if err != nil {
		return nil, errors.Wrap(err, "load foods")
	}
	byName := make(map[string]models.Food, len(foods))
	for _, f := range foods {
		byName[f.Name] = f
	}

	popular := []models.Food{}
	for _, ic := range rank(names, len(names)) {
		if f, ok := byName[ic.Name]; ok {
			popular = append(popular, f)
			if len(popular) == n {
				break
			}
		}
	}
	return popular, nil
}

// Watch calls fn with a fresh report right away and then every interval until
// ctx ends or fn returns an error. Compute errors are handed to fn as well.
func (s *Service) Watch(ctx context.Context, r Range, interval time.Duration, fn func(*Report, error) error) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if err := fn(s.Compute(ctx, r, time.Now())); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (s *Service) revenue(ctx context.Context, orders []models.Order) (decimal.Decimal, error) {
	var ids []int64
	for _, o := range orders {
		if o.Status == models.StatusCompleted {
			ids = append(ids, o.ID)
		}
	}
	if len(ids) == 0 {
		return decimal.Zero, nil
	}
	items, err := s.src.ItemsForOrders(ctx, ids)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "load order items")
	}
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(decimal.NewFromFloat(it.PriceAtTime).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total, nil
}

func (s *Service) perDay(orders []models.Order, w Window) []DayCount {
	out := make([]DayCount, w.Days)
	index := make(map[string]int, w.Days)
	for i := 0; i < w.Days; i++ {
		key := w.From.AddDate(0, 0, i).Format("2006-01-02")
		out[i] = DayCount{Date: key}
		index[key] = i
	}
	for _, o := range orders {
		if i, ok := index[o.CreatedAt.In(s.loc).Format("2006-01-02")]; ok {
			out[i].Count++
		}
	}
	return out
}

func within(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}

// growth is the percentage change from prev to cur. A zero prev counts as
// 100% growth when there is anything now.
func growth(cur, prev decimal.Decimal) float64 {
	if prev.IsZero() {
		if cur.IsPositive() {
			return 100
		}
		return 0
	}
	return cur.Sub(prev).Div(prev).Mul(decimal.NewFromInt(100)).Round(1).InexactFloat64()
}

func rank(names []string, n int) []ItemCount {
	counts := map[string]int{}
	for _, name := range names {
		counts[name]++
	}
	out := make([]ItemCount, 0, len(counts))
	for name, c := range counts {
		out = append(out, ItemCount{Name: name, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
