package analytics

import (
	"context"
	"testing"
	"time"

	"campus-canteen/models"
	"campus-canteen/repository"
)

var now = time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)

func seed(t *testing.T) *repository.MemoryStore {
	t.Helper()
	ctx := context.Background()
	db := repository.NewMemoryStore()

	foods := []*models.Food{
		{Name: "Doro Wot", Price: 120, Category: models.CategoryFood, Available: true},
		{Name: "Shai", Price: 15, Category: models.CategoryDrink, Available: false},
		{Name: "Shiro", Price: 100, Category: models.CategoryFood, Available: true},
	}
	for _, f := range foods {
		if err := db.CreateFood(ctx, f); err != nil {
			t.Fatal(err)
		}
	}
	doro, shai, shiro := foods[0].ID, foods[1].ID, foods[2].ID

	place := func(status string, at time.Time, items ...models.OrderItem) {
		o := &models.Order{StudentName: "Sara", Status: status, CreatedAt: at}
		if err := db.CreateOrder(ctx, o); err != nil {
			t.Fatal(err)
		}
		for i := range items {
			items[i].OrderID = o.ID
			items[i].CreatedAt = at
		}
		if err := db.InsertItems(ctx, items); err != nil {
			t.Fatal(err)
		}
	}

	place(models.StatusCompleted, time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC),
		models.OrderItem{FoodID: doro, Quantity: 2, PriceAtTime: 120},
		models.OrderItem{FoodID: shai, Quantity: 1, PriceAtTime: 15})
	place(models.StatusPending, time.Date(2024, 3, 9, 18, 0, 0, 0, time.UTC),
		models.OrderItem{FoodID: doro, Quantity: 1, PriceAtTime: 120})
	place(models.StatusCompleted, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		models.OrderItem{FoodID: shiro, Quantity: 1, PriceAtTime: 100})
	return db
}

func TestComputeWeek(t *testing.T) {
	db := seed(t)
	svc := NewService(db, db, time.UTC)

	rep, err := svc.Compute(context.Background(), Week, now)
	if err != nil {
		t.Fatal(err)
	}

	if rep.TotalOrders != 2 {
		t.Errorf("total orders = %d, want 2", rep.TotalOrders)
	}
	if rep.StatusCounts != (StatusCounts{Pending: 1, Completed: 1}) {
		t.Errorf("status counts = %+v", rep.StatusCounts)
	}
	if rep.Revenue != 255 {
		t.Errorf("revenue = %v, want 255", rep.Revenue)
	}
	if rep.AvgOrderValue != 255 {
		t.Errorf("avg order value = %v, want 255", rep.AvgOrderValue)
	}
	if rep.GrowthOrdersPct != 100 {
		t.Errorf("order growth = %v, want 100", rep.GrowthOrdersPct)
	}
	if rep.GrowthRevenuePct != 155 {
		t.Errorf("revenue growth = %v, want 155", rep.GrowthRevenuePct)
	}

	if len(rep.OrdersPerDay) != 7 {
		t.Fatalf("orders per day has %d entries, want 7", len(rep.OrdersPerDay))
	}
	if rep.OrdersPerDay[0].Date != "2024-03-04" || rep.OrdersPerDay[6].Date != "2024-03-10" {
		t.Errorf("days span %s..%s", rep.OrdersPerDay[0].Date, rep.OrdersPerDay[6].Date)
	}
	for _, dc := range rep.OrdersPerDay {
		want := 0
		if dc.Date == "2024-03-09" || dc.Date == "2024-03-10" {
			want = 1
		}
		if dc.Count != want {
			t.Errorf("%s count = %d, want %d", dc.Date, dc.Count, want)
		}
	}

	wantTop := []ItemCount{{"Doro Wot", 2}, {"Shai", 1}}
	if len(rep.TopItems) != len(wantTop) {
		t.Fatalf("top items = %+v", rep.TopItems)
	}
	for i, ic := range wantTop {
		if rep.TopItems[i] != ic {
			t.Errorf("top[%d] = %+v, want %+v", i, rep.TopItems[i], ic)
		}
	}
}

func TestComputeEmptyStore(t *testing.T) {
	db := repository.NewMemoryStore()
	svc := NewService(db, db, time.UTC)
	rep, err := svc.Compute(context.Background(), Today, now)
	if err != nil {
		t.Fatal(err)
	}
	if rep.TotalOrders != 0 || rep.Revenue != 0 || rep.AvgOrderValue != 0 || rep.GrowthOrdersPct != 0 {
		t.Errorf("report = %+v", rep)
	}
	if len(rep.OrdersPerDay) != 1 || rep.OrdersPerDay[0].Count != 0 {
		t.Errorf("orders per day = %+v", rep.OrdersPerDay)
	}
}

func TestWindowFor(t *testing.T) {
	tests := []struct {
		r              Range
		from, prevFrom string
		days           int
	}{
		{Today, "2024-03-10", "2024-03-09", 1},
		{Week, "2024-03-04", "2024-02-26", 7},
		{Month, "2024-02-10", "2024-01-11", 30},
	}
	for _, tt := range tests {
		t.Run(string(tt.r), func(t *testing.T) {
			w := WindowFor(tt.r, now)
			if got := w.From.Format("2006-01-02"); got != tt.from {
				t.Errorf("from = %s, want %s", got, tt.from)
			}
			if got := w.PrevFrom.Format("2006-01-02"); got != tt.prevFrom {
				t.Errorf("prev from = %s, want %s", got, tt.prevFrom)
			}
			if w.Days != tt.days {
				t.Errorf("days = %d", w.Days)
			}
			if !w.To.Equal(time.Date(2024, 3, 10, 23, 59, 59, 999000000, time.UTC)) {
				t.Errorf("to = %v", w.To)
			}
			if w.From.Sub(w.PrevTo) != time.Millisecond {
				t.Errorf("prev window ends at %v", w.PrevTo)
			}
		})
	}
}

func TestParseRange(t *testing.T) {
	if r, err := ParseRange(""); err != nil || r != Week {
		t.Errorf(`ParseRange("") = %q, %v`, r, err)
	}
	if r, err := ParseRange("month"); err != nil || r != Month {
		t.Errorf("ParseRange(month) = %q, %v", r, err)
	}
	if _, err := ParseRange("year"); err != ErrBadRange {
		t.Errorf("ParseRange(year) err = %v", err)
	}
}

func TestRankKeepsTopN(t *testing.T) {
	names := []string{"a", "b", "b", "c", "c", "c", "d", "e", "f", "f"}
	got := rank(names, TopN)
	if len(got) != TopN {
		t.Fatalf("len = %d", len(got))
	}
	if got[0] != (ItemCount{"c", 3}) {
		t.Errorf("first = %+v", got[0])
	}
	if got[1].Count != 2 || got[2].Count != 2 {
		t.Errorf("second/third = %+v %+v", got[1], got[2])
	}
}

func TestPopularSkipsUnavailable(t *testing.T) {
	db := seed(t)
	svc := NewService(db, db, time.UTC)
	foods, err := svc.Popular(context.Background(), 3, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(foods) != 2 || foods[0].Name != "Doro Wot" || foods[1].Name != "Shiro" {
		t.Errorf("popular = %+v", foods)
	}
}

func TestWatchStopsWithContext(t *testing.T) {
	db := seed(t)
	svc := NewService(db, db, time.UTC)
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := svc.Watch(ctx, Week, time.Millisecond, func(rep *Report, err error) error {
		if err != nil {
			return err
		}
		calls++
		if calls == 3 {
			cancel()
		}
		return nil
	})
	if err != nil && ctx.Err() == nil {
		t.Fatal(err)
	}
	if calls < 3 {
		t.Errorf("calls = %d, want at least 3", calls)
	}
}
