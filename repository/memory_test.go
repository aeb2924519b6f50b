package repository

import (
	"context"
	"testing"
	"time"

	"campus-canteen/models"
)

func strPtr(s string) *string { return &s }

func seedFoods(t *testing.T, s *MemoryStore) (doro, shai models.Food) {
	t.Helper()
	ctx := context.Background()
	doro = models.Food{Name: "Doro Wot", Price: 120, Category: models.CategoryFood, Available: true, Description: strPtr("Spicy chicken stew")}
	shai = models.Food{Name: "Shai", Price: 15, Category: models.CategoryDrink, Available: false}
	for _, f := range []*models.Food{&doro, &shai} {
		if err := s.CreateFood(ctx, f); err != nil {
			t.Fatal(err)
		}
	}
	return doro, shai
}

func TestListFoodsFilters(t *testing.T) {
	s := NewMemoryStore()
	seedFoods(t, s)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter FoodFilter
		want   []string
	}{
		{"all ordered by category then name", FoodFilter{}, []string{"Shai", "Doro Wot"}},
		{"only available", FoodFilter{OnlyAvailable: true}, []string{"Doro Wot"}},
		{"unavailable", FoodFilter{Availability: "unavailable"}, []string{"Shai"}},
		{"search description", FoodFilter{Search: "STEW"}, []string{"Doro Wot"}},
		{"category", FoodFilter{Category: models.CategoryDrink}, []string{"Shai"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			foods, err := s.ListFoods(ctx, tt.filter)
			if err != nil {
				t.Fatal(err)
			}
			if len(foods) != len(tt.want) {
				t.Fatalf("got %d foods, want %d", len(foods), len(tt.want))
			}
			for i, f := range foods {
				if f.Name != tt.want[i] {
					t.Errorf("foods[%d] = %q, want %q", i, f.Name, tt.want[i])
				}
			}
		})
	}
}

func TestDeleteOrderCascadesItems(t *testing.T) {
	s := NewMemoryStore()
	doro, _ := seedFoods(t, s)
	ctx := context.Background()

	order := &models.Order{StudentName: "Sara", Status: models.StatusPending}
	if err := s.CreateOrder(ctx, order); err != nil {
		t.Fatal(err)
	}
	if err := s.InsertItems(ctx, []models.OrderItem{{OrderID: order.ID, FoodID: doro.ID, Quantity: 2, PriceAtTime: 120}}); err != nil {
		t.Fatal(err)
	}
	items, _ := s.ItemsWithFood(ctx, order.ID)
	if len(items) != 1 || items[0].FoodName != "Doro Wot" {
		t.Fatalf("items = %+v", items)
	}

	if err := s.DeleteOrder(ctx, order.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetOrder(ctx, order.ID); !IsNotFound(err) {
		t.Errorf("GetOrder after delete: %v", err)
	}
	if left, _ := s.ItemsForOrders(ctx, []int64{order.ID}); len(left) != 0 {
		t.Errorf("items survived delete: %+v", left)
	}
	if err := s.DeleteOrder(ctx, order.ID); !IsNotFound(err) {
		t.Errorf("second delete: %v", err)
	}
}

func TestResetRestartsOrderNumbers(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := s.CreateOrder(ctx, &models.Order{Status: models.StatusPending}); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Reset(ctx); err != nil {
		t.Fatal(err)
	}
	orders, _ := s.ListOrders(ctx, OrderFilter{})
	if len(orders) != 0 {
		t.Fatalf("orders left after reset: %d", len(orders))
	}
	o := &models.Order{Status: models.StatusPending}
	_ = s.CreateOrder(ctx, o)
	if o.ID != 1 {
		t.Errorf("first id after reset = %d, want 1", o.ID)
	}
}

func TestOrderFilterMatch(t *testing.T) {
	slot := "12:30"
	o := models.Order{StudentName: "Hana Tesfaye", Status: models.StatusPending, BlockType: strPtr("Block 5"), DormNumber: strPtr("214")}

	tests := []struct {
		name   string
		filter OrderFilter
		want   bool
	}{
		{"empty", OrderFilter{}, true},
		{"all status", OrderFilter{Status: "all"}, true},
		{"wrong status", OrderFilter{Status: models.StatusCompleted}, false},
		{"block", OrderFilter{BlockType: "Block 5"}, true},
		{"other block", OrderFilter{BlockType: "Block 9"}, false},
		{"asap slot", OrderFilter{TimeSlot: "ASAP"}, true},
		{"named slot", OrderFilter{TimeSlot: slot}, false},
		{"search name", OrderFilter{Search: "hana"}, true},
		{"search dorm", OrderFilter{Search: "21"}, true},
		{"search miss", OrderFilter{Search: "abel"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Match(o); got != tt.want {
				t.Errorf("Match = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestItemNamesBetweenHonoursLimitAndWindow(t *testing.T) {
	s := NewMemoryStore()
	doro, _ := seedFoods(t, s)
	ctx := context.Background()
	now := time.Now().UTC()

	var items []models.OrderItem
	for i := 0; i < 5; i++ {
		items = append(items, models.OrderItem{OrderID: 1, FoodID: doro.ID, Quantity: 1, CreatedAt: now})
	}
	items = append(items, models.OrderItem{OrderID: 1, FoodID: 999, Quantity: 1, CreatedAt: now.Add(-48 * time.Hour)})
	if err := s.InsertItems(ctx, items); err != nil {
		t.Fatal(err)
	}

	names, _ := s.ItemNamesBetween(ctx, now.Add(-time.Hour), now.Add(time.Hour), 3)
	if len(names) != 3 {
		t.Errorf("limit not applied: %d names", len(names))
	}
	names, _ = s.ItemNamesBetween(ctx, now.Add(-72*time.Hour), now.Add(-24*time.Hour), 10)
	if len(names) != 1 || names[0] != UnknownFood {
		t.Errorf("names = %v, want [Unknown]", names)
	}
}
