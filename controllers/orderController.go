package controllers

import (
	"context"
	"net/http"
	"sort"

	"campus-canteen/feed"
	"campus-canteen/models"
	"campus-canteen/receipt"
	"campus-canteen/repository"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// OrderRow is an order as the admin queue lists it.
type OrderRow struct {
	models.Order
	TimeSlotLabel string  `json:"time_slot_label"`
	ItemCount     int     `json:"item_count"`
	Total         float64 `json:"total"`
}

// OrdersSnapshot is the whole admin queue: the filtered rows plus counts and
// filter choices taken over every order.
type OrdersSnapshot struct {
	Orders     []OrderRow `json:"orders"`
	Pending    int        `json:"pending"`
	Completed  int        `json:"completed"`
	BlockTypes []string   `json:"block_types"`
	TimeSlots  []string   `json:"time_slots"`
}

func filterFromQuery(c *gin.Context) repository.OrderFilter {
	return repository.OrderFilter{
		Status:    c.Query("status"),
		BlockType: c.Query("block_type"),
		TimeSlot:  c.Query("time_slot"),
		Search:    c.Query("q"),
	}
}

// loadOrders reads every order newest first and applies f in memory, so the
// counts and facets always describe the full queue.
func loadOrders(ctx context.Context, orders repository.OrderRepository, f repository.OrderFilter) (*OrdersSnapshot, error) {
	all, err := orders.ListOrders(ctx, repository.OrderFilter{})
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}

	snap := &OrdersSnapshot{Orders: []OrderRow{}, BlockTypes: []string{}, TimeSlots: []string{}}
	blocks, slots := map[string]bool{}, map[string]bool{}
	var ids []int64
	for _, o := range all {
		switch o.Status {
		case models.StatusPending:
			snap.Pending++
		case models.StatusCompleted:
			snap.Completed++
		}
		if o.BlockType != nil && *o.BlockType != "" {
			blocks[*o.BlockType] = true
		}
		slots[o.TimeSlotOrASAP()] = true

		if f.Match(o) {
			snap.Orders = append(snap.Orders, OrderRow{Order: o, TimeSlotLabel: o.TimeSlotOrASAP()})
			ids = append(ids, o.ID)
		}
	}
	snap.BlockTypes = sortedKeys(blocks)
	snap.TimeSlots = sortedKeys(slots)

	if len(ids) == 0 {
		return snap, nil
	}
	items, err := orders.ItemsForOrders(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "list order items")
	}
	totals := map[int64]decimal.Decimal{}
	counts := map[int64]int{}
	for _, it := range items {
		line := decimal.NewFromFloat(it.PriceAtTime).Mul(decimal.NewFromInt(int64(it.Quantity)))
		totals[it.OrderID] = totals[it.OrderID].Add(line)
		counts[it.OrderID] += it.Quantity
	}
	for i := range snap.Orders {
		id := snap.Orders[i].ID
		snap.Orders[i].Total = totals[id].Round(2).InexactFloat64()
		snap.Orders[i].ItemCount = counts[id]
	}
	return snap, nil
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func GetOrders(orders repository.OrderRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		snap, err := loadOrders(ctx, orders, filterFromQuery(c))
		if err != nil {
			storeError(c, err, "orders")
			return
		}
		c.JSON(http.StatusOK, snap)
	}
}

// GetOrder returns the order with its items and the total at checkout prices.
func GetOrder(orders repository.OrderRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		id, ok := paramID(c, "order_id")
		if !ok {
			return
		}
		order, err := orders.GetOrder(ctx, id)
		if err != nil {
			storeError(c, err, "order")
			return
		}
		items, err := orders.ItemsWithFood(ctx, id)
		if err != nil {
			storeError(c, err, "order items")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"order": order,
			"items": items,
			"total": receipt.Build(*order, items).Total,
		})
	}
}

func UpdateOrderStatus(orders repository.OrderRepository, pub feed.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		id, ok := paramID(c, "order_id")
		if !ok {
			return
		}
		var req models.OrderStatusUpdate
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := validate.Struct(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status must be pending or completed"})
			return
		}

		order, err := orders.UpdateStatus(ctx, id, req.Status)
		if err != nil {
			storeError(c, err, "order")
			return
		}
		pub.Publish(ctx, feed.OrderEvent(feed.Update, order))
		c.JSON(http.StatusOK, order)
	}
}

// DeleteOrder removes the order and its items.
func DeleteOrder(orders repository.OrderRepository, pub feed.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		id, ok := paramID(c, "order_id")
		if !ok {
			return
		}
		if err := orders.DeleteOrder(ctx, id); err != nil {
			storeError(c, err, "order")
			return
		}
		ev := feed.OrderEvent(feed.Delete, nil)
		ev.OrderID = id
		pub.Publish(ctx, ev)
		c.Status(http.StatusNoContent)
	}
}

// ResetOrders deletes every order and item and restarts numbering at 1.
func ResetOrders(orders repository.OrderRepository, pub feed.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		if err := orders.Reset(ctx); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reset orders"})
			return
		}
		pub.Publish(ctx, feed.OrderEvent(feed.Reset, nil))
		c.JSON(http.StatusOK, gin.H{"message": "all orders cleared"})
	}
}
