// Package receipt renders a single order as a printable page or an A4 PDF.
package receipt

import (
	"fmt"
	"strings"
	"time"

	"campus-canteen/models"
	"campus-canteen/repository"

	"github.com/shopspring/decimal"
)

const (
	Title    = "Campus Cafe Ordering System"
	Currency = "ETB"
	Footer   = "Thank you for ordering with us!"
)

type Line struct {
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	Subtotal  float64 `json:"subtotal"`
}

type Receipt struct {
	Number       string    `json:"number"`
	OrderID      int64     `json:"order_id"`
	Student      string    `json:"student"`
	StudentID    string    `json:"student_id"`
	Phone        string    `json:"phone"`
	OrderType    string    `json:"order_type"`
	Location     string    `json:"location,omitempty"`
	Time         string    `json:"time"`
	DeliveryDate string    `json:"delivery_date"`
	Status       string    `json:"status"`
	Lines        []Line    `json:"lines"`
	Total        float64   `json:"total"`
	CreatedAt    time.Time `json:"created_at"`
}

// Build snapshots order and its items. Totals use the price stored on each
// item, not the current catalog price.
func Build(order models.Order, items []models.OrderItemWithFood) Receipt {
	r := Receipt{
		Number:       fmt.Sprintf("order-%d", order.ID),
		OrderID:      order.ID,
		Student:      order.StudentName,
		StudentID:    order.StudentID,
		Phone:        order.Phone,
		OrderType:    order.OrderType,
		Time:         order.TimeSlotOrASAP(),
		DeliveryDate: order.DeliveryDate,
		Status:       order.Status,
		Lines:        make([]Line, 0, len(items)),
		CreatedAt:    order.CreatedAt,
	}
	if order.OrderType == models.OrderTypeDelivery {
		r.Location = deref(order.BlockType) + " - " + deref(order.DormNumber)
	}

	total := decimal.Zero
	for _, it := range items {
		sub := decimal.NewFromFloat(it.PriceAtTime).Mul(decimal.NewFromInt(int64(it.Quantity)))
		total = total.Add(sub)
		name := it.FoodName
		if name == "" || name == repository.UnknownFood {
			name = fmt.Sprintf("Item #%d", it.FoodID)
		}
		r.Lines = append(r.Lines, Line{
			Name:      name,
			UnitPrice: it.PriceAtTime,
			Quantity:  it.Quantity,
			Subtotal:  sub.Round(2).InexactFloat64(),
		})
	}
	r.Total = total.Round(2).InexactFloat64()
	return r
}

// Filename is the download name of the PDF.
func (r Receipt) Filename() string {
	return r.Number + ".pdf"
}

// Money formats v with the currency and two decimals, e.g. "ETB 240.00".
func Money(v float64) string {
	return Currency + " " + decimal.NewFromFloat(v).StringFixed(2)
}

// TypeLabel capitalizes the order type for display.
func (r Receipt) TypeLabel() string {
	if r.OrderType == "" {
		return ""
	}
	return strings.ToUpper(r.OrderType[:1]) + r.OrderType[1:]
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
