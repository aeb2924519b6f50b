package receipt

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"campus-canteen/models"
	"campus-canteen/repository"
)

func sample() (models.Order, []models.OrderItemWithFood) {
	block, dorm := "Block 5", "214"
	order := models.Order{
		ID:           12,
		StudentName:  "Hana",
		StudentID:    "UGR/1234/14",
		Phone:        "0911000000",
		OrderType:    models.OrderTypeDelivery,
		BlockType:    &block,
		DormNumber:   &dorm,
		DeliveryDate: "2024-03-10",
		Status:       models.StatusPending,
		CreatedAt:    time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC),
	}
	items := []models.OrderItemWithFood{
		{OrderItem: models.OrderItem{FoodID: 1, Quantity: 2, PriceAtTime: 120}, FoodName: "Doro Wot"},
		{OrderItem: models.OrderItem{FoodID: 9, Quantity: 1, PriceAtTime: 15.5}, FoodName: repository.UnknownFood},
	}
	return order, items
}

func TestBuild(t *testing.T) {
	r := Build(sample())

	if r.Filename() != "order-12.pdf" {
		t.Errorf("filename = %q", r.Filename())
	}
	if r.Total != 255.5 {
		t.Errorf("total = %v, want 255.5", r.Total)
	}
	if r.Location != "Block 5 - 214" {
		t.Errorf("location = %q", r.Location)
	}
	if r.Time != "ASAP" {
		t.Errorf("time = %q, want ASAP", r.Time)
	}
	if r.Lines[0].Subtotal != 240 {
		t.Errorf("first subtotal = %v", r.Lines[0].Subtotal)
	}
	if r.Lines[1].Name != "Item #9" {
		t.Errorf("missing food name = %q", r.Lines[1].Name)
	}
}

func TestBuildCafeteriaHasNoLocation(t *testing.T) {
	order, items := sample()
	order.OrderType = models.OrderTypeCafeteria
	if r := Build(order, items); r.Location != "" {
		t.Errorf("location = %q", r.Location)
	}
}

func TestMoney(t *testing.T) {
	tests := map[float64]string{
		0:      "ETB 0.00",
		240:    "ETB 240.00",
		15.5:   "ETB 15.50",
		1234.5: "ETB 1234.50",
	}
	for in, want := range tests {
		if got := Money(in); got != want {
			t.Errorf("Money(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePDF(&buf, Build(sample())); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Errorf("output does not start with %%PDF: %q", buf.Bytes()[:8])
	}
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteHTML(&buf, Build(sample())); err != nil {
		t.Fatal(err)
	}
	html := buf.String()
	for _, want := range []string{"Order #12", "Doro Wot", "ETB 255.50", "@media print", "Block 5 - 214"} {
		if !strings.Contains(html, want) {
			t.Errorf("page missing %q", want)
		}
	}
}
