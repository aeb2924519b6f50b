package models

import "testing"

func TestOrderDetailsValidate(t *testing.T) {
	base := OrderDetails{StudentName: "Abebe", StudentID: "UGR/1234/14", Phone: "0911000000"}

	tests := []struct {
		name    string
		mutate  func(d *OrderDetails)
		wantErr error
	}{
		{"cafeteria needs no location", func(d *OrderDetails) { d.OrderType = OrderTypeCafeteria }, nil},
		{"delivery with block and dorm", func(d *OrderDetails) {
			d.OrderType, d.BlockType, d.DormNumber = OrderTypeDelivery, "Block 5", "214"
		}, nil},
		{"delivery without dorm", func(d *OrderDetails) {
			d.OrderType, d.BlockType = OrderTypeDelivery, "Block 5"
		}, ErrMissingDelivery},
		{"delivery without block", func(d *OrderDetails) {
			d.OrderType, d.DormNumber = OrderTypeDelivery, "214"
		}, ErrMissingDelivery},
		{"missing phone", func(d *OrderDetails) {
			d.OrderType, d.Phone = OrderTypeCafeteria, " "
		}, ErrMissingIdentity},
		{"unknown type", func(d *OrderDetails) { d.OrderType = "drone" }, ErrBadOrderType},
		{"no type", func(d *OrderDetails) {}, ErrBadOrderType},
		{"no name", func(d *OrderDetails) {
			d.OrderType, d.StudentName = OrderTypeCafeteria, ""
		}, ErrMissingIdentity},
		{"no identity and no type", func(d *OrderDetails) { d.StudentID = "" }, ErrMissingIdentity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := base
			tt.mutate(&d)
			if err := d.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTimeSlotOrASAP(t *testing.T) {
	slot := "12:30"
	empty := ""
	if got := (Order{}).TimeSlotOrASAP(); got != "ASAP" {
		t.Errorf("nil slot = %q", got)
	}
	if got := (Order{TimeSlot: &empty}).TimeSlotOrASAP(); got != "ASAP" {
		t.Errorf("empty slot = %q", got)
	}
	if got := (Order{TimeSlot: &slot}).TimeSlotOrASAP(); got != slot {
		t.Errorf("slot = %q", got)
	}
}
