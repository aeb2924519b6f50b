package models

import "time"

const (
	OrderTypeDelivery  = "delivery"
	OrderTypeCafeteria = "cafeteria"

	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// Order is the header row of a student order.
type Order struct {
	ID           int64     `bson:"id" json:"id"`
	StudentName  string    `bson:"student_name" json:"student_name"`
	StudentID    string    `bson:"student_id" json:"student_id"`
	Phone        string    `bson:"phone" json:"phone"`
	OrderType    string    `bson:"order_type" json:"order_type"`
	BlockType    *string   `bson:"block_type" json:"block_type"`
	DormNumber   *string   `bson:"dorm_number" json:"dorm_number"`
	TimeSlot     *string   `bson:"time_slot" json:"time_slot"`
	DeliveryDate string    `bson:"delivery_date" json:"delivery_date"`
	Status       string    `bson:"status" json:"status" validate:"required,eq=pending|eq=completed"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}

// TimeSlotOrASAP is the slot shown in lists; orders without one are "ASAP".
func (o Order) TimeSlotOrASAP() string {
	if o.TimeSlot == nil || *o.TimeSlot == "" {
		return "ASAP"
	}
	return *o.TimeSlot
}

// OrderStatusUpdate is the body of a status change.
type OrderStatusUpdate struct {
	Status string `json:"status" validate:"required,eq=pending|eq=completed"`
}
