package models

import "time"

// Notification is an admin-side alert for a newly placed order. It is kept in
// memory only.
type Notification struct {
	ID          string    `json:"id"`
	OrderID     int64     `json:"order_id"`
	StudentName string    `json:"student_name"`
	OrderType   string    `json:"order_type"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}
