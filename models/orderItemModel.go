package models

import "time"

// OrderItem is one line of an order. PriceAtTime is copied from the cart at
// checkout and never follows later catalog price changes.
type OrderItem struct {
	ID          int64     `bson:"id" json:"id"`
	OrderID     int64     `bson:"order_id" json:"order_id"`
	FoodID      int64     `bson:"food_id" json:"food_id"`
	Quantity    int       `bson:"quantity" json:"quantity" validate:"required,min=1"`
	PriceAtTime float64   `bson:"price_at_time" json:"price_at_time"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

// OrderItemWithFood is an item joined with the catalog name for display.
type OrderItemWithFood struct {
	OrderItem `bson:",inline"`
	FoodName  string `bson:"food_name" json:"food_name"`
}
