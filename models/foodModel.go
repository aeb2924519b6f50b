package models

import "time"

const (
	CategoryFood  = "food"
	CategoryDrink = "drink"
)

// Food is one catalog row.
type Food struct {
	ID          int64     `bson:"id" json:"id"`
	Name        string    `bson:"name" json:"name" validate:"required,min=1,max=100"`
	Price       float64   `bson:"price" json:"price" validate:"required,gt=0"`
	Description *string   `bson:"description" json:"description"`
	Image       *string   `bson:"image" json:"image"`
	Available   bool      `bson:"available" json:"available"`
	Category    string    `bson:"category" json:"category" validate:"required,eq=food|eq=drink"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}
