package models

import (
	"errors"
	"strings"

	"github.com/go-playground/validator"
)

// CartLine is a client-side cart entry with the catalog fields denormalized.
type CartLine struct {
	FoodID   int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
	Quantity int     `json:"quantity"`
}

// OrderDetails is the profile captured before menu access.
type OrderDetails struct {
	OrderType    string `json:"orderType" validate:"required,eq=delivery|eq=cafeteria"`
	TimeSlot     string `json:"timeSlot"`
	BlockType    string `json:"blockType"`
	DormNumber   string `json:"dormNumber"`
	StudentName  string `json:"studentName" validate:"required"`
	StudentID    string `json:"studentId" validate:"required"`
	Phone        string `json:"phone" validate:"required"`
	DeliveryDate string `json:"deliveryDate"`
}

var (
	ErrMissingIdentity = errors.New("please fill in your name, student ID, and phone number")
	ErrMissingDelivery = errors.New("please provide your block and dorm number for delivery")
	ErrBadOrderType    = errors.New("order type must be delivery or cafeteria")
)

var validate = validator.New()

// Validate applies the intake form rules: the struct tags first, then the
// checks tags cannot express. Block and dorm are only required for delivery.
func (d OrderDetails) Validate() error {
	if err := validate.Struct(d); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		identity := false
		for _, fe := range verrs {
			if fe.Field() != "OrderType" {
				identity = true
			}
		}
		if identity {
			return ErrMissingIdentity
		}
		return ErrBadOrderType
	}
	if blank(d.StudentName) || blank(d.StudentID) || blank(d.Phone) {
		return ErrMissingIdentity
	}
	switch d.OrderType {
	case OrderTypeDelivery:
		if blank(d.BlockType) || blank(d.DormNumber) {
			return ErrMissingDelivery
		}
	case OrderTypeCafeteria:
	default:
		return ErrBadOrderType
	}
	return nil
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }
