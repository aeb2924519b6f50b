// Package repository is the table-level backend: food, orders, order items
// and staff users, with a MongoDB implementation and an in-memory one.
package repository

import (
	"context"
	"strings"
	"time"

	"campus-canteen/models"

	"github.com/pkg/errors"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// TopItemsScanLimit caps how many order-item rows the ranking query reads.
const TopItemsScanLimit = 2000

// FoodFilter narrows catalog listings. Availability is "", "available" or
// "unavailable"; OnlyAvailable wins over it.
type FoodFilter struct {
	OnlyAvailable bool
	Availability  string
	Category      string
	Search        string
}

func (f FoodFilter) Match(food models.Food) bool {
	if f.OnlyAvailable && !food.Available {
		return false
	}
	switch f.Availability {
	case "available":
		if !food.Available {
			return false
		}
	case "unavailable":
		if food.Available {
			return false
		}
	}
	if f.Category != "" && f.Category != "all" && food.Category != f.Category {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		desc := ""
		if food.Description != nil {
			desc = *food.Description
		}
		if !strings.Contains(strings.ToLower(food.Name), q) && !strings.Contains(strings.ToLower(desc), q) {
			return false
		}
	}
	return true
}

// OrderFilter mirrors the admin queue filters. Empty or "all" means no
// constraint; TimeSlot "ASAP" matches orders without a slot.
type OrderFilter struct {
	Status    string
	BlockType string
	TimeSlot  string
	Search    string
}

func (f OrderFilter) Match(o models.Order) bool {
	if f.Status != "" && f.Status != "all" && o.Status != f.Status {
		return false
	}
	if f.BlockType != "" && f.BlockType != "all" {
		if o.BlockType == nil || *o.BlockType != f.BlockType {
			return false
		}
	}
	if f.TimeSlot != "" && f.TimeSlot != "all" && o.TimeSlotOrASAP() != f.TimeSlot {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		dorm := ""
		if o.DormNumber != nil {
			dorm = *o.DormNumber
		}
		if !strings.Contains(strings.ToLower(o.StudentName), q) && !strings.Contains(strings.ToLower(dorm), q) {
			return false
		}
	}
	return true
}

type FoodRepository interface {
	ListFoods(ctx context.Context, f FoodFilter) ([]models.Food, error)
	GetFood(ctx context.Context, id int64) (*models.Food, error)
	CreateFood(ctx context.Context, food *models.Food) error
	UpdateFood(ctx context.Context, id int64, food models.Food) (*models.Food, error)
	SetAvailability(ctx context.Context, id int64, available bool) (*models.Food, error)
	DeleteFood(ctx context.Context, id int64) error
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	InsertItems(ctx context.Context, items []models.OrderItem) error
	DeleteOrder(ctx context.Context, id int64) error
	GetOrder(ctx context.Context, id int64) (*models.Order, error)
	ListOrders(ctx context.Context, f OrderFilter) ([]models.Order, error)
	ListOrdersBetween(ctx context.Context, from, to time.Time) ([]models.Order, error)
	ItemsWithFood(ctx context.Context, orderID int64) ([]models.OrderItemWithFood, error)
	ItemsForOrders(ctx context.Context, orderIDs []int64) ([]models.OrderItem, error)
	ItemNamesBetween(ctx context.Context, from, to time.Time, limit int) ([]string, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*models.Order, error)
	Reset(ctx context.Context) error
}

type UserRepository interface {
	CountUsers(ctx context.Context) (int64, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	UpdateTokens(ctx context.Context, userID, token, refreshToken string) error
}

// Store bundles every table the service uses.
type Store interface {
	FoodRepository
	OrderRepository
	UserRepository
}

// UnknownFood is the display name for items whose food row is gone.
const UnknownFood = "Unknown"

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
