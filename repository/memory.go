package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"campus-canteen/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore keeps every table in process. It backs STORE=memory and the
// tests of the packages above the repository.
type MemoryStore struct {
	mu     sync.RWMutex
	foods  map[int64]models.Food
	orders map[int64]models.Order
	items  []models.OrderItem
	users  map[string]models.User
	seq    map[string]int64

	// Fail, when set, is consulted before each write; a non-nil result is
	// returned instead of performing it. The key is the method name.
	Fail func(op string) error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		foods:  map[int64]models.Food{},
		orders: map[int64]models.Order{},
		users:  map[string]models.User{},
		seq:    map[string]int64{},
	}
}

func (s *MemoryStore) fail(op string) error {
	if s.Fail == nil {
		return nil
	}
	return s.Fail(op)
}

func (s *MemoryStore) next(name string) int64 {
	s.seq[name]++
	return s.seq[name]
}

func (s *MemoryStore) ListFoods(_ context.Context, f FoodFilter) ([]models.Food, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	foods := []models.Food{}
	for _, food := range s.foods {
		if f.Match(food) {
			foods = append(foods, food)
		}
	}
	sort.Slice(foods, func(i, j int) bool {
		if foods[i].Category != foods[j].Category {
			return foods[i].Category < foods[j].Category
		}
		return foods[i].Name < foods[j].Name
	})
	return foods, nil
}

func (s *MemoryStore) GetFood(_ context.Context, id int64) (*models.Food, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	food, ok := s.foods[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &food, nil
}

func (s *MemoryStore) CreateFood(_ context.Context, food *models.Food) error {
	if err := s.fail("CreateFood"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	food.ID = s.next(foodSeq)
	food.CreatedAt = now
	food.UpdatedAt = now
	s.foods[food.ID] = *food
	return nil
}

func (s *MemoryStore) UpdateFood(_ context.Context, id int64, food models.Food) (*models.Food, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.foods[id]
	if !ok {
		return nil, ErrNotFound
	}
	cur.Name = food.Name
	cur.Price = food.Price
	cur.Description = food.Description
	cur.Image = food.Image
	cur.Category = food.Category
	cur.Available = food.Available
	cur.UpdatedAt = time.Now().UTC()
	s.foods[id] = cur
	return &cur, nil
}

func (s *MemoryStore) SetAvailability(_ context.Context, id int64, available bool) (*models.Food, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.foods[id]
	if !ok {
		return nil, ErrNotFound
	}
	cur.Available = available
	cur.UpdatedAt = time.Now().UTC()
	s.foods[id] = cur
	return &cur, nil
}

func (s *MemoryStore) DeleteFood(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.foods[id]; !ok {
		return ErrNotFound
	}
	delete(s.foods, id)
	return nil
}

func (s *MemoryStore) CreateOrder(_ context.Context, order *models.Order) error {
	if err := s.fail("CreateOrder"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	order.ID = s.next(orderSeq)
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now
	s.orders[order.ID] = *order
	return nil
}

func (s *MemoryStore) InsertItems(_ context.Context, items []models.OrderItem) error {
	if err := s.fail("InsertItems"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	for i := range items {
		items[i].ID = s.next(orderItemSeq)
		if items[i].CreatedAt.IsZero() {
			items[i].CreatedAt = now
		}
		s.items = append(s.items, items[i])
	}
	return nil
}

func (s *MemoryStore) DeleteOrder(_ context.Context, id int64) error {
	if err := s.fail("DeleteOrder"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[id]; !ok {
		return ErrNotFound
	}
	delete(s.orders, id)
	kept := s.items[:0]
	for _, it := range s.items {
		if it.OrderID != id {
			kept = append(kept, it)
		}
	}
	s.items = kept
	return nil
}

func (s *MemoryStore) GetOrder(_ context.Context, id int64) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &order, nil
}

func (s *MemoryStore) ListOrders(_ context.Context, f OrderFilter) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	orders := []models.Order{}
	for _, o := range s.orders {
		if f.Match(o) {
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return orders[i].ID > orders[j].ID
	})
	return orders, nil
}

func (s *MemoryStore) ListOrdersBetween(_ context.Context, from, to time.Time) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	orders := []models.Order{}
	for _, o := range s.orders {
		if !o.CreatedAt.Before(from) && !o.CreatedAt.After(to) {
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.Before(orders[j].CreatedAt) })
	return orders, nil
}

func (s *MemoryStore) ItemsWithFood(_ context.Context, orderID int64) ([]models.OrderItemWithFood, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := []models.OrderItemWithFood{}
	for _, it := range s.items {
		if it.OrderID != orderID {
			continue
		}
		name := UnknownFood
		if food, ok := s.foods[it.FoodID]; ok {
			name = food.Name
		}
		items = append(items, models.OrderItemWithFood{OrderItem: it, FoodName: name})
	}
	return items, nil
}

func (s *MemoryStore) ItemsForOrders(_ context.Context, orderIDs []int64) ([]models.OrderItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	want := make(map[int64]bool, len(orderIDs))
	for _, id := range orderIDs {
		want[id] = true
	}
	items := []models.OrderItem{}
	for _, it := range s.items {
		if want[it.OrderID] {
			items = append(items, it)
		}
	}
	return items, nil
}

func (s *MemoryStore) ItemNamesBetween(_ context.Context, from, to time.Time, limit int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := []string{}
	for _, it := range s.items {
		if len(names) >= limit {
			break
		}
		if it.CreatedAt.Before(from) || it.CreatedAt.After(to) {
			continue
		}
		name := UnknownFood
		if food, ok := s.foods[it.FoodID]; ok {
			name = food.Name
		}
		names = append(names, name)
	}
	return names, nil
}

func (s *MemoryStore) UpdateStatus(_ context.Context, id int64, status string) (*models.Order, error) {
	if err := s.fail("UpdateStatus"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	order.Status = status
	order.UpdatedAt = time.Now().UTC()
	s.orders[id] = order
	return &order, nil
}

func (s *MemoryStore) Reset(_ context.Context) error {
	if err := s.fail("Reset"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = map[int64]models.Order{}
	s.items = nil
	delete(s.seq, orderSeq)
	delete(s.seq, orderItemSeq)
	return nil
}

func (s *MemoryStore) CountUsers(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.users)), nil
}

func (s *MemoryStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email != nil && *u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if sameString(u.Email, user.Email) || sameString(u.Phone, user.Phone) {
			return ErrDuplicate
		}
	}
	now := time.Now().UTC()
	user.ID = primitive.NewObjectID()
	user.UserID = user.ID.Hex()
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.UserID] = *user
	return nil
}

func (s *MemoryStore) UpdateTokens(_ context.Context, userID, token, refreshToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return ErrNotFound
	}
	u.Token = &token
	u.RefreshToken = &refreshToken
	u.UpdatedAt = time.Now().UTC()
	s.users[userID] = u
	return nil
}

func sameString(a, b *string) bool {
	return a != nil && b != nil && *a != "" && *a == *b
}
