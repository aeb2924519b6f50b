// Package cart holds the student's cart and order details for one browser
// session. Every mutation writes the full state through a Persister, and
// stored state that does not parse is replaced by an empty cart without
// complaint.
package cart

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"campus-canteen/logger"
	"campus-canteen/models"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Persisted keys, one blob each.
const (
	CartKey    = "ccos_cart"
	DetailsKey = "ccos_orderDetails"
)

// Store is one session's cart plus its order details. Safe for concurrent
// use; requests for the same session serialize on it.
type Store struct {
	mu        sync.Mutex
	session   string
	persister Persister
	log       *logger.Logger

	lines    []models.CartLine
	details  *models.OrderDetails
	lastUsed time.Time
}

// Snapshot is a copy of the store's state.
type Snapshot struct {
	Lines   []models.CartLine    `json:"items"`
	Details *models.OrderDetails `json:"order_details"`
	Total   float64              `json:"total"`
	Count   int                  `json:"count"`
}

// Open loads the session's state. Missing or unparsable blobs give empty
// state; a persister error is returned so stored state is never overwritten
// by a cart that failed to load.
func Open(ctx context.Context, session string, p Persister, log *logger.Logger) (*Store, error) {
	s := &Store{session: session, persister: p, log: log, lastUsed: time.Now()}

	raw, err := p.Load(ctx, session, CartKey)
	if err != nil {
		return nil, errors.Wrap(err, "load cart")
	}
	if len(raw) > 0 {
		var lines []models.CartLine
		if json.Unmarshal(raw, &lines) == nil {
			s.lines = sanitize(lines)
		}
	}

	raw, err = p.Load(ctx, session, DetailsKey)
	if err != nil {
		return nil, errors.Wrap(err, "load order details")
	}
	if len(raw) > 0 {
		var d models.OrderDetails
		if json.Unmarshal(raw, &d) == nil {
			s.details = &d
		}
	}
	return s, nil
}

// LineFor builds a quantity-less cart line from a catalog row.
func LineFor(f models.Food) models.CartLine {
	return models.CartLine{FoodID: f.ID, Name: f.Name, Price: f.Price, Category: f.Category}
}

// Add increments the line for item.FoodID or appends it with quantity 1.
func (s *Store) Add(ctx context.Context, item models.CartLine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.lines {
		if s.lines[i].FoodID == item.FoodID {
			s.lines[i].Quantity++
			s.persistLocked(ctx)
			return
		}
	}
	item.Quantity = 1
	s.lines = append(s.lines, item)
	s.persistLocked(ctx)
}

// Remove drops the line for id, if any.
func (s *Store) Remove(ctx context.Context, id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(id)
	s.persistLocked(ctx)
}

// SetQuantity sets the line's quantity; n <= 0 removes it.
func (s *Store) SetQuantity(ctx context.Context, id int64, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n <= 0 {
		s.removeLocked(id)
	} else {
		for i := range s.lines {
			if s.lines[i].FoodID == id {
				s.lines[i].Quantity = n
			}
		}
	}
	s.persistLocked(ctx)
}

// SetDetails replaces the order details.
func (s *Store) SetDetails(ctx context.Context, d models.OrderDetails) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.details = &d
	s.persistLocked(ctx)
}

// Clear empties the cart and forgets the order details.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
	s.details = nil
	s.persistLocked(ctx)
}

// Total is the sum of price x quantity, rounded to cents.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalOf(s.lines)
}

// Lines returns a copy of the cart lines in insertion order.
func (s *Store) Lines() []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.CartLine(nil), s.lines...)
}

// Count is the number of units across all lines.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

// Details returns a copy of the order details, or nil.
func (s *Store) Details() *models.OrderDetails {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.details == nil {
		return nil
	}
	d := *s.details
	return &d
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		Lines: append([]models.CartLine{}, s.lines...),
		Total: totalOf(s.lines),
	}
	for _, l := range s.lines {
		snap.Count += l.Quantity
	}
	if s.details != nil {
		d := *s.details
		snap.Details = &d
	}
	return snap
}

func (s *Store) removeLocked(id int64) {
	kept := s.lines[:0]
	for _, l := range s.lines {
		if l.FoodID != id {
			kept = append(kept, l)
		}
	}
	s.lines = kept
}

// persistLocked writes both blobs. Storage errors are logged and otherwise
// ignored; the in-memory state stays authoritative for this process.
func (s *Store) persistLocked(ctx context.Context) {
	s.lastUsed = time.Now()

	lines := s.lines
	if lines == nil {
		lines = []models.CartLine{}
	}
	if raw, err := json.Marshal(lines); err == nil {
		if err := s.persister.Save(ctx, s.session, CartKey, raw); err != nil {
			s.log.Warn("persist cart failed", "session", s.session, "error", err)
		}
	}

	if s.details == nil {
		if err := s.persister.Delete(ctx, s.session, DetailsKey); err != nil {
			s.log.Warn("drop order details failed", "session", s.session, "error", err)
		}
		return
	}
	if raw, err := json.Marshal(s.details); err == nil {
		if err := s.persister.Save(ctx, s.session, DetailsKey, raw); err != nil {
			s.log.Warn("persist order details failed", "session", s.session, "error", err)
		}
	}
}

func (s *Store) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

func totalOf(lines []models.CartLine) float64 {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(decimal.NewFromFloat(l.Price).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total.Round(2).InexactFloat64()
}

// sanitize drops lines a hand-edited blob could carry that the cart would
// never produce itself.
func sanitize(lines []models.CartLine) []models.CartLine {
	out := lines[:0]
	for _, l := range lines {
		if l.Quantity >= 1 {
			out = append(out, l)
		}
	}
	return out
}
