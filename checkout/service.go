// Package checkout turns a session's cart into a stored order.
package checkout

import (
	"context"
	"strings"
	"time"

	"campus-canteen/cart"
	"campus-canteen/feed"
	"campus-canteen/logger"
	"campus-canteen/models"
	"campus-canteen/repository"
	"campus-canteen/telemetry"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var (
	ErrMissingDetails  = errors.New("please fill in your order details first")
	ErrEmptyCart       = errors.New("your cart is empty")
	ErrInvalidDetails  = errors.New("order details are incomplete")
	ErrItemUnavailable = errors.New("an item in your cart is no longer available")
)

// OrderWriter is the slice of the order repository checkout writes through.
type OrderWriter interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	InsertItems(ctx context.Context, items []models.OrderItem) error
	DeleteOrder(ctx context.Context, id int64) error
}

// FoodReader lets checkout confirm cart items are still on sale.
type FoodReader interface {
	GetFood(ctx context.Context, id int64) (*models.Food, error)
}

type Service struct {
	orders OrderWriter
	foods  FoodReader
	pub    feed.Publisher
	loc    *time.Location
	log    *logger.Logger
	now    func() time.Time
}

// NewService wires checkout. foods may be nil to skip the availability check;
// loc decides what "today" means for the default delivery date.
func NewService(orders OrderWriter, foods FoodReader, pub feed.Publisher, loc *time.Location, log *logger.Logger) *Service {
	if loc == nil {
		loc = time.Local
	}
	if pub == nil {
		pub = feed.Discard
	}
	return &Service{
		orders: orders,
		foods:  foods,
		pub:    pub,
		loc:    loc,
		log:    log.WithComponent("checkout"),
		now:    time.Now,
	}
}

// Submit writes the header, then every cart line as an item priced at its
// cart price. If the items cannot be written the header is deleted again.
// On success the cart and its details are cleared.
func (s *Service) Submit(ctx context.Context, store *cart.Store) (*models.Order, error) {
	ctx, span := telemetry.Tracer("checkout").Start(ctx, "checkout.Submit")
	defer span.End()

	order, err := s.submit(ctx, store)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int64("order.id", order.ID))
	return order, nil
}

func (s *Service) submit(ctx context.Context, store *cart.Store) (*models.Order, error) {
	details := store.Details()
	if details == nil {
		return nil, ErrMissingDetails
	}
	lines := store.Lines()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	if err := details.Validate(); err != nil {
		return nil, errors.Wrap(ErrInvalidDetails, err.Error())
	}

	if s.foods != nil {
		for _, l := range lines {
			food, err := s.foods.GetFood(ctx, l.FoodID)
			if repository.IsNotFound(err) || (err == nil && !food.Available) {
				return nil, errors.Wrap(ErrItemUnavailable, l.Name)
			}
			if err != nil {
				return nil, errors.Wrap(err, "look up cart item")
			}
		}
	}

	now := s.now()
	order := buildOrder(*details, now.In(s.loc))
	order.CreatedAt = now.UTC()
	if err := s.orders.CreateOrder(ctx, order); err != nil {
		telemetry.CheckoutFailures.WithLabelValues("order").Inc()
		return nil, errors.Wrap(err, "create order")
	}

	items := make([]models.OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, models.OrderItem{
			OrderID:     order.ID,
			FoodID:      l.FoodID,
			Quantity:    l.Quantity,
			PriceAtTime: l.Price,
			CreatedAt:   order.CreatedAt,
		})
	}
	if err := s.orders.InsertItems(ctx, items); err != nil {
		telemetry.CheckoutFailures.WithLabelValues("items").Inc()
		if derr := s.orders.DeleteOrder(ctx, order.ID); derr != nil {
			s.log.Error("orphaned order header", "order_id", order.ID, "error", derr)
		}
		return nil, errors.Wrap(err, "insert order items")
	}

	store.Clear(ctx)
	telemetry.OrdersSubmitted.Inc()
	s.pub.Publish(ctx, feed.OrderEvent(feed.Insert, order))
	s.log.Info("order submitted", "order_id", order.ID, "items", len(items), "order_type", order.OrderType)
	return order, nil
}

// buildOrder maps intake details to a pending order header. Block and dorm
// are only kept for delivery.
func buildOrder(d models.OrderDetails, today time.Time) *models.Order {
	o := &models.Order{
		StudentName:  strings.TrimSpace(d.StudentName),
		StudentID:    strings.TrimSpace(d.StudentID),
		Phone:        strings.TrimSpace(d.Phone),
		OrderType:    d.OrderType,
		DeliveryDate: d.DeliveryDate,
		Status:       models.StatusPending,
	}
	if o.DeliveryDate == "" {
		o.DeliveryDate = today.Format("2006-01-02")
	}
	if slot := strings.TrimSpace(d.TimeSlot); slot != "" {
		o.TimeSlot = &slot
	}
	if d.OrderType == models.OrderTypeDelivery {
		block, dorm := strings.TrimSpace(d.BlockType), strings.TrimSpace(d.DormNumber)
		o.BlockType = &block
		o.DormNumber = &dorm
	}
	return o
}
