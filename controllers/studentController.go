package controllers

import (
	"context"
	"net/http"

	"campus-canteen/cart"
	"campus-canteen/checkout"
	"campus-canteen/models"
	"campus-canteen/repository"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// OrderSubmitter places the order held in a cart.
type OrderSubmitter interface {
	Submit(ctx context.Context, store *cart.Store) (*models.Order, error)
}

func GetProfile(carts *cart.Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		store, ok := sessionCart(ctx, c, carts)
		if !ok {
			return
		}
		details := store.Details()
		if details == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no order details yet"})
			return
		}
		c.JSON(http.StatusOK, details)
	}
}

// PutProfile stores the intake form. Block and dorm are dropped for
// cafeteria orders.
func PutProfile(carts *cart.Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		var details models.OrderDetails
		if err := c.BindJSON(&details); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := details.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if details.OrderType == models.OrderTypeCafeteria {
			details.BlockType = ""
			details.DormNumber = ""
		}

		store, ok := sessionCart(ctx, c, carts)
		if !ok {
			return
		}
		store.SetDetails(ctx, details)
		c.JSON(http.StatusOK, details)
	}
}

func Checkout(svc OrderSubmitter, carts *cart.Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		store, ok := sessionCart(ctx, c, carts)
		if !ok {
			return
		}
		order, err := svc.Submit(ctx, store)
		switch {
		case err == nil:
			c.JSON(http.StatusCreated, gin.H{"order_id": order.ID})
		case errors.Is(err, checkout.ErrMissingDetails),
			errors.Is(err, checkout.ErrEmptyCart),
			errors.Is(err, checkout.ErrInvalidDetails):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, checkout.ErrItemUnavailable):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to place order"})
		}
	}
}

// GetPlacedOrder is the confirmation page data for a just-placed order.
func GetPlacedOrder(orders repository.OrderRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		id, ok := paramID(c, "order_id")
		if !ok {
			return
		}
		order, err := orders.GetOrder(ctx, id)
		if err != nil {
			storeError(c, err, "order")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"order_id":      order.ID,
			"status":        order.Status,
			"order_type":    order.OrderType,
			"time_slot":     order.TimeSlotOrASAP(),
			"delivery_date": order.DeliveryDate,
			"created_at":    order.CreatedAt,
		})
	}
}
