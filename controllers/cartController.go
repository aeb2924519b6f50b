package controllers

import (
	"net/http"

	"campus-canteen/cart"
	"campus-canteen/repository"

	"github.com/gin-gonic/gin"
)

type addCartItemRequest struct {
	FoodID int64 `json:"food_id" validate:"required,gt=0"`
}

type cartQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

func GetCart(carts *cart.Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()
		store, ok := sessionCart(ctx, c, carts)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, store.Snapshot())
	}
}

// AddCartItem puts one unit of an available dish in the cart, using the
// catalog's current name and price.
func AddCartItem(foods repository.FoodRepository, carts *cart.Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		var req addCartItemRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := validate.Struct(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "food_id is required"})
			return
		}

		food, err := foods.GetFood(ctx, req.FoodID)
		if err != nil {
			storeError(c, err, "food item")
			return
		}
		if !food.Available {
			c.JSON(http.StatusConflict, gin.H{"error": food.Name + " is not available right now"})
			return
		}

		store, ok := sessionCart(ctx, c, carts)
		if !ok {
			return
		}
		store.Add(ctx, cart.LineFor(*food))
		c.JSON(http.StatusOK, store.Snapshot())
	}
}

// UpdateCartItem sets a line's quantity; zero or less removes the line.
func UpdateCartItem(carts *cart.Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		id, ok := paramID(c, "food_id")
		if !ok {
			return
		}
		var req cartQuantityRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := validate.Struct(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity is required"})
			return
		}

		store, ok := sessionCart(ctx, c, carts)
		if !ok {
			return
		}
		store.SetQuantity(ctx, id, *req.Quantity)
		c.JSON(http.StatusOK, store.Snapshot())
	}
}

func RemoveCartItem(carts *cart.Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		id, ok := paramID(c, "food_id")
		if !ok {
			return
		}
		store, ok := sessionCart(ctx, c, carts)
		if !ok {
			return
		}
		store.Remove(ctx, id)
		c.JSON(http.StatusOK, store.Snapshot())
	}
}

// ClearCart empties the cart and forgets the order details.
func ClearCart(carts *cart.Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		store, ok := sessionCart(ctx, c, carts)
		if !ok {
			return
		}
		store.Clear(ctx)
		c.JSON(http.StatusOK, store.Snapshot())
	}
}
