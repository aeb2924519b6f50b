package controllers

import (
	"net/http"
	"strings"

	"campus-canteen/cart"
	"campus-canteen/models"
	"campus-canteen/repository"

	"github.com/gin-gonic/gin"
)

// FoodRequest is the admin create/update body. A missing Available means
// true on create and the stored value on update.
type FoodRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	Category    string  `json:"category" validate:"required,eq=food|eq=drink"`
	Available   *bool   `json:"available"`
}

func (r FoodRequest) food(fallback bool) models.Food {
	f := models.Food{
		Name:        strings.TrimSpace(r.Name),
		Price:       r.Price,
		Description: r.Description,
		Image:       r.Image,
		Category:    r.Category,
		Available:   fallback,
	}
	if r.Available != nil {
		f.Available = *r.Available
	}
	return f
}

// GetMenu lists available dishes for students. The intake form comes first,
// so a session without order details gets 412.
func GetMenu(foods repository.FoodRepository, carts *cart.Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		store, ok := sessionCart(ctx, c, carts)
		if !ok {
			return
		}
		if store.Details() == nil {
			c.JSON(http.StatusPreconditionFailed, gin.H{"error": "please fill in your order details first"})
			return
		}
		items, err := foods.ListFoods(ctx, repository.FoodFilter{
			OnlyAvailable: true,
			Category:      c.Query("category"),
			Search:        c.Query("q"),
		})
		if err != nil {
			storeError(c, err, "menu items")
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

func GetFoods(foods repository.FoodRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		items, err := foods.ListFoods(ctx, repository.FoodFilter{
			Availability: c.Query("availability"),
			Category:     c.Query("category"),
			Search:       c.Query("q"),
		})
		if err != nil {
			storeError(c, err, "food items")
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

func GetFood(foods repository.FoodRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		id, ok := paramID(c, "food_id")
		if !ok {
			return
		}
		food, err := foods.GetFood(ctx, id)
		if err != nil {
			storeError(c, err, "food item")
			return
		}
		c.JSON(http.StatusOK, food)
	}
}

func CreateFood(foods repository.FoodRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		var req FoodRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := validate.Struct(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name, price and category are required"})
			return
		}

		food := req.food(true)
		if err := foods.CreateFood(ctx, &food); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "food item was not created"})
			return
		}
		c.JSON(http.StatusCreated, food)
	}
}

func UpdateFood(foods repository.FoodRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		id, ok := paramID(c, "food_id")
		if !ok {
			return
		}
		var req FoodRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := validate.Struct(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name, price and category are required"})
			return
		}

		keep := false
		if req.Available == nil {
			cur, err := foods.GetFood(ctx, id)
			if err != nil {
				storeError(c, err, "food item")
				return
			}
			keep = cur.Available
		}

		food, err := foods.UpdateFood(ctx, id, req.food(keep))
		if err != nil {
			storeError(c, err, "food item")
			return
		}
		c.JSON(http.StatusOK, food)
	}
}

type availabilityRequest struct {
	Available *bool `json:"available"`
}

// SetFoodAvailability sets the flag from the body, or flips it when the body
// is empty.
func SetFoodAvailability(foods repository.FoodRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		id, ok := paramID(c, "food_id")
		if !ok {
			return
		}
		var req availabilityRequest
		if c.Request.ContentLength != 0 {
			if err := c.BindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}
		if req.Available == nil {
			cur, err := foods.GetFood(ctx, id)
			if err != nil {
				storeError(c, err, "food item")
				return
			}
			flipped := !cur.Available
			req.Available = &flipped
		}

		food, err := foods.SetAvailability(ctx, id, *req.Available)
		if err != nil {
			storeError(c, err, "food item")
			return
		}
		c.JSON(http.StatusOK, food)
	}
}

func DeleteFood(foods repository.FoodRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		id, ok := paramID(c, "food_id")
		if !ok {
			return
		}
		if err := foods.DeleteFood(ctx, id); err != nil {
			storeError(c, err, "food item")
			return
		}
		c.Status(http.StatusNoContent)
	}
}
