package controllers

import (
	"context"
	"net/http"
	"time"

	"campus-canteen/models"
	"campus-canteen/receipt"

	"github.com/gin-gonic/gin"
)

const popularCount = 6

// PopularSource ranks dishes by recent orders.
type PopularSource interface {
	Popular(ctx context.Context, n int, now time.Time) ([]models.Food, error)
}

var orderingSteps = []string{
	"Tell us who you are and where to deliver",
	"Pick dishes and drinks from the menu",
	"Review your cart and place the order",
}

func Landing(popular PopularSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		items, err := popular.Popular(ctx, popularCount, time.Now())
		if err != nil {
			_ = c.Error(err)
			items = []models.Food{}
		}
		c.JSON(http.StatusOK, gin.H{
			"name":    receipt.Title,
			"steps":   orderingSteps,
			"popular": items,
		})
	}
}

func GetPopular(popular PopularSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		items, err := popular.Popular(ctx, popularCount, time.Now())
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while loading popular items"})
			return
		}
		c.JSON(http.StatusOK, items)
	}
}
