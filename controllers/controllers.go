package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"campus-canteen/cart"
	"campus-canteen/middleware"
	"campus-canteen/repository"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator"
)

var validate = validator.New()

const requestTimeout = 100 * time.Second

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

// paramID parses an integer path parameter, answering 400 when it is not one.
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a positive integer"})
		return 0, false
	}
	return id, true
}

// storeError answers 404 for missing rows and 500 for everything else.
func storeError(c *gin.Context, err error, what string) {
	if repository.IsNotFound(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": what + " was not found"})
		return
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while loading " + what})
}

// sessionCart loads the caller's cart, answering 500 when stored state could
// not be read.
func sessionCart(ctx context.Context, c *gin.Context, carts *cart.Sessions) (*cart.Store, bool) {
	store, err := carts.Get(ctx, middleware.SessionID(c))
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while loading your cart"})
		return nil, false
	}
	return store, true
}
