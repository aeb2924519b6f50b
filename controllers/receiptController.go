package controllers

import (
	"bytes"
	"context"
	"net/http"

	"campus-canteen/receipt"
	"campus-canteen/repository"

	"github.com/gin-gonic/gin"
)

func buildReceipt(ctx context.Context, c *gin.Context, orders repository.OrderRepository) (*receipt.Receipt, bool) {
	id, ok := paramID(c, "order_id")
	if !ok {
		return nil, false
	}
	order, err := orders.GetOrder(ctx, id)
	if err != nil {
		storeError(c, err, "order")
		return nil, false
	}
	items, err := orders.ItemsWithFood(ctx, id)
	if err != nil {
		storeError(c, err, "order items")
		return nil, false
	}
	r := receipt.Build(*order, items)
	return &r, true
}

// GetReceiptPage renders the printable receipt.
func GetReceiptPage(orders repository.OrderRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		r, ok := buildReceipt(ctx, c, orders)
		if !ok {
			return
		}
		var buf bytes.Buffer
		if err := receipt.WriteHTML(&buf, *r); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render receipt"})
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
	}
}

// GetReceiptPDF sends the receipt as order-<id>.pdf.
func GetReceiptPDF(orders repository.OrderRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		r, ok := buildReceipt(ctx, c, orders)
		if !ok {
			return
		}
		var buf bytes.Buffer
		if err := receipt.WritePDF(&buf, *r); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate PDF"})
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+r.Filename()+`"`)
		c.Data(http.StatusOK, "application/pdf", buf.Bytes())
	}
}
