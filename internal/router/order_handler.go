package router

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swara2402/Trenzy/internal/orders"
	"github.com/swara2402/Trenzy/pkg/global"
	"github.com/swara2402/Trenzy/pkg/models"
)

// Checkout turns the session's cart into a pending order. The cart is only
// cleared after the order is durably stored; a failed checkout leaves the
// cart exactly as it was.
func Checkout(c *gin.Context) {
	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
			{Field: "request", Message: err.Error(), Code: "validation_error"},
		}))
		return
	}

	ctx := c.Request.Context()
	userID := c.GetString("userId")
	store := deps.Carts.Get(ctx, req.SessionID)

	lines := store.Lines()
	if len(lines) == 0 {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Cart is empty", []global.ValidationError{
			{Field: "session_id", Message: "Cannot place an order from an empty cart", Code: "empty_cart"},
		}))
		return
	}

	order, err := deps.Orders.CreateOrder(ctx, userID, lines, req.Address, req.PaymentMethod, c.GetHeader("X-Idempotency-Key"))
	if err != nil {
		writeCheckoutError(c, err)
		return
	}

	store.ClearCart()
	store.SetOpen(false)

	c.JSON(http.StatusCreated, global.SuccessResponse(order))
}

func writeCheckoutError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, orders.ErrMissingUser):
		c.JSON(http.StatusUnauthorized, global.ErrorResponse("Sign in required", nil))
	case errors.Is(err, orders.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Cart is empty", []global.ValidationError{
			{Field: "session_id", Message: "Cannot place an order from an empty cart", Code: "empty_cart"},
		}))
	case errors.Is(err, orders.ErrInvalidAddress):
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Incomplete shipping address", []global.ValidationError{
			{Field: "address", Message: err.Error(), Code: "validation_error"},
		}))
	case errors.Is(err, orders.ErrInvalidPayment):
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Unknown payment method", []global.ValidationError{
			{Field: "payment_method", Message: err.Error(), Code: "validation_error"},
		}))
	default:
		log.Printf("Error creating order: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to create order", nil))
	}
}

func GetUserOrders(c *gin.Context) {
	userOrders, err := deps.Orders.GetUserOrders(c.Request.Context(), c.GetString("userId"))
	if err != nil {
		log.Printf("Error fetching orders: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch orders", nil))
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(userOrders))
}

func GetOrderByID(c *gin.Context) {
	order, err := deps.Orders.GetOrderByID(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		log.Printf("Error fetching order: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch order", nil))
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, global.ErrorResponse("Order not found", []global.ValidationError{
			{Field: "orderId", Message: "No order exists with this id", Code: "not_found"},
		}))
		return
	}
	// Orders are visible only to the user who placed them.
	if order.UserID != c.GetString("userId") {
		c.JSON(http.StatusNotFound, global.ErrorResponse("Order not found", []global.ValidationError{
			{Field: "orderId", Message: "No order exists with this id", Code: "not_found"},
		}))
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(order))
}

func CancelOrder(c *gin.Context) {
	orderID := c.Param("orderId")

	if err := deps.Orders.CancelOrder(c.Request.Context(), orderID); err != nil {
		writeTransitionError(c, err)
		return
	}

	order, err := deps.Orders.GetOrderByID(c.Request.Context(), orderID)
	if err != nil || order == nil {
		c.JSON(http.StatusOK, global.SuccessResponse(map[string]string{"order_id": orderID, "status": string(models.StatusCancelled)}))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(order))
}

func UpdateOrderStatus(c *gin.Context) {
	var req models.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
			{Field: "status", Message: err.Error(), Code: "validation_error"},
		}))
		return
	}

	orderID := c.Param("orderId")
	if err := deps.Orders.AdvanceStatus(c.Request.Context(), orderID, req.Status); err != nil {
		writeTransitionError(c, err)
		return
	}

	order, err := deps.Orders.GetOrderByID(c.Request.Context(), orderID)
	if err != nil || order == nil {
		c.JSON(http.StatusOK, global.SuccessResponse(map[string]string{"order_id": orderID, "status": string(req.Status)}))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(order))
}

func writeTransitionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, orders.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, global.ErrorResponse("Order not found", []global.ValidationError{
			{Field: "orderId", Message: "No order exists with this id", Code: "not_found"},
		}))
	case errors.Is(err, orders.ErrInvalidTransition):
		c.JSON(http.StatusConflict, global.ErrorResponse("Status change not allowed", []global.ValidationError{
			{Field: "status", Message: err.Error(), Code: "invalid_transition"},
		}))
	case errors.Is(err, orders.ErrStatusConflict):
		c.JSON(http.StatusConflict, global.ErrorResponse("Order status changed concurrently, retry", []global.ValidationError{
			{Field: "status", Message: err.Error(), Code: "conflict"},
		}))
	default:
		log.Printf("Error updating order status: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to update order", nil))
	}
}
