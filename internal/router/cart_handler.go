package router

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/swara2402/Trenzy/internal/cart"
	"github.com/swara2402/Trenzy/pkg/global"
	"github.com/swara2402/Trenzy/pkg/models"
)

// cartView shapes a snapshot for the wire. Totals are rounded to cents here
// and only here; the stored figure keeps full precision.
func cartView(snap cart.Snapshot) gin.H {
	return gin.H{
		"session_id":  snap.SessionID,
		"lines":       snap.Lines,
		"total_items": snap.TotalItems,
		"total_price": global.Round2(snap.TotalPrice),
		"is_open":     snap.IsOpen,
	}
}

func CreateCartSession(c *gin.Context) {
	sessionID := uuid.NewString()
	deps.Carts.Get(c.Request.Context(), sessionID)

	c.JSON(http.StatusCreated, global.SuccessResponse(map[string]string{"session_id": sessionID}))
}

func GetCart(c *gin.Context) {
	store := deps.Carts.Get(c.Request.Context(), c.Param("sessionId"))
	c.JSON(http.StatusOK, global.SuccessResponse(cartView(store.Snapshot())))
}

func AddToCart(c *gin.Context) {
	var req models.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
			{Field: "request", Message: err.Error(), Code: "validation_error"},
		}))
		return
	}

	ctx := c.Request.Context()
	product := resolveProduct(c, req.ProductID)
	if product == nil {
		return
	}

	store := deps.Carts.Get(ctx, c.Param("sessionId"))
	store.AddToCart(*product, req.Quantity)

	c.JSON(http.StatusOK, global.SuccessResponse(cartView(store.Snapshot())))
}

// resolveProduct looks the product up cache-first and writes the error
// response itself when the id is unknown or the catalog is down.
func resolveProduct(c *gin.Context, productID string) *models.Product {
	ctx := c.Request.Context()

	if deps.ProductCache != nil {
		cached, err := deps.ProductCache.GetCachedProduct(ctx, productID)
		if err != nil {
			log.Printf("Warning: product cache read failed for %s: %v", productID, err)
		}
		if cached != nil {
			c.Header("X-Cache", "HIT")
			return cached
		}
	}

	product, err := deps.Products.GetProduct(ctx, productID)
	if err != nil {
		log.Printf("Error fetching product from MongoDB: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch product", nil))
		return nil
	}
	if product == nil {
		c.JSON(http.StatusNotFound, global.ErrorResponse("Product not found", []global.ValidationError{
			{Field: "product_id", Message: "No product exists with this id", Code: "not_found"},
		}))
		return nil
	}
	return product
}

func UpdateCartItem(c *gin.Context) {
	var req models.UpdateCartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
			{Field: "quantity", Message: err.Error(), Code: "validation_error"},
		}))
		return
	}

	store := deps.Carts.Get(c.Request.Context(), c.Param("sessionId"))
	store.UpdateQuantity(c.Param("productId"), *req.Quantity)

	c.JSON(http.StatusOK, global.SuccessResponse(cartView(store.Snapshot())))
}

func RemoveFromCart(c *gin.Context) {
	store := deps.Carts.Get(c.Request.Context(), c.Param("sessionId"))
	store.RemoveFromCart(c.Param("productId"))

	c.JSON(http.StatusOK, global.SuccessResponse(cartView(store.Snapshot())))
}

func ClearCart(c *gin.Context) {
	store := deps.Carts.Get(c.Request.Context(), c.Param("sessionId"))
	store.ClearCart()

	c.JSON(http.StatusOK, global.SuccessResponse(cartView(store.Snapshot())))
}

func SetCartOpen(c *gin.Context) {
	var req models.SetCartOpenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
			{Field: "open", Message: err.Error(), Code: "validation_error"},
		}))
		return
	}

	store := deps.Carts.Get(c.Request.Context(), c.Param("sessionId"))
	store.SetOpen(*req.Open)

	c.JSON(http.StatusOK, global.SuccessResponse(cartView(store.Snapshot())))
}
