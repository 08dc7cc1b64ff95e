package router

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/swara2402/Trenzy/pkg/global"
	"github.com/swara2402/Trenzy/pkg/models"
	"github.com/swara2402/Trenzy/pkg/mongo"
)

func HealthCheck(c *gin.Context) {
	db := mongo.GetDatabase()
	if err := db.Client().Ping(c, nil); err != nil {
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Database connection failed", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(map[string]string{"status": "OK", "database": "Connected"}))
}

func GetAllProducts(c *gin.Context) {
	products, err := deps.Products.GetAllProducts(c.Request.Context(), c.Query("category"))
	if err != nil {
		log.Printf("Error fetching products: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to get products", nil))
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(products))
}

// GetProductByID retrieves a product by id with Redis caching
func GetProductByID(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	// Try Redis cache first
	if deps.ProductCache != nil {
		cached, err := deps.ProductCache.GetCachedProduct(ctx, id)
		if err != nil {
			log.Printf("Warning: product cache read failed for %s: %v", id, err)
		}
		if cached != nil {
			c.Header("X-Cache", "HIT")
			c.JSON(http.StatusOK, global.SuccessResponse(cached))
			return
		}
	}

	product, err := deps.Products.GetProduct(ctx, id)
	if err != nil {
		log.Printf("Error fetching product from MongoDB: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch product", nil))
		return
	}
	if product == nil {
		c.JSON(http.StatusNotFound, global.ErrorResponse("Product not found", []global.ValidationError{
			{Field: "id", Message: "No product exists with this id", Code: "not_found"},
		}))
		return
	}

	if deps.ProductCache != nil {
		if cacheErr := deps.ProductCache.CacheProduct(ctx, product); cacheErr != nil {
			// Log cache error but don't fail the request
			log.Printf("Warning: Failed to cache product in Redis: %v", cacheErr)
		}
	}

	c.Header("X-Cache", "MISS")
	c.JSON(http.StatusOK, global.SuccessResponse(product))
}

func SearchProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("q query parameter required", []global.ValidationError{
			{Field: "q", Message: "q query parameter is required", Code: "required"},
		}))
		return
	}

	products, err := deps.Products.SearchProducts(c.Request.Context(), query)
	if err != nil {
		log.Printf("Error searching products: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Search failed", nil))
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(products))
}

func CreateNewProducts(c *gin.Context) {
	var req []models.CreateProductRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
			{Field: "request", Message: err.Error(), Code: "validation_error"},
		}))
		return
	}

	if len(req) == 0 {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("No products provided", []global.ValidationError{
			{Field: "products", Message: "At least one product is required", Code: "empty_array"},
		}))
		return
	}

	products := make([]*models.Product, len(req))
	for i, productReq := range req {
		products[i] = productReq.ToProduct()
	}

	created, err := deps.Products.CreateProducts(c.Request.Context(), products)
	if err != nil {
		log.Printf("Error creating products: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to create products", nil))
		return
	}

	if deps.ProductCache != nil {
		for _, product := range created {
			if cacheErr := deps.ProductCache.CacheProduct(c.Request.Context(), product); cacheErr != nil {
				log.Printf("Warning: Failed to cache products in Redis: %v", cacheErr)
				break
			}
		}
	}

	c.JSON(http.StatusCreated, global.SuccessResponse(map[string]interface{}{
		"products": created,
		"count":    len(created),
	}))
}

func GetProductReviews(c *gin.Context) {
	productID := c.Param("id")

	reviews, err := deps.Reviews.GetReviewsForProduct(c.Request.Context(), productID)
	if err != nil {
		log.Printf("Error fetching reviews: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch reviews", nil))
		return
	}
	if reviews == nil {
		reviews = []models.Review{}
	}

	c.JSON(http.StatusOK, global.SuccessResponse(reviews))
}

func RegisterCustomer(c *gin.Context) {
	var req models.RegisterCustomerRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
			{Field: "request", Message: err.Error(), Code: "validation_error"},
		}))
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to process password", nil))
		return
	}

	customer := &models.Customer{
		Email:    req.Email,
		Password: string(hashedPassword),
		FullName: req.FullName,
	}

	created, err := deps.Customers.Create(c.Request.Context(), customer)
	if err != nil {
		if errors.Is(err, mongo.ErrEmailTaken) {
			c.JSON(http.StatusConflict, global.ErrorResponse("Email already registered", []global.ValidationError{
				{Field: "email", Message: "This email is already in use", Code: "duplicate_email"},
			}))
			return
		}
		log.Printf("Error creating customer: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to create customer", nil))
		return
	}

	c.JSON(http.StatusCreated, global.SuccessResponse(created))
}

func LoginCustomer(c *gin.Context) {
	var req models.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
			{Field: "request", Message: err.Error(), Code: "validation_error"},
		}))
		return
	}

	customer, err := deps.Customers.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		log.Printf("Error fetching customer: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Login failed", nil))
		return
	}
	// Same response for unknown email and wrong password.
	if customer == nil {
		c.JSON(http.StatusUnauthorized, global.ErrorResponse("Invalid email or password", nil))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(customer.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, global.ErrorResponse("Invalid email or password", nil))
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(customer))
}
