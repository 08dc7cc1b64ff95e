package router

import (
	"context"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/swara2402/Trenzy/internal/cart"
	"github.com/swara2402/Trenzy/pkg/models"
)

var Router *gin.Engine

// ProductCatalog is what the handlers need from the product store. Lookups
// that find nothing return (nil, nil).
type ProductCatalog interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	GetAllProducts(ctx context.Context, category string) ([]models.Product, error)
	SearchProducts(ctx context.Context, query string) ([]models.Product, error)
	CreateProducts(ctx context.Context, products []*models.Product) ([]*models.Product, error)
}

// ProductCache fronts the catalog for single-product reads. A miss is
// (nil, nil); cache failures never fail the request.
type ProductCache interface {
	CacheProduct(ctx context.Context, product *models.Product) error
	GetCachedProduct(ctx context.Context, id string) (*models.Product, error)
}

type ReviewSource interface {
	GetReviewsForProduct(ctx context.Context, productID string) ([]models.Review, error)
}

type CustomerDirectory interface {
	Create(ctx context.Context, customer *models.Customer) (*models.Customer, error)
	FindByEmail(ctx context.Context, email string) (*models.Customer, error)
}

type OrderService interface {
	CreateOrder(ctx context.Context, userID string, lines []models.CartLine, address models.Address, payment models.PaymentMethod, idempotencyKey string) (*models.Order, error)
	GetUserOrders(ctx context.Context, userID string) ([]models.Order, error)
	GetOrderByID(ctx context.Context, orderID string) (*models.Order, error)
	CancelOrder(ctx context.Context, orderID string) error
	AdvanceStatus(ctx context.Context, orderID string, next models.OrderStatus) error
}

type Dependencies struct {
	Products     ProductCatalog
	ProductCache ProductCache
	Reviews      ReviewSource
	Customers    CustomerDirectory
	Orders       OrderService
	Carts        *cart.Manager
}

var deps Dependencies

func InitEngine() {
	Router = gin.Default()
	if os.Getenv("ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	Router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173", "https://trenzy.swara.dev"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", "X-User-ID", "X-Idempotency-Key"},
		ExposeHeaders:    []string{"Content-Length", "X-Cache"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}

func InitializeRoutes(d Dependencies) {
	deps = d

	Router.Use(IdentityMiddleware())

	api := Router.Group("/api")
	{
		api.GET("/health", HealthCheck)
		api.GET("/search", SearchProducts)

		products := api.Group("/products")
		{
			products.GET("/", GetAllProducts)
			products.POST("/", CreateNewProducts)
			products.GET("/:id", GetProductByID)
			products.GET("/:id/reviews", GetProductReviews)
		}

		customers := api.Group("/customers")
		{
			customers.POST("/register", RegisterCustomer)
			customers.POST("/login", LoginCustomer)
		}

		cartRoutes := api.Group("/cart")
		{
			cartRoutes.POST("/session", CreateCartSession)
			cartRoutes.GET("/:sessionId", GetCart)
			cartRoutes.POST("/:sessionId/items", AddToCart)
			cartRoutes.PUT("/:sessionId/items/:productId", UpdateCartItem)
			cartRoutes.DELETE("/:sessionId/items/:productId", RemoveFromCart)
			cartRoutes.DELETE("/:sessionId/clear", ClearCart)
			cartRoutes.PUT("/:sessionId/open", SetCartOpen)
		}

		orders := api.Group("/orders")
		orders.Use(RequireUser())
		{
			orders.POST("/", Checkout)
			orders.GET("/", GetUserOrders)
			orders.GET("/:orderId", GetOrderByID)
			orders.PUT("/:orderId/cancel", CancelOrder)
			orders.PUT("/:orderId/status", UpdateOrderStatus)
		}
	}
}
