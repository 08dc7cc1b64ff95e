package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/swara2402/Trenzy/internal/cart"
	"github.com/swara2402/Trenzy/internal/orders"
	"github.com/swara2402/Trenzy/internal/router"
	"github.com/swara2402/Trenzy/pkg/global"
	"github.com/swara2402/Trenzy/pkg/mongo"
	"github.com/swara2402/Trenzy/pkg/redis"
)

func main() {

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: no .env file loaded: %v", err)
	}

	mongo.InitMongoDB()
	mongo.EnsureIndexesOnStartup()

	redisClient := redis.RedisClient()
	productStore := mongo.NewProductStore()

	deps := router.Dependencies{
		Products:     productStore,
		ProductCache: redis.NewProductCache(redisClient),
		Reviews:      mongo.NewReviewStore(),
		Customers:    mongo.NewCustomerStore(),
		Orders:       orders.NewService(mongo.NewOrderStore()),
		Carts:        cart.NewManager(redis.NewCartStore(redisClient), productStore),
	}

	router.InitEngine()
	router.InitializeRoutes(deps)

	port := global.GetEnvOrDefault("PORT", "8000")
	log.Printf("Server is running on port %s", port)

	if err := router.Router.Run(":" + port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
