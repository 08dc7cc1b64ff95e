package mongo

import (
	"log"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/swara2402/Trenzy/pkg/global"
)

type IndexConfig struct {
	CollectionName string
	IndexModel     mongo.IndexModel
}

// Index names on the orders collection are load-bearing: the order store
// inspects duplicate-key errors by index name to tell an order-id collision
// apart from an idempotency-key replay.
const (
	IndexOrderIDUnique        = "idx_order_id_unique"
	IndexIdempotencyKeyUnique = "idx_idempotency_key_unique"
)

var requiredIndexes = []IndexConfig{
	// Customers Collection Indexes
	{
		CollectionName: "customers",
		IndexModel: mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_customer_email_unique"),
		},
	},

	// Products Collection Indexes
	// Index 1: Single-field index on category for filtering
	{
		CollectionName: "products",
		IndexModel: mongo.IndexModel{
			Keys:    bson.D{{Key: "category", Value: 1}},
			Options: options.Index().SetName("idx_category"),
		},
	},
	// Index 2: Text index for full-text search on products
	{
		CollectionName: "products",
		IndexModel: mongo.IndexModel{
			Keys: bson.D{
				{Key: "name", Value: "text"},
				{Key: "description", Value: "text"},
				{Key: "tags", Value: "text"},
			},
			Options: options.Index().
				SetName("idx_product_text_search").
				SetWeights(bson.D{
					{Key: "name", Value: 10},
					{Key: "tags", Value: 5},
					{Key: "description", Value: 1},
				}),
		},
	},

	// Orders Collection Indexes
	// Index 3: Compound index for per-user order history, newest first
	{
		CollectionName: "orders",
		IndexModel: mongo.IndexModel{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_user_orders"),
		},
	},
	// Index 4: Unique index on the human-facing order id
	{
		CollectionName: "orders",
		IndexModel: mongo.IndexModel{
			Keys:    bson.D{{Key: "order_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(IndexOrderIDUnique),
		},
	},
	// Index 5: Unique sparse index on the checkout idempotency key. Sparse so
	// orders created without a key never collide with each other.
	{
		CollectionName: "orders",
		IndexModel: mongo.IndexModel{
			Keys:    bson.D{{Key: "idempotency_key", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true).SetName(IndexIdempotencyKeyUnique),
		},
	},

	// Reviews Collection Indexes
	// Index 6: Product reviews lookup
	{
		CollectionName: "reviews",
		IndexModel: mongo.IndexModel{
			Keys:    bson.D{{Key: "product_id", Value: 1}},
			Options: options.Index().SetName("idx_product_reviews"),
		},
	},
}

func EnsureIndexes() error {
	log.Println("Starting index creation...")

	for _, idxConfig := range requiredIndexes {
		collection := GetCollection(idxConfig.CollectionName)
		ctx, cancel := global.GetDefaultTimer()
		defer cancel()

		// Create the index
		indexName, err := collection.Indexes().CreateOne(ctx, idxConfig.IndexModel)
		if err != nil {
			log.Printf("Error creating index on collection %s: %v",
				idxConfig.CollectionName, err)
			return err
		}

		log.Printf("✓ Created index '%s' on collection '%s'", indexName, idxConfig.CollectionName)
	}

	log.Println("All indexes created successfully!")
	return nil
}

func EnsureIndexesOnStartup() {
	if err := EnsureIndexes(); err != nil {
		log.Fatalf("Failed to ensure indexes: %v", err)
	}
}
