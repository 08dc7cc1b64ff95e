package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/swara2402/Trenzy/pkg/models"
)

// ProductStore reads and writes the catalog. It satisfies cart.Catalog so
// persisted carts can be re-joined against live product data.
type ProductStore struct {
	collection *mongo.Collection
}

func NewProductStore() *ProductStore {
	return &ProductStore{collection: GetCollection("products")}
}

// GetProduct returns (nil, nil) when the id is not in the catalog.
func (s *ProductStore) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product %s: %w", id, err)
	}
	return &product, nil
}

// GetAllProducts lists the catalog, optionally filtered by category, most
// popular first.
func (s *ProductStore) GetAllProducts(ctx context.Context, category string) ([]models.Product, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}

	opts := options.Find().SetSort(bson.D{{Key: "popularity", Value: -1}})
	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

// SearchProducts runs the text index over name, description and tags.
func (s *ProductStore) SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	filter := bson.M{"$text": bson.M{"$search": query}}
	opts := options.Find().
		SetSort(bson.M{"score": bson.M{"$meta": "textScore"}})

	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("search products %q: %w", query, err)
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode search results: %w", err)
	}
	return products, nil
}

func (s *ProductStore) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	product.SetTimestamps()
	if _, err := s.collection.InsertOne(ctx, product); err != nil {
		return nil, fmt.Errorf("insert product %s: %w", product.ID, err)
	}
	return product, nil
}

func (s *ProductStore) CreateProducts(ctx context.Context, products []*models.Product) ([]*models.Product, error) {
	docs := make([]interface{}, 0, len(products))
	for _, product := range products {
		product.SetTimestamps()
		docs = append(docs, product)
	}

	if _, err := s.collection.InsertMany(ctx, docs); err != nil {
		return nil, fmt.Errorf("insert %d products: %w", len(products), err)
	}
	return products, nil
}
