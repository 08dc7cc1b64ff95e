package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/swara2402/Trenzy/pkg/models"
)

type ReviewStore struct {
	collection *mongo.Collection
}

func NewReviewStore() *ReviewStore {
	return &ReviewStore{collection: GetCollection("reviews")}
}

func (s *ReviewStore) GetReviewsForProduct(ctx context.Context, productID string) ([]models.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.collection.Find(ctx, bson.M{"product_id": productID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find reviews for product %s: %w", productID, err)
	}
	defer cursor.Close(ctx)

	var reviews []models.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("decode reviews for product %s: %w", productID, err)
	}
	return reviews, nil
}
