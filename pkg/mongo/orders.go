package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/swara2402/Trenzy/internal/orders"
	"github.com/swara2402/Trenzy/pkg/models"
)

// OrderStore implements orders.Repository on the orders collection.
type OrderStore struct {
	collection *mongo.Collection
	nowFunc    func() time.Time
}

func NewOrderStore() *OrderStore {
	return &OrderStore{
		collection: GetCollection("orders"),
		nowFunc:    time.Now,
	}
}

func (s *OrderStore) Insert(ctx context.Context, order *models.Order) (*models.Order, error) {
	stored := *order
	stored.ID = bson.NewObjectID()
	now := s.nowFunc()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	if _, err := s.collection.InsertOne(ctx, &stored); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Two unique indexes can fire here; the index name in the server
			// message tells them apart.
			if strings.Contains(err.Error(), IndexIdempotencyKeyUnique) {
				return nil, orders.ErrDuplicateIdempotencyKey
			}
			return nil, orders.ErrDuplicateOrderID
		}
		return nil, fmt.Errorf("insert order %s: %w", stored.OrderID, err)
	}
	return &stored, nil
}

func (s *OrderStore) FindByUser(ctx context.Context, userID string) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find orders for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var result []models.Order
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("decode orders for user %s: %w", userID, err)
	}
	return result, nil
}

func (s *OrderStore) FindByOrderID(ctx context.Context, orderID string) (*models.Order, error) {
	return s.findOne(ctx, bson.M{"order_id": orderID})
}

func (s *OrderStore) FindByIdempotencyKey(ctx context.Context, key string) (*models.Order, error) {
	return s.findOne(ctx, bson.M{"idempotency_key": key})
}

func (s *OrderStore) findOne(ctx context.Context, filter bson.M) (*models.Order, error) {
	var order models.Order
	err := s.collection.FindOne(ctx, filter).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}
	return &order, nil
}

// UpdateStatus applies the transition only if the order is still in the
// status the caller read. A zero match count means either the order vanished
// or another writer got there first.
func (s *OrderStore) UpdateStatus(ctx context.Context, orderID string, from, to models.OrderStatus) error {
	filter := bson.M{"order_id": orderID, "status": from}
	update := bson.M{"$set": bson.M{
		"status":     to,
		"updated_at": s.nowFunc(),
	}}

	result, err := s.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("update order %s status: %w", orderID, err)
	}
	if result.MatchedCount == 0 {
		return orders.ErrStatusConflict
	}
	return nil
}
