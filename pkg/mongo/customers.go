package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/swara2402/Trenzy/pkg/models"
)

var ErrEmailTaken = errors.New("email is already registered")

type CustomerStore struct {
	collection *mongo.Collection
}

func NewCustomerStore() *CustomerStore {
	return &CustomerStore{collection: GetCollection("customers")}
}

func (s *CustomerStore) Create(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	customer.ID = bson.NewObjectID()
	customer.SetTimestamps()

	if _, err := s.collection.InsertOne(ctx, customer); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("insert customer: %w", err)
	}
	return customer, nil
}

// FindByEmail returns (nil, nil) for an unknown email.
func (s *CustomerStore) FindByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var customer models.Customer
	err := s.collection.FindOne(ctx, bson.M{"email": email}).Decode(&customer)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find customer by email: %w", err)
	}
	return &customer, nil
}
