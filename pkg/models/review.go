package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Review is a catalog read model shown on the product detail page.
type Review struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductID string        `bson:"product_id" json:"product_id"`
	UserName  string        `bson:"user_name" json:"user_name"`
	Rating    int           `bson:"rating" json:"rating"`
	Comment   string        `bson:"comment" json:"comment"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
}
