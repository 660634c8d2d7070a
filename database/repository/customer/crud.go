package customerRepo

import (
	"context"
	"time"

	"gamecentre/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when no customer matches the given id.
var ErrNotFound = mongo.ErrNoDocuments

// Create inserts a new customer record and returns its ID.
func (r *mongoCustomerRepo) Create(ctx context.Context, customer models.Customer) (string, error) {
	if customer.ID == "" {
		customer.ID = uuid.New().String()
	}
	customer.CreatedAt = time.Now()

	_, err := r.coll.InsertOne(ctx, customer)
	if err != nil {
		return "", err
	}
	return customer.ID, nil
}

// GetByID returns a customer by its ID.
func (r *mongoCustomerRepo) GetByID(ctx context.Context, id string) (*models.Customer, error) {
	var customer models.Customer
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&customer)
	if err != nil {
		return nil, err
	}
	return &customer, nil
}
