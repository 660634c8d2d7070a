package customerRepo

import (
	"context"

	"gamecentre/database"
	"gamecentre/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// CustomerRepository stores immutable customer identity records.
type CustomerRepository interface {
	Create(ctx context.Context, customer models.Customer) (string, error)
	GetByID(ctx context.Context, id string) (*models.Customer, error)
}

type mongoCustomerRepo struct {
	coll *mongo.Collection
}

// NewMongoCustomerRepo returns a new CustomerRepository instance using MongoDB.
func NewMongoCustomerRepo() CustomerRepository {
	return &mongoCustomerRepo{
		coll: database.DB().Collection("customers"),
	}
}
