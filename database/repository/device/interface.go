package deviceRepo

import (
	"context"
	"errors"

	"gamecentre/database"
	"gamecentre/models"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrNotFound is returned when no device matches the given id.
	ErrNotFound = errors.New("device not found")
	// ErrAlreadyHeld is returned when an unlock targets a device that is
	// already held by a different session.
	ErrAlreadyHeld = errors.New("device already held by another session")
)

// DeviceRepository stores the fixed pool of physical devices and their lock
// state. Unlock and Lock are conditional single-document updates so that two
// sessions racing for the same device resolve to exactly one holder.
type DeviceRepository interface {
	EnsurePool(ctx context.Context, devices []models.Device) error
	GetByID(ctx context.Context, id string) (*models.Device, error)
	GetByDeviceID(ctx context.Context, deviceID string) (*models.Device, error)
	List(ctx context.Context) ([]models.Device, error)
	CountByStatus(ctx context.Context, status models.DeviceStatus) (int64, error)
	Unlock(ctx context.Context, id, sessionID string) error
	Lock(ctx context.Context, id, sessionID string) error
}

type mongoDeviceRepo struct {
	coll *mongo.Collection
}

// NewMongoDeviceRepo returns a new DeviceRepository instance using MongoDB.
func NewMongoDeviceRepo() DeviceRepository {
	return &mongoDeviceRepo{
		coll: database.DB().Collection("devices"),
	}
}
