package sessionRepo

import (
	"context"
	"errors"
	"time"

	"gamecentre/database"
	deviceRepo "gamecentre/database/repository/device"
	"gamecentre/models"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrNotFound is returned when no session matches the given id.
	ErrNotFound = errors.New("session not found")
	// ErrStatusConflict is returned when a conditional update finds the
	// session in a different lifecycle state than expected. Exactly one of
	// two concurrent transitions on the same session sees this error.
	ErrStatusConflict = errors.New("session status conflict")
)

// SessionRepository stores sessions and performs their lifecycle transitions.
//
// UpdateIfStatus is the single-winner primitive: the update applies only if
// the session is still in the expected state. Activate and Complete span the
// session and its device and run inside a MongoDB transaction so a device is
// never left unlocked without an active session of record, or vice versa.
type SessionRepository interface {
	Create(ctx context.Context, session models.Session) (string, error)
	GetByID(ctx context.Context, id string) (*models.Session, error)
	ListByStatus(ctx context.Context, status models.SessionStatus) ([]models.Session, error)
	UpdateIfStatus(ctx context.Context, id string, expect models.SessionStatus, fields map[string]interface{}) error
	Activate(ctx context.Context, sessionID, deviceID string, start, end time.Time) error
	Complete(ctx context.Context, sessionID, deviceID string) error
}

type mongoSessionRepo struct {
	coll    *mongo.Collection
	devices deviceRepo.DeviceRepository
}

// NewMongoSessionRepo returns a new SessionRepository instance using MongoDB.
// The device repository participates in the two-entity transactions.
func NewMongoSessionRepo(devices deviceRepo.DeviceRepository) SessionRepository {
	return &mongoSessionRepo{
		coll:    database.DB().Collection("sessions"),
		devices: devices,
	}
}
