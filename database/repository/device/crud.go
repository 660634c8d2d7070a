package deviceRepo

import (
	"context"
	"fmt"
	"time"

	"gamecentre/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsurePool upserts the configured device pool keyed by deviceId. Existing
// devices keep their current lock state; only the display name is refreshed.
func (r *mongoDeviceRepo) EnsurePool(ctx context.Context, devices []models.Device) error {
	for _, d := range devices {
		if d.ID == "" {
			d.ID = uuid.New().String()
		}
		filter := bson.M{"deviceId": d.DeviceID}
		update := bson.M{
			"$set": bson.M{"name": d.Name},
			"$setOnInsert": bson.M{
				"id":        d.ID,
				"deviceId":  d.DeviceID,
				"status":    models.DeviceLocked,
				"createdAt": time.Now(),
			},
		}
		opts := options.Update().SetUpsert(true)
		if _, err := r.coll.UpdateOne(ctx, filter, update, opts); err != nil {
			return fmt.Errorf("failed to provision device %s: %w", d.DeviceID, err)
		}
	}
	return nil
}

// GetByID returns a device by its opaque ID.
func (r *mongoDeviceRepo) GetByID(ctx context.Context, id string) (*models.Device, error) {
	var device models.Device
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&device)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &device, nil
}

// GetByDeviceID returns a device by its stable identifier, e.g. "CONSOLE-01".
func (r *mongoDeviceRepo) GetByDeviceID(ctx context.Context, deviceID string) (*models.Device, error) {
	var device models.Device
	err := r.coll.FindOne(ctx, bson.M{"deviceId": deviceID}).Decode(&device)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &device, nil
}

// List returns every device in the pool ordered by stable identifier.
func (r *mongoDeviceRepo) List(ctx context.Context) ([]models.Device, error) {
	opts := options.Find().SetSort(bson.M{"deviceId": 1})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var devices []models.Device
	if err := cursor.All(ctx, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

// CountByStatus counts devices in the given lock state.
func (r *mongoDeviceRepo) CountByStatus(ctx context.Context, status models.DeviceStatus) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"status": status})
}

// Unlock transitions a locked device to unlocked and records the holding
// session. The filter on the locked state makes the claim exclusive: if the
// device is already unlocked for the same session the call is a no-op, and if
// a different session holds it the call fails with ErrAlreadyHeld.
func (r *mongoDeviceRepo) Unlock(ctx context.Context, id, sessionID string) error {
	filter := bson.M{"id": id, "status": models.DeviceLocked}
	update := bson.M{"$set": bson.M{
		"status":           models.DeviceUnlocked,
		"currentSessionId": sessionID,
	}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to unlock device %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		device, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if device.CurrentSessionID == sessionID {
			return nil
		}
		return ErrAlreadyHeld
	}
	return nil
}

// Lock relocks a device held by the given session and clears the session
// reference. Relocking a device the session no longer holds is a no-op, which
// keeps end-of-session retries from clobbering a successor's claim.
func (r *mongoDeviceRepo) Lock(ctx context.Context, id, sessionID string) error {
	filter := bson.M{"id": id, "currentSessionId": sessionID}
	update := bson.M{
		"$set":   bson.M{"status": models.DeviceLocked},
		"$unset": bson.M{"currentSessionId": ""},
	}
	if _, err := r.coll.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to lock device %s: %w", id, err)
	}
	return nil
}
