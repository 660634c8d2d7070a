package device

import (
	"context"
	"fmt"

	deviceRepo "gamecentre/database/repository/device"
	"gamecentre/models"

	"go.uber.org/zap"
)

// Registry owns the fixed pool of devices and their lock state. Lock state is
// mutated only through the session engine; everything else here is read-side.
type Registry struct {
	Repo   deviceRepo.DeviceRepository
	Logger *zap.Logger
}

// NewRegistry returns a Registry backed by the given repository.
func NewRegistry(repo deviceRepo.DeviceRepository, logger *zap.Logger) *Registry {
	return &Registry{Repo: repo, Logger: logger}
}

// Provision upserts the configured pool, e.g. CONSOLE-01..CONSOLE-05. Called
// once at startup; the core never creates or destroys devices afterwards.
func (r *Registry) Provision(ctx context.Context, size int, idPrefix, namePrefix string) error {
	devices := make([]models.Device, 0, size)
	for i := 1; i <= size; i++ {
		devices = append(devices, models.Device{
			DeviceID: fmt.Sprintf("%s-%02d", idPrefix, i),
			Name:     fmt.Sprintf("%s %d", namePrefix, i),
		})
	}
	if err := r.Repo.EnsurePool(ctx, devices); err != nil {
		return err
	}
	r.Logger.Info("Device pool provisioned", zap.Int("size", size))
	return nil
}

// Resolve looks a device up by its stable identifier.
func (r *Registry) Resolve(ctx context.Context, deviceID string) (*models.Device, error) {
	return r.Repo.GetByDeviceID(ctx, deviceID)
}

// List returns the whole pool.
func (r *Registry) List(ctx context.Context) ([]models.Device, error) {
	return r.Repo.List(ctx)
}

// AvailableCount returns pool size minus unlocked devices. Display only; the
// unlock CAS is the arbiter of admission, not this number.
func (r *Registry) AvailableCount(ctx context.Context) (int64, error) {
	return r.Repo.CountByStatus(ctx, models.DeviceLocked)
}

// Unlock claims a device for a session. Fails with ErrAlreadyHeld if another
// session holds it.
func (r *Registry) Unlock(ctx context.Context, id, sessionID string) error {
	return r.Repo.Unlock(ctx, id, sessionID)
}

// Lock releases a session's claim and relocks the device.
func (r *Registry) Lock(ctx context.Context, id, sessionID string) error {
	return r.Repo.Lock(ctx, id, sessionID)
}
