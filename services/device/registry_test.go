package device

import (
	"context"
	"sync"
	"testing"

	deviceRepo "gamecentre/database/repository/device"
	"gamecentre/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type poolRepo struct {
	mu      sync.Mutex
	devices []*models.Device
}

func (p *poolRepo) EnsurePool(ctx context.Context, devices []models.Device) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, d := range devices {
		exists := false
		for _, have := range p.devices {
			if have.DeviceID == d.DeviceID {
				exists = true
				break
			}
		}
		if exists {
			continue
		}
		d.ID = "id-" + d.DeviceID
		d.Status = models.DeviceLocked
		copied := d
		p.devices = append(p.devices, &copied)
	}
	return nil
}

func (p *poolRepo) GetByID(ctx context.Context, id string) (*models.Device, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, d := range p.devices {
		if d.ID == id {
			copied := *d
			return &copied, nil
		}
	}
	return nil, deviceRepo.ErrNotFound
}

func (p *poolRepo) GetByDeviceID(ctx context.Context, deviceID string) (*models.Device, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, d := range p.devices {
		if d.DeviceID == deviceID {
			copied := *d
			return &copied, nil
		}
	}
	return nil, deviceRepo.ErrNotFound
}

func (p *poolRepo) List(ctx context.Context) ([]models.Device, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.Device, 0, len(p.devices))
	for _, d := range p.devices {
		out = append(out, *d)
	}
	return out, nil
}

func (p *poolRepo) CountByStatus(ctx context.Context, status models.DeviceStatus) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var n int64
	for _, d := range p.devices {
		if d.Status == status {
			n++
		}
	}
	return n, nil
}

func (p *poolRepo) Unlock(ctx context.Context, id, sessionID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, d := range p.devices {
		if d.ID != id {
			continue
		}
		if d.Status == models.DeviceLocked {
			d.Status = models.DeviceUnlocked
			d.CurrentSessionID = sessionID
			return nil
		}
		if d.CurrentSessionID == sessionID {
			return nil
		}
		return deviceRepo.ErrAlreadyHeld
	}
	return deviceRepo.ErrNotFound
}

func (p *poolRepo) Lock(ctx context.Context, id, sessionID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, d := range p.devices {
		if d.ID != id {
			continue
		}
		if d.CurrentSessionID == sessionID {
			d.Status = models.DeviceLocked
			d.CurrentSessionID = ""
		}
		return nil
	}
	return deviceRepo.ErrNotFound
}

func newTestRegistry(t *testing.T, size int) (*Registry, *poolRepo) {
	t.Helper()
	repo := &poolRepo{}
	registry := NewRegistry(repo, zap.NewNop())
	require.NoError(t, registry.Provision(context.Background(), size, "CONSOLE", "Console"))
	return registry, repo
}

func TestProvisionNaming(t *testing.T) {
	registry, _ := newTestRegistry(t, 5)

	devices, err := registry.List(context.Background())
	require.NoError(t, err)
	require.Len(t, devices, 5)

	want := map[string]string{
		"CONSOLE-01": "Console 1",
		"CONSOLE-02": "Console 2",
		"CONSOLE-03": "Console 3",
		"CONSOLE-04": "Console 4",
		"CONSOLE-05": "Console 5",
	}
	for _, d := range devices {
		name, ok := want[d.DeviceID]
		require.True(t, ok, "unexpected device id %s", d.DeviceID)
		assert.Equal(t, name, d.Name)
		assert.Equal(t, models.DeviceLocked, d.Status, "devices start locked")
		delete(want, d.DeviceID)
	}
	assert.Empty(t, want)
}

func TestProvisionIsIdempotent(t *testing.T) {
	registry, _ := newTestRegistry(t, 3)

	require.NoError(t, registry.Provision(context.Background(), 3, "CONSOLE", "Console"))

	devices, err := registry.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, devices, 3)
}

func TestAvailableCountTracksLockState(t *testing.T) {
	registry, _ := newTestRegistry(t, 3)
	ctx := context.Background()

	n, err := registry.AvailableCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	dev, err := registry.Resolve(ctx, "CONSOLE-01")
	require.NoError(t, err)
	require.NoError(t, registry.Unlock(ctx, dev.ID, "sess-1"))

	n, err = registry.AvailableCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, registry.Lock(ctx, dev.ID, "sess-1"))
	n, err = registry.AvailableCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestUnlockExclusivity(t *testing.T) {
	registry, _ := newTestRegistry(t, 1)
	ctx := context.Background()

	dev, err := registry.Resolve(ctx, "CONSOLE-01")
	require.NoError(t, err)

	require.NoError(t, registry.Unlock(ctx, dev.ID, "sess-1"))

	// Same holder retries cleanly, a different session is refused.
	assert.NoError(t, registry.Unlock(ctx, dev.ID, "sess-1"))
	assert.ErrorIs(t, registry.Unlock(ctx, dev.ID, "sess-2"), deviceRepo.ErrAlreadyHeld)

	held, err := registry.Resolve(ctx, "CONSOLE-01")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", held.CurrentSessionID)
}

func TestLockOnlyByHolder(t *testing.T) {
	registry, _ := newTestRegistry(t, 1)
	ctx := context.Background()

	dev, err := registry.Resolve(ctx, "CONSOLE-01")
	require.NoError(t, err)
	require.NoError(t, registry.Unlock(ctx, dev.ID, "sess-1"))

	// A non-holder lock is a no-op, not an error.
	require.NoError(t, registry.Lock(ctx, dev.ID, "sess-2"))
	still, err := registry.Resolve(ctx, "CONSOLE-01")
	require.NoError(t, err)
	assert.Equal(t, models.DeviceUnlocked, still.Status)
	assert.Equal(t, "sess-1", still.CurrentSessionID)

	require.NoError(t, registry.Lock(ctx, dev.ID, "sess-1"))
	relocked, err := registry.Resolve(ctx, "CONSOLE-01")
	require.NoError(t, err)
	assert.Equal(t, models.DeviceLocked, relocked.Status)
	assert.Empty(t, relocked.CurrentSessionID)
}

func TestResolveUnknownDevice(t *testing.T) {
	registry, _ := newTestRegistry(t, 1)

	_, err := registry.Resolve(context.Background(), "CONSOLE-99")
	assert.ErrorIs(t, err, deviceRepo.ErrNotFound)
}
