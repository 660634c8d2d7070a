package models

import "time"

// DeviceStatus is the lock state of a physical unit.
type DeviceStatus string

const (
	DeviceLocked   DeviceStatus = "locked"
	DeviceUnlocked DeviceStatus = "unlocked"
)

// Device represents one physical console or PC in the pool. The pool is
// fixed-size and pre-provisioned; the core never creates or destroys devices
// after startup. CurrentSessionID is set if and only if the device is unlocked
// and exactly one active session holds it.
type Device struct {
	ID               string       `bson:"id" json:"id"`
	DeviceID         string       `bson:"deviceId" json:"deviceId"`
	Name             string       `bson:"name" json:"name"`
	Status           DeviceStatus `bson:"status" json:"status"`
	CurrentSessionID string       `bson:"currentSessionId,omitempty" json:"currentSessionId,omitempty"`
	CreatedAt        time.Time    `bson:"createdAt" json:"createdAt"`
}
