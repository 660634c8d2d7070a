package sessionRepo

import (
	"context"
	"fmt"
	"time"

	"gamecentre/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Activate flips an approved session to active and unlocks its device in one
// transaction. The session update clears the one-time-code fields and stamps
// the start and end times; the device unlock fails with ErrAlreadyHeld if a
// different session got there first, rolling back the session update.
func (r *mongoSessionRepo) Activate(ctx context.Context, sessionID, deviceID string, start, end time.Time) error {
	txnFn := func(sc mongo.SessionContext) error {
		filter := bson.M{"id": sessionID, "status": models.SessionApproved}
		update := bson.M{"$set": bson.M{
			"status":      models.SessionActive,
			"startTime":   start,
			"endTime":     end,
			"otp":         "",
			"otpAttempts": 0,
		}, "$unset": bson.M{"otpExpiresAt": ""}}

		res, err := r.coll.UpdateOne(sc, filter, update)
		if err != nil {
			return fmt.Errorf("session activate update failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrStatusConflict
		}

		return r.devices.Unlock(sc, deviceID, sessionID)
	}

	return r.withTransaction(ctx, txnFn)
}

// Complete flips an active session to completed and relocks its device in one
// transaction. A session that already completed yields ErrStatusConflict and
// no device side effect, which makes the caller's retry a harmless no-op.
func (r *mongoSessionRepo) Complete(ctx context.Context, sessionID, deviceID string) error {
	txnFn := func(sc mongo.SessionContext) error {
		filter := bson.M{"id": sessionID, "status": models.SessionActive}
		update := bson.M{"$set": bson.M{"status": models.SessionCompleted}}

		res, err := r.coll.UpdateOne(sc, filter, update)
		if err != nil {
			return fmt.Errorf("session complete update failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrStatusConflict
		}

		return r.devices.Lock(sc, deviceID, sessionID)
	}

	return r.withTransaction(ctx, txnFn)
}

func (r *mongoSessionRepo) withTransaction(ctx context.Context, txnFn func(mongo.SessionContext) error) error {
	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	})
}
