package sessionRepo

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

// Create inserts a new session and returns its ID.
func (r *mongoSessionRepo) Create(ctx context.Context, session models.Session) (string, error) {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	session.CreatedAt = time.Now()

	_, err := r.coll.InsertOne(ctx, session)
	if err != nil {
		return "", err
	}
	return session.ID, nil
}

// GetByID returns a session by its ID.
func (r *mongoSessionRepo) GetByID(ctx context.Context, id string) (*models.Session, error) {
	var session models.Session
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&session)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// ListByStatus fetches all sessions in the given lifecycle state, newest first.
func (r *mongoSessionRepo) ListByStatus(ctx context.Context, status models.SessionStatus) ([]models.Session, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.coll.Find(ctx, bson.M{"status": status}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sessions []models.Session
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// UpdateIfStatus applies fields only if the session is still in the expected
// lifecycle state. Returns ErrStatusConflict when another transition won, and
// ErrNotFound when the session does not exist at all.
func (r *mongoSessionRepo) UpdateIfStatus(ctx context.Context, id string, expect models.SessionStatus, fields map[string]interface{}) error {
	filter := bson.M{"id": id, "status": expect}
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return fmt.Errorf("failed to update session %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		if exists, err := r.exists(ctx, id); err != nil {
			return err
		} else if !exists {
			return ErrNotFound
		}
		return ErrStatusConflict
	}
	return nil
}

func (r *mongoSessionRepo) exists(ctx context.Context, id string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"id": id})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
