package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ChangeEvent is one insert/update/replace/delete observed on a collection.
type ChangeEvent struct {
	Operation  string
	DocumentID interface{}
	FullDoc    bson.M
}

// WatchCollection opens a change stream on the named collection and invokes
// onChange for every event until ctx is cancelled. The presentation layer uses
// this to refresh dashboards; nothing in the core depends on it for
// correctness.
func WatchCollection(ctx context.Context, collection string, onChange func(ChangeEvent)) error {
	coll := DB().Collection(collection)

	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	stream, err := coll.Watch(ctx, bson.A{}, opts)
	if err != nil {
		return fmt.Errorf("failed to open change stream on %s: %w", collection, err)
	}
	defer stream.Close(ctx)

	for stream.Next(ctx) {
		var raw struct {
			OperationType string `bson:"operationType"`
			DocumentKey   bson.M `bson:"documentKey"`
			FullDocument  bson.M `bson:"fullDocument"`
		}
		if err := stream.Decode(&raw); err != nil {
			return fmt.Errorf("failed to decode change event on %s: %w", collection, err)
		}
		onChange(ChangeEvent{
			Operation:  raw.OperationType,
			DocumentID: raw.DocumentKey["_id"],
			FullDoc:    raw.FullDocument,
		})
	}
	return stream.Err()
}
