package notifications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoStorage is a MongoDB-backed implementation of the Storage interface.
// Notifications live in one collection keyed by _id, with a secondary index
// on user_id for list queries.
type MongoStorage struct {
	collection *mongo.Collection
}

// NewMongoStorage creates a Mongo-backed notification storage on the given
// database. The collection name is fixed to "notifications".
func NewMongoStorage(db *mongo.Database) *MongoStorage {
	return &MongoStorage{collection: db.Collection("notifications")}
}

// EnsureIndexes creates the user_id index used by ListByUser. Call once
// during startup.
func (s *MongoStorage) EnsureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "received_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create notification indexes: %w", err)
	}
	return nil
}

func (s *MongoStorage) Create(ctx context.Context, notif Notification) error {
	if notif.ID == "" {
		return errors.New("notification ID is required")
	}
	if notif.UserID == "" {
		return errors.New("user ID is required")
	}
	if notif.ReceivedAt.IsZero() {
		notif.ReceivedAt = time.Now()
	}

	if _, err := s.collection.InsertOne(ctx, notif); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (s *MongoStorage) Get(ctx context.Context, id string) (*Notification, error) {
	var notif Notification
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&notif)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("find notification: %w", err)
	}
	return &notif, nil
}

func (s *MongoStorage) ListByUser(ctx context.Context, userID string) ([]Notification, error) {
	cursor, err := s.collection.Find(ctx,
		bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "received_at", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer cursor.Close(ctx)

	list := make([]Notification, 0)
	if err := cursor.All(ctx, &list); err != nil {
		return nil, fmt.Errorf("decode notifications: %w", err)
	}
	return list, nil
}

// SetReadAt performs the read-timestamp mutation as a single findAndModify,
// so concurrent mark operations on one row never interleave a stale read
// with a write.
func (s *MongoStorage) SetReadAt(ctx context.Context, id string, readAt *time.Time) (*Notification, error) {
	var update bson.M
	if readAt != nil {
		update = bson.M{"$set": bson.M{"read_at": *readAt}}
	} else {
		update = bson.M{"$unset": bson.M{"read_at": ""}}
	}

	var notif Notification
	err := s.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&notif)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("update notification read state: %w", err)
	}
	return &notif, nil
}

func (s *MongoStorage) Delete(ctx context.Context, id string) error {
	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
