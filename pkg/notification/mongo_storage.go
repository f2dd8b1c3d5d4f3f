package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/notifier/pkg/event"
)

// MongoStorage is the MongoDB implementation of the Storage interface.
//
// Mutations rely on Mongo's per-document atomicity: MarkRead is a
// FindOneAndUpdate filtered on read=false, and MarkAllRead is one UpdateMany
// whose modified count is exactly the number of documents this call
// transitioned.
type MongoStorage struct {
	coll *mongo.Collection
	now  func() time.Time
}

// MongoStorageOption configures a MongoStorage.
type MongoStorageOption func(*MongoStorage)

// WithMongoClock overrides the time source, for deterministic tests.
func WithMongoClock(now func() time.Time) MongoStorageOption {
	return func(s *MongoStorage) {
		if now != nil {
			s.now = now
		}
	}
}

// NewMongoStorage creates a Mongo notification state store using the
// "notifications" collection of the given database.
func NewMongoStorage(db *mongo.Database, opts ...MongoStorageOption) *MongoStorage {
	s := &MongoStorage{
		coll: db.Collection("notifications"),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type mongoNotification struct {
	ID          string     `bson:"_id"`
	UserID      string     `bson:"user_id"`
	EventID     *string    `bson:"event_id,omitempty"`
	Channel     string     `bson:"channel"`
	EventType   string     `bson:"event_type,omitempty"`
	Title       string     `bson:"title,omitempty"`
	Description string     `bson:"description,omitempty"`
	Content     string     `bson:"content"`
	Read        bool       `bson:"read"`
	ReadAt      *time.Time `bson:"read_at,omitempty"`
	CreatedAt   time.Time  `bson:"created_at"`
}

func (d mongoNotification) toDomain() Notification {
	return Notification{
		ID:          d.ID,
		UserID:      d.UserID,
		EventID:     d.EventID,
		Channel:     Channel(d.Channel),
		EventType:   event.Type(d.EventType),
		Title:       d.Title,
		Description: d.Description,
		Content:     d.Content,
		Read:        d.Read,
		ReadAt:      d.ReadAt,
		CreatedAt:   d.CreatedAt,
	}
}

func (s *MongoStorage) Create(ctx context.Context, draft Draft) (Notification, error) {
	if err := draft.Validate(); err != nil {
		return Notification{}, err
	}

	doc := mongoNotification{
		ID:          uuid.New().String(),
		UserID:      draft.UserID,
		EventID:     draft.EventID,
		Channel:     string(draft.Channel),
		EventType:   string(draft.EventType),
		Title:       draft.Title,
		Description: draft.Description,
		Content:     draft.Content,
		Read:        false,
		CreatedAt:   s.now(),
	}

	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return Notification{}, fmt.Errorf("create notification: %w", err)
	}
	return doc.toDomain(), nil
}

func (s *MongoStorage) Get(ctx context.Context, id string) (*Notification, error) {
	var doc mongoNotification
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("get notification: %w", err)
	}
	n := doc.toDomain()
	return &n, nil
}

func (s *MongoStorage) List(ctx context.Context, userID string) ([]Notification, error) {
	cur, err := s.coll.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer cur.Close(ctx)

	var out []Notification
	for cur.Next(ctx) {
		var doc mongoNotification
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode notification: %w", err)
		}
		out = append(out, doc.toDomain())
	}
	return out, cur.Err()
}

func (s *MongoStorage) MarkRead(ctx context.Context, id string) (Notification, error) {
	var doc mongoNotification
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "read": false},
		bson.M{"$set": bson.M{"read": true, "read_at": s.now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err == nil {
		return doc.toDomain(), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return Notification{}, fmt.Errorf("mark notification read: %w", err)
	}

	// Either already read (idempotent no-op success) or missing.
	existing, getErr := s.Get(ctx, id)
	if getErr != nil {
		return Notification{}, getErr
	}
	return *existing, nil
}

func (s *MongoStorage) MarkAllRead(ctx context.Context, userID string) (int, error) {
	res, err := s.coll.UpdateMany(ctx,
		bson.M{"user_id": userID, "read": false},
		bson.M{"$set": bson.M{"read": true, "read_at": s.now()}},
	)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return int(res.ModifiedCount), nil
}

func (s *MongoStorage) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *MongoStorage) CountUnread(ctx context.Context, userID string) (int, error) {
	count, err := s.coll.CountDocuments(ctx, bson.M{"user_id": userID, "read": false})
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return int(count), nil
}

func (s *MongoStorage) CountTotal(ctx context.Context, userID string) (int, error) {
	count, err := s.coll.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("count notifications: %w", err)
	}
	return int(count), nil
}
