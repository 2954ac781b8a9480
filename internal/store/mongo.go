package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/m3rciful/groupbot/core/logger"
)

const (
	usersCollection  = "users"
	groupsCollection = "groups"
)

// Mongo keeps users and groups in two collections of one database.
type Mongo struct {
	users  *mongo.Collection
	groups *mongo.Collection
}

// NewMongo binds the store to db.
func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{
		users:  db.Collection(usersCollection),
		groups: db.Collection(groupsCollection),
	}
}

// EnsureIndexes creates the unique key indexes. It is idempotent.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	indexes := []struct {
		coll *mongo.Collection
		key  string
	}{
		{m.users, "user_id"},
		{m.groups, "group_id"},
	}
	for _, idx := range indexes {
		model := mongo.IndexModel{
			Keys:    bson.D{{Key: idx.key, Value: 1}},
			Options: options.Index().SetUnique(true),
		}
		if _, err := idx.coll.Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create %s index on %s: %w", idx.key, idx.coll.Name(), err)
		}
	}
	logger.Store.Info("indexes ensured",
		slog.String("event", "store.indexes"),
		slog.String("status", "ok"),
		slog.String("driver", "mongo"),
	)
	return nil
}

// UpsertUser implements UserStore.
func (m *Mongo) UpsertUser(ctx context.Context, u User) error {
	update := bson.M{
		"$set": bson.M{
			"username":   u.Username,
			"first_name": u.FirstName,
			"last_name":  u.LastName,
			"chat_type":  u.ChatType,
			"updated_at": u.UpdatedAt,
		},
		"$setOnInsert": bson.M{"joined_at": u.JoinedAt},
	}
	_, err := m.users.UpdateOne(ctx, bson.M{"user_id": u.UserID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert user %d: %w", u.UserID, err)
	}
	return nil
}

// UpsertGroup implements GroupStore.
func (m *Mongo) UpsertGroup(ctx context.Context, groupID int64, name string, resetChatOn bool) error {
	set := bson.M{"group_name": name}
	update := bson.M{"$set": set}
	if resetChatOn {
		set["chat_on"] = true
	} else {
		update["$setOnInsert"] = bson.M{"chat_on": true}
	}
	_, err := m.groups.UpdateOne(ctx, bson.M{"group_id": groupID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert group %d: %w", groupID, err)
	}
	return nil
}

// groupDoc tolerates documents written without chat_on, which count as on.
type groupDoc struct {
	GroupID   int64  `bson:"group_id"`
	GroupName string `bson:"group_name"`
	ChatOn    *bool  `bson:"chat_on"`
}

// GetGroup implements GroupStore.
func (m *Mongo) GetGroup(ctx context.Context, groupID int64) (Group, error) {
	var doc groupDoc
	err := m.groups.FindOne(ctx, bson.M{"group_id": groupID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Group{}, ErrNotFound
	}
	if err != nil {
		return Group{}, fmt.Errorf("get group %d: %w", groupID, err)
	}
	g := Group{GroupID: doc.GroupID, GroupName: doc.GroupName, ChatOn: true}
	if doc.ChatOn != nil {
		g.ChatOn = *doc.ChatOn
	}
	return g, nil
}

// SetChatOn implements GroupStore without upserting.
func (m *Mongo) SetChatOn(ctx context.Context, groupID int64, on bool) error {
	res, err := m.groups.UpdateOne(ctx, bson.M{"group_id": groupID}, bson.M{"$set": bson.M{"chat_on": on}})
	if err != nil {
		return fmt.Errorf("set chat_on for group %d: %w", groupID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
