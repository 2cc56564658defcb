package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/adminhub/access-control/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}

// EnsureIndexes creates the unique indexes the repositories rely on for
// duplicate detection.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	roleIdx := mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true).SetCollation(&options.Collation{Locale: "en", Strength: 2}),
	}
	if _, err := db.Collection(rolesCollection).Indexes().CreateOne(ctx, roleIdx); err != nil {
		return fmt.Errorf("roles index: %w", err)
	}

	userIdx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "role_id", Value: 1}}},
	}
	if _, err := db.Collection(usersCollection).Indexes().CreateMany(ctx, userIdx); err != nil {
		return fmt.Errorf("users index: %w", err)
	}
	return nil
}

// SeedIfEmpty inserts the default catalog and accounts into empty
// collections. Populated collections are left alone.
func SeedIfEmpty(ctx context.Context, db *mongo.Database, roles []*domain.Role, users []*domain.User) error {
	roleColl := db.Collection(rolesCollection)
	n, err := roleColl.CountDocuments(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("count roles: %w", err)
	}
	if n == 0 && len(roles) > 0 {
		docs := make([]interface{}, 0, len(roles))
		for _, r := range roles {
			docs = append(docs, toRoleDoc(r))
		}
		if _, err := roleColl.InsertMany(ctx, docs); err != nil {
			return fmt.Errorf("seed roles: %w", err)
		}
	}

	userColl := db.Collection(usersCollection)
	n, err = userColl.CountDocuments(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if n == 0 && len(users) > 0 {
		docs := make([]interface{}, 0, len(users))
		for _, u := range users {
			docs = append(docs, toUserDoc(u))
		}
		if _, err := userColl.InsertMany(ctx, docs); err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
	}
	return nil
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
