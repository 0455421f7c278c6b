package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultTimeout = 10 * time.Second

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. The client is created
// once at startup and shared across requests; repositories never reconnect.
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

// EnsureIndexes creates the unique indexes every repository relies on. The
// invoice_number index in particular is the backstop for the number
// allocator's optimistic retry loop.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	for col, models := range map[string][]mongo.IndexModel{
		collectionUsers: {
			uniqueIndex("username"),
			uniqueIndex("email"),
		},
		collectionClients: {
			uniqueIndex("client_number"),
		},
		collectionInvoices: {
			uniqueIndex("invoice_number"),
		},
	} {
		if _, err := db.Collection(col).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create %s indexes: %w", col, err)
		}
	}
	return nil
}

func uniqueIndex(field string) mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true),
	}
}

// duplicateKeyField extracts which indexed field a duplicate-key error hit,
// so callers can map it to a field-specific domain error. Index names follow
// the driver convention "<field>_1".
func duplicateKeyField(err error) string {
	msg := err.Error()
	for _, field := range []string{"username", "email", "client_number", "invoice_number"} {
		if strings.Contains(msg, field+"_1") {
			return field
		}
	}
	return ""
}
