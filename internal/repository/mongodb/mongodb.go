// Package mongodb implements the domain repositories on MongoDB.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/msomdec/taskflow/internal/domain"
)

const (
	userCollection = "users"
	taskCollection = "tasks"

	// Bounded window for server selection so requests fail fast instead of
	// queuing while the backend is unreachable.
	serverSelectionTimeout = 5 * time.Second
)

// DB wraps a Mongo database handle and exposes the typed repositories.
type DB struct {
	client *mongo.Client
	db     *mongo.Database
}

// New creates a client for the given connection string. The driver connects
// lazily, so this succeeds even when the server is down; use Ping to probe
// connectivity.
func New(uri, dbName string) (*DB, error) {
	client, err := mongo.Connect(options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(serverSelectionTimeout))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	return &DB{client: client, db: client.Database(dbName)}, nil
}

// Ping probes connectivity to the primary.
func (d *DB) Ping(ctx context.Context) error {
	return d.client.Ping(ctx, readpref.Primary())
}

// EnsureIndexes creates the indexes the repositories rely on. Idempotent.
func (d *DB) EnsureIndexes(ctx context.Context) error {
	_, err := d.db.Collection(userCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create user email index: %w", err)
	}

	_, err = d.db.Collection(taskCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create task index: %w", err)
	}
	return nil
}

// Close disconnects the underlying client.
func (d *DB) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

// Users returns the Mongo-backed user repository.
func (d *DB) Users() *UserRepository {
	return &UserRepository{coll: d.db.Collection(userCollection)}
}

// Tasks returns the Mongo-backed task repository.
func (d *DB) Tasks() *TaskRepository {
	return &TaskRepository{coll: d.db.Collection(taskCollection)}
}

// isUnavailable reports whether err indicates the backend is unreachable
// rather than a data-level failure. Server selection timeouts are the
// driver's signal that no server could be contacted.
func isUnavailable(err error) bool {
	return mongo.IsTimeout(err) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, mongo.ErrClientDisconnected)
}

// translateErr maps driver errors onto domain errors so callers never
// inspect driver types.
func translateErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return domain.ErrNotFound
	case isUnavailable(err):
		return fmt.Errorf("%w: %w", domain.ErrUnavailable, err)
	}
	return err
}
