package db

import (
	"context"
	"database/sql"
	"io"
	"time"

	"github.com/chepyr/go-todo-list/internal/config"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

func Connect(driverName, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	return db, nil
}

// Open builds the todo store selected by cfg and makes sure its schema exists.
// The returned Closer releases the underlying connection.
func Open(ctx context.Context, cfg *config.Config) (TodoRepositoryInterface, io.Closer, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		return openSQL(ctx, DialectSQLite, cfg.SQLitePath)
	case config.StorePostgres:
		return openSQL(ctx, DialectPostgres, cfg.PostgresDSN())
	case config.StoreMongo:
		return openMongo(ctx, cfg.MongoURI, cfg.MongoDB)
	default:
		return nil, nil, errors.Errorf("unknown store %q", cfg.Store)
	}
}

func openSQL(ctx context.Context, dialect Dialect, dsn string) (TodoRepositoryInterface, io.Closer, error) {
	conn, err := Connect(string(dialect), dsn)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "connect %s", dialect)
	}
	if dialect == DialectSQLite {
		// single writer; also keeps ":memory:" databases on one connection
		conn.SetMaxOpenConns(1)
	}

	repo := NewTodoRepository(conn, dialect)
	if err := repo.EnsureSchema(ctx); err != nil {
		conn.Close()
		return nil, nil, err
	}
	return repo, conn, nil
}

type mongoCloser struct {
	client *mongo.Client
}

func (c mongoCloser) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.client.Disconnect(ctx)
}

func openMongo(ctx context.Context, uri, dbName string) (TodoRepositoryInterface, io.Closer, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, errors.Wrap(err, "connect mongo")
	}
	closer := mongoCloser{client: client}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		closer.Close()
		return nil, nil, errors.Wrap(err, "ping mongo")
	}

	repo := NewMongoRepository(client.Database(dbName))
	if err := repo.EnsureSchema(ctx); err != nil {
		closer.Close()
		return nil, nil, err
	}
	return repo, closer, nil
}
