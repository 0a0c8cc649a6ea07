// Package db opens the credential store selected by configuration.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/carrental/admin-api/internal/core/ports"
	"github.com/carrental/admin-api/internal/infrastructure/db/memory"
	"github.com/carrental/admin-api/internal/infrastructure/db/mongo"
	"github.com/carrental/admin-api/internal/infrastructure/db/postgres"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

type Options struct {
	Driver           string
	Timeout          time.Duration
	PostgresDSN      string
	PostgresMaxConns int32
	MongoURI         string
	MongoDB          string
	// Migrate creates tables or indexes before the store is returned.
	Migrate bool
}

// Store bundles everything the server needs from the persistence layer.
type Store struct {
	Users  ports.CredentialStore
	Events ports.AuditSink
	Pinger ports.Pinger
	close  func(context.Context) error
}

func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

func Open(ctx context.Context, opts Options, log zerolog.Logger) (*Store, error) {
	switch opts.Driver {
	case DriverPostgres:
		return openPostgres(ctx, opts, log)
	case DriverMongo:
		return openMongo(ctx, opts, log)
	case DriverMemory:
		log.Warn().Msg("using in-memory credential store; data is lost on restart")
		users := memory.NewUserRepository()
		return &Store{Users: users, Events: memory.NewEventRepository(), Pinger: users}, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}

func openPostgres(ctx context.Context, opts Options, log zerolog.Logger) (*Store, error) {
	pool, err := postgres.Connect(ctx, postgres.Config{DSN: opts.PostgresDSN, MaxConns: opts.PostgresMaxConns, Timeout: opts.Timeout})
	if err != nil {
		return nil, err
	}
	if opts.Migrate {
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("postgres schema ensured")
	}

	users := postgres.NewUserRepository(pool)
	return &Store{
		Users:  users,
		Events: postgres.NewEventRepository(pool),
		Pinger: users,
		close: func(context.Context) error {
			pool.Close()
			return nil
		},
	}, nil
}

func openMongo(ctx context.Context, opts Options, log zerolog.Logger) (*Store, error) {
	client, database, err := mongo.Connect(ctx, mongo.Config{URI: opts.MongoURI, Database: opts.MongoDB, Timeout: opts.Timeout})
	if err != nil {
		return nil, err
	}

	users := mongo.NewUserRepository(database)
	if opts.Migrate {
		if err := users.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("mongo indexes: %w", err)
		}
		log.Info().Msg("mongo indexes ensured")
	}

	return &Store{
		Users:  users,
		Events: mongo.NewEventRepository(database),
		Pinger: mongo.NewPinger(client),
		close:  client.Disconnect,
	}, nil
}
