package bootstrap

import (
	"context"
	"fmt"

	"github.com/locvowork/company_registry/internal/config"
	"github.com/locvowork/company_registry/internal/database"
	"github.com/locvowork/company_registry/internal/domain"
	"github.com/locvowork/company_registry/internal/persistence"
)

const (
	BackendFile      = "file"
	BackendPostgres  = "postgres"
	BackendElastic   = "elastic"
	BackendDatastore = "datastore"
)

// NewSnapshotter builds the snapshot backend selected by SNAPSHOT_BACKEND.
// The returned closer releases backend connections and is never nil.
func NewSnapshotter(ctx context.Context, cfg *config.EnvConfig) (domain.Snapshotter, func() error, error) {
	noop := func() error { return nil }

	switch cfg.SNAPSHOT_BACKEND {
	case BackendFile, "":
		s, err := persistence.NewFileSnapshotter(cfg.SNAPSHOT_PATH)
		if err != nil {
			return nil, noop, err
		}
		return s, noop, nil

	case BackendPostgres:
		db, err := database.NewPostgresDB(ctx, database.Config{
			Host:            cfg.DB_HOST,
			Port:            cfg.DB_PORT,
			User:            cfg.DB_USER,
			Password:        cfg.DB_PASSWORD,
			DBName:          cfg.DB_NAME,
			SSLMode:         cfg.DB_SSL_MODE,
			MaxOpenConns:    cfg.DB_MAX_OPEN_CONNS,
			MaxIdleConns:    cfg.DB_MAX_IDLE_CONNS,
			ConnMaxLifetime: cfg.DB_CONN_MAX_LIFETIME,
		})
		if err != nil {
			return nil, noop, fmt.Errorf("failed to initialize database: %w", err)
		}
		s, err := database.NewPostgresSnapshotter(ctx, db)
		if err != nil {
			db.Close()
			return nil, noop, err
		}
		return s, db.Close, nil

	case BackendElastic:
		s, err := database.NewElasticSearchClient(cfg.ELASTIC_URL, cfg.ELASTIC_INDEX)
		if err != nil {
			return nil, noop, err
		}
		return s, noop, nil

	case BackendDatastore:
		s, err := database.NewDatastoreClient(ctx, cfg.DATASTORE_PROJECT_ID)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil

	default:
		return nil, noop, fmt.Errorf("unknown snapshot backend %q", cfg.SNAPSHOT_BACKEND)
	}
}
