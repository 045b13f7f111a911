package store

import (
	"context"
	"fmt"

	"github.com/katakuxiko/askexperts/internal/config"
)

// Open connects the fact store selected by cfg.Backend.
func Open(ctx context.Context, cfg config.FactsConfig) (FactStore, error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		s, err := NewPgStore(cfg.PgConn)
		if err != nil {
			return nil, fmt.Errorf("postgres facts: %w", err)
		}
		return s, nil
	case config.BackendMongo:
		s, err := NewMongoStore(ctx, cfg.MongoURI, cfg.Database, cfg.Container)
		if err != nil {
			return nil, fmt.Errorf("mongo facts: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown facts backend %q", cfg.Backend)
	}
}
