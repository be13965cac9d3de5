package cmd

import (
	"context"
	"fmt"

	"github.com/dbsmedya/enumexport/internal/config"
	"github.com/dbsmedya/enumexport/internal/database"
	"github.com/dbsmedya/enumexport/internal/source"
)

// buildSource creates the configured source adapter for the positional
// argument: a manifest path or a MySQL database name.
func buildSource(ctx context.Context, cfg *config.Config, dbManager *database.Manager, arg string) (source.Source, error) {
	switch cfg.Source.Type {
	case config.SourceMySQL:
		if err := dbManager.ConnectSource(ctx, arg); err != nil {
			return nil, fmt.Errorf("%w: %w", source.ErrSourceUnavailable, err)
		}
		return source.NewMySQL(dbManager.Source, arg, cfg.Source.MySQL)
	case config.SourceManifest, "":
		return source.NewManifest(arg, cfg.Source.NamespacePrefix), nil
	default:
		return nil, fmt.Errorf("unsupported source type %q", cfg.Source.Type)
	}
}
