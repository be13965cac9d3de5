package exporter

import (
	"context"
	"fmt"

	"github.com/dbsmedya/enumexport/internal/extension"
	"github.com/dbsmedya/enumexport/internal/schema"
	"github.com/dbsmedya/enumexport/internal/source"
)

// TablePlan describes what an export would do for one table.
type TablePlan struct {
	Name          string
	Schema        schema.Schema
	Records       int64
	ExtensionHits int64
}

// Plan walks the source without touching any sink and reports the schema
// and record count of every table. Malformed records fail the plan the same
// way they would fail an export.
func Plan(ctx context.Context, src source.Source, resolver *schema.Resolver, lookup *extension.Lookup) ([]TablePlan, error) {
	if err := src.Open(ctx); err != nil {
		return nil, fmt.Errorf("failed to open source: %w", err)
	}
	defer src.Close()

	var plans []TablePlan
	for table, err := range src.Tables(ctx) {
		if err != nil {
			return plans, fmt.Errorf("failed to read source: %w", err)
		}

		p := TablePlan{Name: table.Name, Schema: resolver.Resolve(table.Name)}
		for raw, err := range table.Records {
			if err != nil {
				return plans, fmt.Errorf("table %s: %w", table.Name, err)
			}
			p.Records++
			if p.Schema.HasExtension {
				if _, ok := lookup.Lookup(table.Name, raw.Label); ok {
					p.ExtensionHits++
				}
			}
		}
		plans = append(plans, p)
	}
	return plans, nil
}
