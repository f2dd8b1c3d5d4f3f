// Package pg provides utilities for connecting the notifier's Postgres-backed
// stores using the pgx/v5 driver: pooled Connect with retry, goose schema
// migrations from an embedded filesystem, a health check helper, and error
// classification helpers.
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    // terminate: the notification state store is the source of truth
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, migrations.FS, slog.Default()); err != nil {
//	    // terminate
//	}
//
// The Postgres implementations of the event log, preference store and
// notification state store (pkg/event, pkg/preference, pkg/notification) all
// share the pool created here.
package pg
