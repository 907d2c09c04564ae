package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"metropolis/internal/city"
)

const schemaSQL = `
CREATE SCHEMA IF NOT EXISTS city;

CREATE TABLE IF NOT EXISTS city.zones (
	zone_type  text PRIMARY KEY,
	zone_count text NOT NULL DEFAULT '0',
	income     text NOT NULL DEFAULT '0',
	position   int  NOT NULL
);

CREATE TABLE IF NOT EXISTS city.resources (
	resource_type     text PRIMARY KEY,
	current_value     text NOT NULL,
	regeneration_rate text NOT NULL DEFAULT '0',
	position          int  NOT NULL
);

CREATE TABLE IF NOT EXISTS city.events (
	id           bigserial PRIMARY KEY,
	description  text NOT NULL,
	impact_type  text NOT NULL,
	impact_value text NOT NULL,
	duration     text NOT NULL DEFAULT '1'
);

CREATE TABLE IF NOT EXISTS city.resource_history (
	run_id            uuid             NOT NULL,
	day               int              NOT NULL,
	resource_type     text             NOT NULL,
	current_value     double precision NOT NULL,
	regeneration_rate double precision NOT NULL,
	recorded_at       timestamptz      NOT NULL DEFAULT now(),
	PRIMARY KEY (run_id, day, resource_type)
);
`

type PostgresOptions struct {
	MaxConns int32
	MinConns int32
}

// Postgres stores the sheets in the city schema.
type Postgres struct {
	db  *pgxpool.Pool
	log *slog.Logger
}

func Connect(ctx context.Context, databaseURL string, opts PostgresOptions) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = 4
	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}
	cfg.MinConns = opts.MinConns
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 10 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return pool, nil
}

func NewPostgres(pool *pgxpool.Pool, logger *slog.Logger) *Postgres {
	if logger == nil {
		logger = slog.Default()
	}
	return &Postgres{db: pool, log: logger}
}

// Migrate creates the schema and seeds any empty sheet with defaults.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	tx, err := p.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var zones, resources, events int
	if err := tx.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(1) FROM city.zones),
			(SELECT COUNT(1) FROM city.resources),
			(SELECT COUNT(1) FROM city.events)
	`).Scan(&zones, &resources, &events); err != nil {
		return err
	}
	if zones == 0 {
		for i, z := range DefaultZones() {
			if _, err := tx.Exec(ctx, `
				INSERT INTO city.zones (zone_type, zone_count, income, position)
				VALUES ($1, $2, $3, $4)
			`, z.Zone, z.Count, z.Income, i); err != nil {
				return err
			}
		}
	}
	if resources == 0 {
		if err := upsertResourcesTx(ctx, tx, DefaultResources()); err != nil {
			return err
		}
	}
	if events == 0 {
		for _, ev := range DefaultEvents() {
			if _, err := tx.Exec(ctx, `
				INSERT INTO city.events (description, impact_type, impact_value, duration)
				VALUES ($1, $2, $3, $4)
			`, ev.Description, ev.ImpactType, ev.ImpactValue, ev.Duration); err != nil {
				return err
			}
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	p.log.Info("postgres store ready", "seeded_zones", zones == 0, "seeded_resources", resources == 0, "seeded_events", events == 0)
	return nil
}

func (p *Postgres) LoadZoneCatalog(ctx context.Context) ([]city.ZoneRecord, error) {
	rows, err := p.db.Query(ctx, `
		SELECT zone_type, zone_count, income
		FROM city.zones
		ORDER BY position, zone_type
	`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (city.ZoneRecord, error) {
		var z city.ZoneRecord
		err := row.Scan(&z.Zone, &z.Count, &z.Income)
		return z, err
	})
}

func (p *Postgres) LoadResourceDefaults(ctx context.Context) ([]city.ResourceRecord, error) {
	rows, err := p.db.Query(ctx, `
		SELECT resource_type, current_value, regeneration_rate
		FROM city.resources
		ORDER BY position, resource_type
	`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (city.ResourceRecord, error) {
		var r city.ResourceRecord
		err := row.Scan(&r.Name, &r.Current, &r.Regen)
		return r, err
	})
}

func (p *Postgres) LoadEventCatalog(ctx context.Context) ([]city.EventRecord, error) {
	rows, err := p.db.Query(ctx, `
		SELECT description, impact_type, impact_value, duration
		FROM city.events
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (city.EventRecord, error) {
		var ev city.EventRecord
		err := row.Scan(&ev.Description, &ev.ImpactType, &ev.ImpactValue, &ev.Duration)
		return ev, err
	})
}

// PersistResources writes the live sheet and a history row per resource in
// one transaction, retrying serialization failures.
func (p *Postgres) PersistResources(ctx context.Context, runID uuid.UUID, day int, snapshot []city.ResourceBalance) error {
	return p.withRetry(ctx, func(tx pgx.Tx) error {
		if err := upsertResourcesTx(ctx, tx, recordsFromSnapshot(snapshot)); err != nil {
			return err
		}
		for _, b := range snapshot {
			if _, err := tx.Exec(ctx, `
				INSERT INTO city.resource_history (run_id, day, resource_type, current_value, regeneration_rate)
				VALUES ($1::uuid, $2, $3, $4, $5)
				ON CONFLICT (run_id, day, resource_type) DO UPDATE
				SET current_value = EXCLUDED.current_value,
				    regeneration_rate = EXCLUDED.regeneration_rate,
				    recorded_at = now()
			`, runID.String(), day, b.Resource.String(), b.Current, b.Regen); err != nil {
				return err
			}
		}
		return nil
	})
}

func (p *Postgres) ResetDefaults(ctx context.Context) error {
	return p.withRetry(ctx, func(tx pgx.Tx) error {
		return upsertResourcesTx(ctx, tx, DefaultResources())
	})
}

func (p *Postgres) withRetry(ctx context.Context, fn func(pgx.Tx) error) error {
	const attempts = 3
	var err error
	for i := 0; i < attempts; i++ {
		err = p.runTx(ctx, fn)
		if err == nil || !isSerializationError(err) {
			return err
		}
		p.log.Debug("retrying serialization failure", "attempt", i+1, "err", err)
		if err := sleepWithContext(ctx, time.Duration(i+1)*50*time.Millisecond); err != nil {
			return err
		}
	}
	return err
}

func (p *Postgres) runTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func upsertResourcesTx(ctx context.Context, tx pgx.Tx, records []city.ResourceRecord) error {
	for i, r := range records {
		if _, err := tx.Exec(ctx, `
			INSERT INTO city.resources (resource_type, current_value, regeneration_rate, position)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (resource_type) DO UPDATE
			SET current_value = EXCLUDED.current_value,
			    regeneration_rate = EXCLUDED.regeneration_rate
		`, r.Name, r.Current, r.Regen, i); err != nil {
			return err
		}
	}
	return nil
}

func isSerializationError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "40001"
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
