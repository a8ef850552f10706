package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the minimal tables needed by this app.
// This keeps setup simple (no external migration tool), but still gives persistence.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`create table if not exists automated_trades (
			id text primary key,
			owner text not null,
			rule_id text not null,
			action_type text not null,
			contract text not null default '',
			token_id text not null default '',
			price double precision not null default 0,
			marketplace text not null default '',
			status text not null,
			tx_ref text not null default '',
			created_at timestamptz not null,
			executed_at timestamptz null,
			profit double precision null,
			error text not null default ''
		);`,
		`create index if not exists automated_trades_owner_created_idx on automated_trades(owner, created_at desc);`,
		`create index if not exists automated_trades_status_idx on automated_trades(status);`,
		`create index if not exists automated_trades_rule_idx on automated_trades(rule_id);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
