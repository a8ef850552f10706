package repository

import (
	"context"
	"errors"
	"time"

	"nfttrader-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresTradeRepository backs the automated trade log with Postgres so a
// deployment can survive restarts. Active trades: status in
// ('pending','executing').
type PostgresTradeRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresTradeRepository(pool *pgxpool.Pool) *PostgresTradeRepository {
	return &PostgresTradeRepository{pool: pool}
}

func (r *PostgresTradeRepository) Append(trade *domain.AutomatedTrade) error {
	if trade == nil {
		return errors.New("nil trade")
	}

	_, err := r.pool.Exec(context.Background(), `
		insert into automated_trades(
			id, owner, rule_id, action_type, contract, token_id,
			price, marketplace, status, tx_ref,
			created_at, executed_at, profit, error
		) values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`,
		trade.ID,
		trade.Owner,
		trade.RuleID,
		string(trade.ActionType),
		trade.Contract,
		trade.TokenID,
		trade.Price,
		trade.Marketplace,
		string(trade.Status),
		trade.TxRef,
		trade.CreatedAt,
		nullableTime(trade.ExecutedAt),
		nullableFloat(trade.Profit),
		trade.Error,
	)
	return err
}

func (r *PostgresTradeRepository) Update(trade *domain.AutomatedTrade) error {
	if trade == nil {
		return errors.New("nil trade")
	}

	_, err := r.pool.Exec(context.Background(), `
		update automated_trades set
			status=$2,
			tx_ref=$3,
			executed_at=$4,
			profit=$5,
			error=$6
		where id=$1
	`,
		trade.ID,
		string(trade.Status),
		trade.TxRef,
		nullableTime(trade.ExecutedAt),
		nullableFloat(trade.Profit),
		trade.Error,
	)
	return err
}

func (r *PostgresTradeRepository) ListByOwner(owner string) []*domain.AutomatedTrade {
	return r.query(`
		select id, owner, rule_id, action_type, contract, token_id,
			price, marketplace, status, tx_ref,
			created_at, executed_at, profit, error
		from automated_trades
		where owner = $1
		order by created_at asc
	`, owner)
}

func (r *PostgresTradeRepository) ActiveByOwner(owner string) []*domain.AutomatedTrade {
	return r.query(`
		select id, owner, rule_id, action_type, contract, token_id,
			price, marketplace, status, tx_ref,
			created_at, executed_at, profit, error
		from automated_trades
		where owner = $1 and status in ('pending','executing')
		order by created_at asc
	`, owner)
}

func (r *PostgresTradeRepository) ClearOwner(owner string) {
	_, _ = r.pool.Exec(context.Background(), `delete from automated_trades where owner=$1`, owner)
}

func (r *PostgresTradeRepository) query(sql string, args ...any) []*domain.AutomatedTrade {
	rows, err := r.pool.Query(context.Background(), sql, args...)
	if err != nil {
		return []*domain.AutomatedTrade{}
	}
	defer rows.Close()

	trades := make([]*domain.AutomatedTrade, 0)
	for rows.Next() {
		trade, scanErr := scanAutomatedTrade(rows)
		if scanErr != nil {
			continue
		}
		trades = append(trades, trade)
	}
	return trades
}

// Helpers

type scanner interface {
	Scan(dest ...any) error
}

func scanAutomatedTrade(s scanner) (*domain.AutomatedTrade, error) {
	var t domain.AutomatedTrade
	var actionType, status string
	var executedAt pgtype.Timestamptz
	var profit pgtype.Float8

	if err := s.Scan(
		&t.ID,
		&t.Owner,
		&t.RuleID,
		&actionType,
		&t.Contract,
		&t.TokenID,
		&t.Price,
		&t.Marketplace,
		&status,
		&t.TxRef,
		&t.CreatedAt,
		&executedAt,
		&profit,
		&t.Error,
	); err != nil {
		return nil, err
	}

	t.ActionType = domain.ActionType(actionType)
	t.Status = domain.TradeStatus(status)
	if executedAt.Valid {
		v := executedAt.Time
		t.ExecutedAt = &v
	}
	if profit.Valid {
		v := profit.Float64
		t.Profit = &v
	}

	return &t, nil
}

func nullableFloat(v *float64) any {
	if v == nil {
		return pgtype.Float8{Valid: false}
	}
	return pgtype.Float8{Valid: true, Float64: *v}
}

func nullableTime(v *time.Time) any {
	if v == nil {
		return pgtype.Timestamptz{Valid: false}
	}
	return pgtype.Timestamptz{Valid: true, Time: *v}
}

// compile-time check
var _ domain.TradeRepository = (*PostgresTradeRepository)(nil)
