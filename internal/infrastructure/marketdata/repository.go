package marketdata

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	domain "marketdata-downloader/internal/domain/entity/marketdata"
)

const schema = `
	CREATE TABLE IF NOT EXISTS ticks (
		id            uuid PRIMARY KEY,
		ticker        varchar(50) NOT NULL,
		security_type varchar(20) NOT NULL,
		market        varchar(20) NOT NULL,
		expiry        timestamptz,
		traded_at     timestamptz NOT NULL,
		price         numeric NOT NULL,
		bid           numeric NOT NULL,
		ask           numeric NOT NULL,
		quantity      numeric NOT NULL
	);
	CREATE INDEX IF NOT EXISTS ticks_ticker_traded_at_idx ON ticks (ticker, traded_at);

	CREATE TABLE IF NOT EXISTS trade_bars (
		id            uuid PRIMARY KEY,
		ticker        varchar(50) NOT NULL,
		security_type varchar(20) NOT NULL,
		market        varchar(20) NOT NULL,
		expiry        timestamptz,
		resolution    varchar(10) NOT NULL,
		period_start  timestamptz NOT NULL,
		period_end    timestamptz NOT NULL,
		open          numeric NOT NULL,
		high          numeric NOT NULL,
		low           numeric NOT NULL,
		close         numeric NOT NULL,
		volume        numeric NOT NULL
	);
	CREATE INDEX IF NOT EXISTS trade_bars_ticker_resolution_start_idx ON trade_bars (ticker, resolution, period_start);`

var (
	tickColumns = []string{"id", "ticker", "security_type", "market", "expiry", "traded_at", "price", "bid", "ask", "quantity"}
	barColumns  = []string{"id", "ticker", "security_type", "market", "expiry", "resolution", "period_start", "period_end", "open", "high", "low", "close", "volume"}
)

type pgxConn interface {
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Repository writes downloaded series to Postgres, one COPY per call.
type Repository struct {
	pool *pgxpool.Pool
	conn pgxConn
}

func NewRepository(ctx context.Context, dsn string) (*Repository, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	return &Repository{pool: pool, conn: pool}, nil
}

func (r *Repository) Close() {
	if r == nil || r.pool == nil {
		return
	}
	r.pool.Close()
}

func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.conn.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create marketdata tables: %w", err)
	}
	return nil
}

func (r *Repository) WriteTicks(ctx context.Context, symbol domain.Symbol, ticks []domain.Tick) error {
	if len(ticks) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(ticks))
	for _, tick := range ticks {
		rows = append(rows, []any{
			uuid.New(),
			symbol.Ticker,
			symbol.SecurityType.String(),
			symbol.Market.String(),
			nullableTime(symbol.Expiry),
			tick.Time.UTC(),
			numeric(tick.Value),
			numeric(tick.Bid),
			numeric(tick.Ask),
			numeric(tick.Quantity),
		})
	}
	if _, err := r.conn.CopyFrom(ctx, pgx.Identifier{"ticks"}, tickColumns, pgx.CopyFromRows(rows)); err != nil {
		return fmt.Errorf("copy ticks: %w", err)
	}
	return nil
}

func (r *Repository) WriteBars(ctx context.Context, symbol domain.Symbol, resolution domain.Resolution, bars []domain.TradeBar) error {
	if len(bars) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(bars))
	for _, bar := range bars {
		rows = append(rows, []any{
			uuid.New(),
			symbol.Ticker,
			symbol.SecurityType.String(),
			symbol.Market.String(),
			nullableTime(symbol.Expiry),
			resolution.String(),
			bar.Time.UTC(),
			bar.EndTime.UTC(),
			numeric(bar.Open),
			numeric(bar.High),
			numeric(bar.Low),
			numeric(bar.Close),
			numeric(bar.Volume),
		})
	}
	if _, err := r.conn.CopyFrom(ctx, pgx.Identifier{"trade_bars"}, barColumns, pgx.CopyFromRows(rows)); err != nil {
		return fmt.Errorf("copy trade bars: %w", err)
	}
	return nil
}

func numeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	utc := t.UTC()
	return &utc
}
