package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"CapTrades/internal/domain/models"
	"CapTrades/internal/domain/repository"
	"CapTrades/pkg/util"
)

// ClickHouseArchive implements Archive for ClickHouse.
type ClickHouseArchive struct {
	db    *sql.DB
	table string
}

// NewClickHouseArchive creates a ClickHouse analysis archive.
func NewClickHouseArchive(db *sql.DB, table string) repository.Archive {
	return &ClickHouseArchive{db: db, table: table}
}

// SchemaStatements returns idempotent DDL for the archive table.
func SchemaStatements(database, table string) []string {
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.%s (
			analyzed_at DateTime,
			trade_id String,
			disclosed_at Nullable(DateTime),
			member String,
			chamber String,
			ticker String,
			company String,
			trade_type String,
			amount_min Float64,
			amount_max Float64,
			committees Array(String),
			decision String,
			confidence Int32,
			rationale Array(String),
			matched_committee String
		) ENGINE = MergeTree()
		PARTITION BY toYYYYMM(analyzed_at)
		ORDER BY (ticker, analyzed_at)`, database, table),
	}
}

const archiveColumns = "analyzed_at, trade_id, disclosed_at, member, chamber, ticker, company, trade_type, amount_min, amount_max, committees, decision, confidence, rationale, matched_committee"

func (a *ClickHouseArchive) Store(ctx context.Context, at *models.AnalyzedTrade, analyzedAt time.Time) error {
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", a.table, archiveColumns)
	_, err := a.db.ExecContext(ctx, q, archiveArgs(at, analyzedAt)...)
	return err
}

func (a *ClickHouseArchive) StoreBatch(ctx context.Context, ats []*models.AnalyzedTrade, analyzedAt time.Time) error {
	if len(ats) == 0 {
		return nil
	}
	// Multi-row VALUES keeps round-trips down; batches here are small
	// (disclosure feeds move hundreds of rows, not millions).
	const chunkSize = 500
	for start := 0; start < len(ats); start += chunkSize {
		end := start + chunkSize
		if end > len(ats) {
			end = len(ats)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*15)
		for _, at := range ats[start:end] {
			if at == nil || at.Trade.Ticker == "" {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args, archiveArgs(at, analyzedAt)...)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s", a.table, archiveColumns, strings.Join(values, ","))
		if _, err := a.db.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return nil
}

func archiveArgs(at *models.AnalyzedTrade, analyzedAt time.Time) []interface{} {
	var disclosedAt interface{}
	if ts, ok := util.ParseTime(at.Trade.Timestamp); ok {
		disclosedAt = ts
	}
	return []interface{}{
		analyzedAt,
		at.Trade.ID,
		disclosedAt,
		at.Trade.Member,
		string(at.Trade.Chamber),
		at.Trade.Ticker,
		at.Trade.Company,
		string(at.Trade.Type),
		at.Trade.AmountMin,
		at.Trade.AmountMax,
		at.Trade.Committees,
		string(at.Analysis.Decision),
		int32(at.Analysis.Confidence),
		at.Analysis.Rationale,
		at.Analysis.MatchedCommittee,
	}
}

func (a *ClickHouseArchive) Health(ctx context.Context) error {
	return a.db.PingContext(ctx)
}

func (a *ClickHouseArchive) Close() error {
	return nil // pool lifecycle is owned by pkg/clickhouse
}
