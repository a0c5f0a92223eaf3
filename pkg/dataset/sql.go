// pkg/dataset/sql.go
package dataset

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	// Database drivers for the supported SQL sources.
	_ "github.com/lib/pq"
	_ "github.com/snowflakedb/gosnowflake"

	"github.com/shashank3959/NVTabular/pkg/config"
	"github.com/shashank3959/NVTabular/pkg/model"
)

// OpenSQL connects to a SQL source and verifies the connection.
func OpenSQL(ctx context.Context, cfg *config.SQLConfig, logger *zap.Logger) (*sqlx.DB, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", cfg.Driver, err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", cfg.Driver, err)
	}

	if logger != nil {
		logger.Info("Connected to SQL source",
			zap.String("driver", cfg.Driver),
			zap.String("database", cfg.Database))
	}
	return db, nil
}

// SQLDataset reads a table in bounded chunks with LIMIT/OFFSET paging.
// Row order follows the key column so paging is stable across queries.
type SQLDataset struct {
	db        *sqlx.DB
	table     string
	columns   []string
	orderBy   string
	chunkRows int
	logger    *zap.Logger
}

// NewSQLDataset creates a chunked reader over the named table. orderBy
// must name a column with a stable ordering; without it OFFSET paging can
// repeat or drop rows.
func NewSQLDataset(db *sqlx.DB, table, orderBy string, columns []string, chunkRows int, logger *zap.Logger) (*SQLDataset, error) {
	if table == "" {
		return nil, fmt.Errorf("table name is required")
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("at least one column is required")
	}
	if orderBy == "" {
		return nil, fmt.Errorf("an ordering column is required for stable paging")
	}
	if chunkRows < 1 {
		return nil, fmt.Errorf("chunk rows must be positive, got %d", chunkRows)
	}
	owned := make([]string, len(columns))
	copy(owned, columns)
	return &SQLDataset{
		db:        db,
		table:     table,
		columns:   owned,
		orderBy:   orderBy,
		chunkRows: chunkRows,
		logger:    logger,
	}, nil
}

// Columns returns the selected column names.
func (d *SQLDataset) Columns() []string {
	out := make([]string, len(d.columns))
	copy(out, d.columns)
	return out
}

// Chunks starts a new pass over the table.
func (d *SQLDataset) Chunks(ctx context.Context) ChunkIterator {
	return &sqlIterator{ds: d}
}

type sqlIterator struct {
	ds     *SQLDataset
	offset int
	done   bool
}

func (it *sqlIterator) Next(ctx context.Context) (*model.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if it.done {
		return nil, io.EOF
	}

	query := fmt.Sprintf(
		"SELECT %s FROM %s ORDER BY %s LIMIT %d OFFSET %d",
		strings.Join(it.ds.columns, ", "),
		it.ds.table,
		it.ds.orderBy,
		it.ds.chunkRows,
		it.offset,
	)

	rows, err := it.ds.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunk: %w", err)
	}
	defer rows.Close()

	cols := make(map[string][]interface{}, len(it.ds.columns))
	for _, name := range it.ds.columns {
		cols[name] = make([]interface{}, 0, it.ds.chunkRows)
	}

	count := 0
	for rows.Next() {
		record := make(map[string]interface{}, len(it.ds.columns))
		if err := rows.MapScan(record); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for _, name := range it.ds.columns {
			value := record[name]
			// Drivers return text as []byte; normalize to string.
			if b, ok := value.([]byte); ok {
				value = string(b)
			}
			cols[name] = append(cols[name], value)
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	if count == 0 {
		it.done = true
		return nil, io.EOF
	}
	if count < it.ds.chunkRows {
		it.done = true
	}
	it.offset += count

	if it.ds.logger != nil {
		it.ds.logger.Debug("Read SQL chunk",
			zap.String("table", it.ds.table),
			zap.Int("rows", count),
			zap.Int("offset", it.offset))
	}
	return model.NewChunk(it.ds.columns, cols)
}

func (it *sqlIterator) Close() error {
	it.done = true
	return nil
}
