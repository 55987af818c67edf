package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lecternhq/lectern/pkg/config"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

const memoryPath = ":memory:"

// slowQuery is the duration after which the debug hook logs a query as a
// warning instead of at debug level.
const slowQuery = 250 * time.Millisecond

type queryLogger struct {
	log logger.Logger
}

func (*queryLogger) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (q *queryLogger) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	elapsed := time.Since(event.StartTime)
	data := logger.Data{
		"operation":   event.Operation(),
		"duration_ms": elapsed.Milliseconds(),
	}
	if event.Err != nil && !errors.Is(event.Err, sql.ErrNoRows) {
		data["error"] = event.Err.Error()
	}
	if elapsed >= slowQuery {
		q.log.Warn(event.Query, data)
		return
	}
	q.log.Debug(event.Query, data)
}

type pragma struct {
	name  string
	value string
}

// pragmas are applied to every connection opened by New. WAL lets the public
// site read while an admin writes.
func pragmas(cfg *config.Config) []pragma {
	ps := []pragma{
		{"busy_timeout", fmt.Sprint(cfg.DatabaseBusyTimeout.Milliseconds())},
		{"foreign_keys", "ON"},
	}
	if cfg.DatabaseFilePath != memoryPath {
		ps = append([]pragma{{"journal_mode", "WAL"}}, ps...)
	}
	return ps
}

// New opens the SQLite database named in cfg, waits for it to answer and
// applies the connection pragmas.
func New(cfg *config.Config) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DatabaseFilePath)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	// An in-memory database only lives as long as its connection, so every
	// query has to share one.
	if cfg.DatabaseFilePath == memoryPath {
		sqldb.SetMaxOpenConns(1)
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())
	if cfg.DatabaseDebug {
		db.AddQueryHook(&queryLogger{logger.NewWithLevel("debug")})
	}

	if err := ping(context.Background(), db, cfg.DatabaseConnectRetryCount, cfg.DatabaseConnectRetryDelay); err != nil {
		_ = db.Close()
		return nil, err
	}

	for _, p := range pragmas(cfg) {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA %s=%s", p.name, p.value)); err != nil {
			_ = db.Close()
			return nil, errors.Wrapf(err, "failed to set %s", p.name)
		}
	}

	return db, nil
}

// ping tries the database up to attempts times, sleeping delay between tries.
func ping(ctx context.Context, db *bun.DB, attempts int, delay time.Duration) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return errors.WithStack(ctx.Err())
		case <-time.After(delay):
		}
	}
	return errors.Wrapf(err, "database unreachable after %d attempts", attempts)
}
