// Package migrations embeds the SQL schema and applies it with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"

	"github.com/Prabashv2/movie-watchlist-app/internal/jsonlog"
	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var FS embed.FS

// Up applies every pending migration to db.
func Up(ctx context.Context, db *sql.DB, logger *jsonlog.Logger) error {
	goose.SetBaseFS(FS)
	goose.SetLogger(gooseLogger{logger})

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// gooseLogger routes goose output through jsonlog.
type gooseLogger struct {
	logger *jsonlog.Logger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.logger.PrintInfo(strings.TrimSpace(fmt.Sprintf(format, v...)), map[string]string{"component": "migrations"})
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.PrintFatal(fmt.Errorf(format, v...), map[string]string{"component": "migrations"})
}
