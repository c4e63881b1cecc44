package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/subcycle/subcycle/internal/postgres"
)

func sqlxNamedExec(ctx context.Context, client postgres.IClient, query string, arg interface{}) (sql.Result, error) {
	return sqlx.NamedExecContext(ctx, client.Querier(ctx), query, arg)
}
