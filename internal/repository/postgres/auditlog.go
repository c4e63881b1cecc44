package postgres

import (
	"context"

	"github.com/subcycle/subcycle/internal/domain/auditlog"
	ierr "github.com/subcycle/subcycle/internal/errors"
	"github.com/subcycle/subcycle/internal/logger"
	"github.com/subcycle/subcycle/internal/postgres"
)

type auditLogRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

func NewAuditLogRepository(client postgres.IClient, logger *logger.Logger) auditlog.Repository {
	return &auditLogRepository{client: client, logger: logger}
}

func (r *auditLogRepository) Append(ctx context.Context, entry *auditlog.AuditLog) error {
	query := `
		INSERT INTO audit_logs (
			id, entity_type, entity_id, change_kind, snapshot, recorded_at,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :entity_type, :entity_id, :change_kind, :snapshot, :recorded_at,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	if _, err := sqlxNamedExec(ctx, r.client, query, entry); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to append audit log").
			Mark(ierr.ErrDatabase)
	}
	return nil
}
