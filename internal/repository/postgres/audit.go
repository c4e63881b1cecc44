package postgres

import (
	"context"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/subcycle/subcycle/internal/domain/auditlog"
	"github.com/subcycle/subcycle/internal/logger"
	"github.com/subcycle/subcycle/internal/postgres"
	"github.com/subcycle/subcycle/internal/types"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// auditor appends an audit row alongside entity writes. Audit failures are
// logged, never propagated: an audit miss must not roll back the business
// write it describes.
type auditor struct {
	repo   auditlog.Repository
	logger *logger.Logger
}

func newAuditor(client postgres.IClient, logger *logger.Logger) *auditor {
	return &auditor{repo: NewAuditLogRepository(client, logger), logger: logger}
}

func (a *auditor) record(ctx context.Context, entityType, entityID string, kind auditlog.ChangeKind, entity interface{}) {
	snapshot, err := json.Marshal(entity)
	if err != nil {
		a.logger.Errorw("failed to serialize audit snapshot",
			"entity_type", entityType,
			"entity_id", entityID,
			"error", err,
		)
		return
	}

	entry := &auditlog.AuditLog{
		ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_AUDIT_LOG),
		EntityType: entityType,
		EntityID:   entityID,
		ChangeKind: kind,
		Snapshot:   snapshot,
		RecordedAt: time.Now().UTC(),
		BaseModel:  types.GetDefaultBaseModel(ctx),
	}

	if err := a.repo.Append(ctx, entry); err != nil {
		a.logger.Errorw("failed to append audit log",
			"entity_type", entityType,
			"entity_id", entityID,
			"error", err,
		)
	}
}
