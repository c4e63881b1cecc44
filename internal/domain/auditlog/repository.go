package auditlog

import "context"

type Repository interface {
	Append(ctx context.Context, entry *AuditLog) error
}
