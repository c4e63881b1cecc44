package auditlog

import (
	"time"

	"github.com/subcycle/subcycle/internal/types"
)

// ChangeKind classifies an audit entry.
type ChangeKind string

const (
	ChangeKindCreate ChangeKind = "create"
	ChangeKindUpdate ChangeKind = "update"
)

// AuditLog is an append-only record of an entity write. Entries are
// produced by the repository layer on every save; nothing reads them back
// inside this service.
type AuditLog struct {
	ID string `db:"id" json:"id"`

	// EntityType names the audited entity, e.g. "subscription"
	EntityType string `db:"entity_type" json:"entity_type"`

	// EntityID is the id of the audited row
	EntityID string `db:"entity_id" json:"entity_id"`

	ChangeKind ChangeKind `db:"change_kind" json:"change_kind"`

	// Snapshot is the full entity serialized as JSON at write time
	Snapshot []byte `db:"snapshot" json:"snapshot"`

	RecordedAt time.Time `db:"recorded_at" json:"recorded_at"`

	types.BaseModel
}
