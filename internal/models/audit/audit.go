package audit

import (
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/jackc/pgtype"
)

const (
	ActionIngest  string = "ingest"
	ActionApprove string = "approve"
	ActionDeny    string = "deny"

	EntityTypeNotification string = "notification"
)

// Record is append-only. Before/After hold full entity snapshots; After stays
// null when the attempted mutation failed.
type Record struct {
	ID            strfmt.UUID4 `json:"id" gorm:"type:uuid;primaryKey;column:id"`
	OrgID         strfmt.UUID4 `json:"org_id" gorm:"type:uuid;not null;column:org_id"`
	ActorID       strfmt.UUID4 `json:"actor_id" gorm:"type:uuid;not null;column:actor_id"`
	EntityType    string       `json:"entity_type" gorm:"not null;column:entity_type"`
	EntityID      strfmt.UUID4 `json:"entity_id" gorm:"type:uuid;not null;column:entity_id"`
	Action        string       `json:"action" gorm:"not null;column:action"`
	Before        pgtype.JSONB `json:"before" gorm:"type:jsonb;column:before_state"`
	After         pgtype.JSONB `json:"after" gorm:"type:jsonb;column:after_state"`
	CorrelationID string       `json:"correlation_id" gorm:"column:correlation_id"`
	RemoteAddr    string       `json:"remote_addr" gorm:"column:remote_addr"`
	UserAgent     string       `json:"user_agent" gorm:"column:user_agent"`
	CreatedAt     time.Time    `json:"created_at" gorm:"autoCreateTime;column:created_at"`
}

func (r *Record) TableName() string {
	return "audit_records"
}
