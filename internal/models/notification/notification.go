package notification

import (
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/jackc/pgtype"
	"github.com/lib/pq"

	"github.com/victor-lby/sos-cidadao-sub000/pkg/errors"
)

const (
	StatusReceived   string = "RECEIVED"
	StatusApproved   string = "APPROVED"
	StatusDenied     string = "DENIED"
	StatusDispatched string = "DISPATCHED"
)

const (
	SeverityMin = 0
	SeverityMax = 5
)

// SchemaVersion marks the current persisted layout. Only ever incremented.
const SchemaVersion = 1

// Notification is a civic alert under moderation. RawPayload keeps the inbound
// body verbatim for audit and replay; it is never interpreted after ingestion.
type Notification struct {
	ID           strfmt.UUID4   `json:"id" gorm:"type:uuid;primaryKey;column:id"`
	OrgID        strfmt.UUID4   `json:"org_id" gorm:"type:uuid;not null;column:org_id"`
	Title        string         `json:"title" gorm:"not null;column:title"`
	Body         string         `json:"body" gorm:"not null;column:body"`
	Severity     int            `json:"severity" gorm:"not null;column:severity"`
	OriginTag    string         `json:"origin_tag" gorm:"column:origin_tag"`
	RawPayload   pgtype.JSONB   `json:"raw_payload" gorm:"type:jsonb;column:raw_payload"`
	BaseTargetID *strfmt.UUID4  `json:"base_target_id,omitempty" gorm:"type:uuid;column:base_target_id"`
	Targets      pq.StringArray `json:"targets" gorm:"type:text[];column:targets"`
	Categories   pq.StringArray `json:"categories" gorm:"type:text[];column:categories"`
	Status       string         `json:"status" gorm:"not null;column:status"`
	DenialReason *string        `json:"denial_reason,omitempty" gorm:"column:denial_reason"`
	Version      int64          `json:"version" gorm:"not null;default:1;column:version"`
	Schema       int            `json:"schema" gorm:"not null;column:schema"`
	CreatedBy    strfmt.UUID4   `json:"created_by" gorm:"type:uuid;column:created_by"`
	UpdatedBy    strfmt.UUID4   `json:"updated_by" gorm:"type:uuid;column:updated_by"`
	CreatedAt    time.Time      `json:"created_at" gorm:"autoCreateTime;column:created_at"`
	UpdatedAt    time.Time      `json:"updated_at" gorm:"autoUpdateTime;column:updated_at"`
	DeletedAt    *time.Time     `json:"deleted_at,omitempty" gorm:"column:deleted_at"`
}

func (n *Notification) TableName() string {
	return "notifications"
}

// Validate checks the cross-field invariants that must hold in every persisted
// state.
func (n *Notification) Validate() error {
	if n.Severity < SeverityMin || n.Severity > SeverityMax {
		return errors.NewValidation("severity must be between 0 and 5")
	}
	switch n.Status {
	case StatusReceived, StatusApproved, StatusDenied, StatusDispatched:
	default:
		return errors.NewValidation("unknown status " + n.Status)
	}
	if n.Status == StatusDenied {
		if n.DenialReason == nil || *n.DenialReason == "" {
			return errors.NewValidation("denied notification requires a denial reason")
		}
	} else if n.DenialReason != nil {
		return errors.NewValidation("denial reason only allowed on denied notification")
	}
	if n.Status == StatusApproved || n.Status == StatusDispatched {
		if len(n.Targets) == 0 {
			return errors.NewValidation("approved notification requires at least one target")
		}
		if len(n.Categories) == 0 {
			return errors.NewValidation("approved notification requires at least one category")
		}
	}
	return nil
}

// CanTransitionTo reports whether the lifecycle allows moving to next from the
// current status. DENIED and DISPATCHED are terminal.
func (n *Notification) CanTransitionTo(next string) bool {
	switch n.Status {
	case StatusReceived:
		return next == StatusApproved || next == StatusDenied
	case StatusApproved:
		return next == StatusDispatched
	default:
		return false
	}
}

// Filter narrows List queries. Zero values mean "no constraint".
type Filter struct {
	Status    string
	OriginTag string
	Category  string
	Limit     int
	Offset    int
}
