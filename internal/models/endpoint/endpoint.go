package endpoint

import (
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/jackc/pgtype"
	"github.com/lib/pq"
)

// Endpoint is a dispatch target owned by configuration management. The core
// only ever reads these rows.
type Endpoint struct {
	ID         strfmt.UUID4   `json:"id" gorm:"type:uuid;primaryKey;column:id"`
	OrgID      strfmt.UUID4   `json:"org_id" gorm:"type:uuid;not null;column:org_id"`
	Name       string         `json:"name" gorm:"not null;column:name"`
	Address    string         `json:"address" gorm:"not null;column:address"`
	Mapping    pgtype.JSONB   `json:"mapping" gorm:"type:jsonb;column:mapping"`
	Categories pq.StringArray `json:"categories" gorm:"type:text[];column:categories"`
	Active     bool           `json:"active" gorm:"not null;default:true;column:active"`
	CreatedAt  time.Time      `json:"created_at" gorm:"autoCreateTime;column:created_at"`
	UpdatedAt  time.Time      `json:"updated_at" gorm:"autoUpdateTime;column:updated_at"`
}

func (e *Endpoint) TableName() string {
	return "endpoints"
}

// SubscribesToAny reports whether the endpoint's category subscriptions
// intersect the given set.
func (e *Endpoint) SubscribesToAny(categories []string) bool {
	for _, want := range categories {
		for _, have := range e.Categories {
			if want == have {
				return true
			}
		}
	}
	return false
}

// FieldMapping decodes the declarative mapping column into output-field →
// source-expression pairs.
func (e *Endpoint) FieldMapping() (map[string]string, error) {
	m := map[string]string{}
	if e.Mapping.Status != pgtype.Present {
		return m, nil
	}
	if err := e.Mapping.AssignTo(&m); err != nil {
		return nil, err
	}
	return m, nil
}
